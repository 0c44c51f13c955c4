package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"homebank/internal/models"

	log "github.com/sirupsen/logrus"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// CardPublisher announces issued cards on a NATS subject.
type CardPublisher struct {
	conn    Conn
	subject string
}

func NewCardPublisher(conn Conn, subject string) *CardPublisher {
	return &CardPublisher{
		conn:    conn,
		subject: subject,
	}
}

func (p *CardPublisher) CardIssued(ctx context.Context, evt models.CardIssued) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode card event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	log.WithFields(log.Fields{
		"subject": p.subject,
		"card":    evt.Reference,
	}).Debug("card issued event published")
	return nil
}
