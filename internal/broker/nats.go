package broker

import (
	"errors"

	"homebank/internal/config"

	"github.com/nats-io/nats.go"
)

type Nats struct {
	Url   string
	Token string
	Conn  *nats.Conn
}

// Connect dials the NATS server named in the configuration.
func Connect(cfg config.NATSConfig) (*Nats, error) {
	n := &Nats{
		Url:   cfg.URL,
		Token: cfg.Token,
	}

	if n.Url == "" {
		return nil, errors.New("nats url not configured")
	}

	opts := []nats.Option{
		nats.Name("homebank card service"),
		nats.MaxReconnects(-1),
	}

	// if token provided
	if n.Token != "" {
		opts = append(opts, nats.Token(n.Token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn

	return n, nil
}

func (n *Nats) Close() {
	if n.Conn != nil {
		n.Conn.Drain()
	}
}
