package card

import (
	"context"

	"homebank/internal/models"
)

// Service defines the card issuance operations
type Service interface {
	GetCards(ctx context.Context, principal string) ([]models.CardDTO, error)
	CreateCard(ctx context.Context, principal string, input models.CreateCardInput) (*models.Card, error)
}

// IdentityResolver maps an authenticated principal to its customer.
type IdentityResolver interface {
	ResolveCustomer(ctx context.Context, principal string) (*models.Customer, error)
}

// NumberGenerator produces candidate card numbers and security codes.
type NumberGenerator interface {
	CardNumber() (string, error)
	CVV() (int, error)
}

// EventPublisher announces issued cards to other services.
type EventPublisher interface {
	CardIssued(ctx context.Context, evt models.CardIssued) error
}
