package repositories

import (
	"context"
	"errors"

	"homebank/internal/models"
)

var ErrCardNumberTaken = errors.New("card number already exists")

// CardRepository persists issued cards.
type CardRepository interface {
	// Create stores a new card. A number clash with an existing card
	// returns ErrCardNumberTaken.
	Create(ctx context.Context, card *models.Card) error

	// ListByCustomer returns every card owned by the customer, oldest first.
	// The list may be served from cache.
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.Card, error)

	// CountByType counts the customer's cards of one type. Always read from
	// the database.
	CountByType(ctx context.Context, customerID uint, cardType models.CardType) (int64, error)

	// ExistsByTypeAndColor reports whether the customer holds a card of the
	// given type and color. Always read from the database.
	ExistsByTypeAndColor(ctx context.Context, customerID uint, cardType models.CardType, color models.CardColor) (bool, error)

	// ExistsByNumber reports whether any card already uses the number.
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
