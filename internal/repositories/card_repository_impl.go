package repositories

import (
	"context"
	"errors"
	"fmt"

	"homebank/internal/models"
	"homebank/internal/repositories/cache"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	uniqueViolation = "23505"
	cardNumberIndex = "idx_cards_number"
)

type cardRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewCardRepository returns a gorm backed CardRepository. cache may be nil.
func NewCardRepository(db *gorm.DB, cache *cache.CacheService) CardRepository {
	return &cardRepository{
		db:    db,
		cache: cache,
	}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		if isUniqueViolation(err) && r.numberConflict(ctx, err, card.Number) {
			return ErrCardNumberTaken
		}
		return fmt.Errorf("failed to create card: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.InvalidateCards(ctx, card.CustomerID); err != nil {
			log.WithError(err).WithField("customer_id", card.CustomerID).Warn("failed to invalidate card cache")
		}
	}
	return nil
}

func (r *cardRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Card, error) {
	if r.cache != nil {
		if cards, err := r.cache.GetCards(ctx, customerID); err == nil {
			return cards, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.WithError(err).Warn("card cache read failed, falling back to database")
		}
	}

	var cards []*models.Card
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer cards: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheCards(ctx, customerID, cards); err != nil {
			log.WithError(err).Warn("failed to cache customer cards")
		}
	}
	return cards, nil
}

func (r *cardRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("number = ?", number).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check card number: %w", err)
	}
	return count > 0, nil
}

func (r *cardRepository) CountByType(ctx context.Context, customerID uint, cardType models.CardType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("customer_id = ? AND type = ?", customerID, cardType).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

func (r *cardRepository) ExistsByTypeAndColor(ctx context.Context, customerID uint, cardType models.CardType, color models.CardColor) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("customer_id = ? AND type = ? AND color = ?", customerID, cardType, color).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check card holdings: %w", err)
	}
	return count > 0, nil
}

// numberConflict tells whether a unique violation was raised by the number
// index. Translated errors carry no constraint name, so the number is
// looked up instead.
func (r *cardRepository) numberConflict(ctx context.Context, err error, number string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName == cardNumberIndex
	}

	taken, lookupErr := r.ExistsByNumber(ctx, number)
	if lookupErr != nil {
		log.WithError(lookupErr).Warn("could not attribute unique violation")
		return false
	}
	return taken
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
