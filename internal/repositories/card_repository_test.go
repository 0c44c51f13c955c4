package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"homebank/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issueDate = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newCard(customerID uint, cardType models.CardType, color models.CardColor, number string) *models.Card {
	return &models.Card{
		Reference:  uuid.New(),
		CustomerID: customerID,
		CardHolder: "Melba Morel",
		Type:       cardType,
		Color:      color,
		Number:     number,
		CVV:        123,
		FromDate:   issueDate,
		ThruDate:   issueDate.AddDate(5, 0, 0),
	}
}

func TestCardRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(setupTestDB(t), nil)

	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))
	require.NoError(t, repo.Create(ctx, newCard(2, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0002")))
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeCredit, models.CardColorSilver, "4212-3400-0000-0003")))

	cards, err := repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "4212-3400-0000-0001", cards[0].Number)
	assert.Equal(t, "4212-3400-0000-0003", cards[1].Number)
	assert.WithinDuration(t, issueDate.AddDate(5, 0, 0), cards[0].ThruDate, 0)

	none, err := repo.ListByCustomer(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCardRepository_Create_NumberTaken(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewCardRepository(db, nil)

	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))

	err := repo.Create(ctx, newCard(2, models.CardTypeCredit, models.CardColorSilver, "4212-3400-0000-0001"))
	assert.ErrorIs(t, err, ErrCardNumberTaken)

	var count int64
	require.NoError(t, db.Model(&models.Card{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCardRepository_Create_OtherUniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(setupTestDB(t), nil)

	first := newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")
	require.NoError(t, repo.Create(ctx, first))

	clash := newCard(1, models.CardTypeCredit, models.CardColorGold, "4212-3400-0000-0002")
	clash.Reference = first.Reference
	err := repo.Create(ctx, clash)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCardNumberTaken)
}

func TestCardRepository_NumberConflictByConstraint(t *testing.T) {
	r := &cardRepository{}
	ctx := context.Background()

	assert.True(t, r.numberConflict(ctx, &pgconn.PgError{Code: uniqueViolation, ConstraintName: cardNumberIndex}, "x"))
	assert.False(t, r.numberConflict(ctx, fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "idx_cards_reference"}), "x"))
}

func TestCardRepository_ExistsByNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(setupTestDB(t), nil)
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))

	taken, err := repo.ExistsByNumber(ctx, "4212-3400-0000-0001")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByNumber(ctx, "4212-3400-0000-0009")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestCardRepository_Holdings(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(setupTestDB(t), nil)
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorRed, "4212-3400-0000-0002")))
	require.NoError(t, repo.Create(ctx, newCard(2, models.CardTypeDebit, models.CardColorBlue, "4212-3400-0000-0003")))

	tests := []struct {
		name       string
		customerID uint
		cardType   models.CardType
		color      models.CardColor
		wantCount  int64
		wantExists bool
	}{
		{"held pair", 1, models.CardTypeDebit, models.CardColorRed, 2, true},
		{"same type other color", 1, models.CardTypeDebit, models.CardColorBlue, 2, false},
		{"other type", 1, models.CardTypeCredit, models.CardColorGold, 0, false},
		{"other customer's card", 2, models.CardTypeDebit, models.CardColorGold, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := repo.CountByType(ctx, tt.customerID, tt.cardType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)

			exists, err := repo.ExistsByTypeAndColor(ctx, tt.customerID, tt.cardType, tt.color)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, exists)
		})
	}
}

func TestCardRepository_ListByCustomer_Cache(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	cacheService, mr := setupTestCache(t)
	repo := NewCardRepository(db, cacheService)

	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))

	// Miss: read from the database and fill the cache.
	cards, err := repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.True(t, mr.Exists("card:customer:1"))

	// Hit: a row written behind the repository's back is not seen.
	require.NoError(t, db.Create(newCard(1, models.CardTypeCredit, models.CardColorGold, "4212-3400-0000-0002")).Error)
	cards, err = repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "4212-3400-0000-0001", cards[0].Number)
	assert.Equal(t, "Melba Morel", cards[0].CardHolder)

	// Create invalidates the cached list.
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeCredit, models.CardColorSilver, "4212-3400-0000-0003")))
	assert.False(t, mr.Exists("card:customer:1"))

	cards, err = repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestCardRepository_StaleCacheDoesNotAffectHoldings(t *testing.T) {
	ctx := context.Background()
	cacheService, _ := setupTestCache(t)
	repo := NewCardRepository(setupTestDB(t), cacheService)

	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorGold, "4212-3400-0000-0001")))
	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorSilver, "4212-3400-0000-0002")))
	snapshot, err := repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, newCard(1, models.CardTypeDebit, models.CardColorTitanium, "4212-3400-0000-0003")))
	// A late cache fill from a concurrent read puts the old list back.
	require.NoError(t, cacheService.CacheCards(ctx, 1, snapshot))

	listed, err := repo.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	count, err := repo.CountByType(ctx, 1, models.CardTypeDebit)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	exists, err := repo.ExistsByTypeAndColor(ctx, 1, models.CardTypeDebit, models.CardColorTitanium)
	require.NoError(t, err)
	assert.True(t, exists)
}
