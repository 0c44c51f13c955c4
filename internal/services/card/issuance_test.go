package card_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "homebank/internal/errors"
	"homebank/internal/models"
	"homebank/internal/repositories"
	"homebank/internal/repositories/cache"
	"homebank/internal/services/card"
	"homebank/internal/services/customer"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const melbaEmail = "melba@mindhub.com"

type issuanceFixture struct {
	db      *gorm.DB
	cache   *cache.CacheService
	cards   repositories.CardRepository
	service card.Service
	melba   *models.Customer
}

func newIssuanceFixture(t *testing.T) *issuanceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "issuance.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}, &models.Card{}))

	mr := miniredis.RunT(t)
	cacheService := cache.NewCacheService(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(func() { cacheService.Close() })

	customers := repositories.NewCustomerRepository(db, cacheService)
	melba := &models.Customer{FirstName: "Melba", LastName: "Morel", Email: melbaEmail, Password: "hash"}
	require.NoError(t, customers.Create(melba))

	cards := repositories.NewCardRepository(db, cacheService)
	numbers, err := card.NewRandomGenerator(card.DefaultBIN)
	require.NoError(t, err)

	return &issuanceFixture{
		db:      db,
		cache:   cacheService,
		cards:   cards,
		service: card.NewService(cards, customer.NewService(customers), numbers, nil, card.Config{}, nil),
		melba:   melba,
	}
}

func (f *issuanceFixture) issue(t *testing.T, cardType models.CardType, color models.CardColor) error {
	t.Helper()
	_, err := f.service.CreateCard(context.Background(), melbaEmail, models.CreateCardInput{
		CardType:  string(cardType),
		CardColor: string(color),
	})
	return err
}

// rewind issues the cards in between, then puts the list read before them
// back into the cache, as a slow reader finishing after the writes would.
func (f *issuanceFixture) rewind(t *testing.T, issueBetween func()) {
	t.Helper()
	ctx := context.Background()
	snapshot, err := f.cards.ListByCustomer(ctx, f.melba.ID)
	require.NoError(t, err)

	issueBetween()

	require.NoError(t, f.cache.CacheCards(ctx, f.melba.ID, snapshot))
	listed, err := f.cards.ListByCustomer(ctx, f.melba.ID)
	require.NoError(t, err)
	require.Len(t, listed, len(snapshot), "cache should be serving the old list")
}

func TestIssuance_TypeLimitWithStaleCache(t *testing.T) {
	f := newIssuanceFixture(t)

	require.NoError(t, f.issue(t, models.CardTypeDebit, models.CardColorGold))
	require.NoError(t, f.issue(t, models.CardTypeDebit, models.CardColorSilver))
	f.rewind(t, func() {
		require.NoError(t, f.issue(t, models.CardTypeDebit, models.CardColorTitanium))
	})

	err := f.issue(t, models.CardTypeDebit, models.CardColorRed)
	assert.ErrorIs(t, err, apperrors.ErrCardTypeLimit)

	var debits int64
	require.NoError(t, f.db.Model(&models.Card{}).
		Where("customer_id = ? AND type = ?", f.melba.ID, models.CardTypeDebit).
		Count(&debits).Error)
	assert.Equal(t, int64(3), debits)
}

func TestIssuance_DuplicateWithStaleCache(t *testing.T) {
	f := newIssuanceFixture(t)

	f.rewind(t, func() {
		require.NoError(t, f.issue(t, models.CardTypeCredit, models.CardColorGold))
	})

	err := f.issue(t, models.CardTypeCredit, models.CardColorGold)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCard)

	var credits int64
	require.NoError(t, f.db.Model(&models.Card{}).
		Where("customer_id = ? AND type = ?", f.melba.ID, models.CardTypeCredit).
		Count(&credits).Error)
	assert.Equal(t, int64(1), credits)
}

func TestIssuance_ListsFreshCardsAfterCreate(t *testing.T) {
	f := newIssuanceFixture(t)
	ctx := context.Background()

	_, err := f.service.GetCards(ctx, melbaEmail)
	require.ErrorIs(t, err, apperrors.ErrNoCards)

	require.NoError(t, f.issue(t, models.CardTypeDebit, models.CardColorBlue))

	dtos, err := f.service.GetCards(ctx, melbaEmail)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Melba Morel", dtos[0].CardHolder)
	assert.Equal(t, "BLUE", dtos[0].Color)
}
