package repositories

import (
	"context"
	"errors"
	"strings"

	"homebank/internal/models"
	"homebank/internal/repositories/cache"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type customerRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewCustomerRepository creates a new instance of CustomerRepository. cache may be nil.
func NewCustomerRepository(db *gorm.DB, cache *cache.CacheService) CustomerRepository {
	return &customerRepository{
		db:    db,
		cache: cache,
	}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	customer.Email = normalizeEmail(customer.Email)
	if err := r.db.Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	return r.lookup(r.cacheKey("id", id), func(c *models.Customer) *gorm.DB {
		return r.db.First(c, id)
	})
}

func (r *customerRepository) GetByEmail(email string) (*models.Customer, error) {
	email = normalizeEmail(email)
	return r.lookup(r.cacheKey("email", email), func(c *models.Customer) *gorm.DB {
		return r.db.Where("email = ?", email).First(c)
	})
}

func (r *customerRepository) cacheKey(keyType string, value interface{}) string {
	if r.cache == nil {
		return ""
	}
	return r.cache.GenerateKey("customer", keyType, value)
}

// lookup is a cache-aside read: cache first, then the query, then fill the cache.
func (r *customerRepository) lookup(key string, query func(*models.Customer) *gorm.DB) (*models.Customer, error) {
	ctx := context.Background()
	if r.cache != nil {
		if customer, err := r.cache.GetCustomer(ctx, key); err == nil {
			log.WithField("key", key).Debug("customer cache hit")
			return customer, nil
		}
	}

	var customer models.Customer
	if err := query(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		log.WithError(err).WithField("key", key).Error("customer lookup failed")
		return nil, ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.CacheCustomer(ctx, &customer); err != nil {
			log.WithError(err).Warn("failed to cache customer")
		}
	}
	return &customer, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
