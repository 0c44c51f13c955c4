package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homebank/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by typed getters when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Customer caching
func (s *CacheService) CacheCustomer(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return errors.New("cannot cache nil customer")
	}

	keys := []string{
		s.GenerateKey("customer", "id", customer.ID),
		s.GenerateKey("customer", "email", customer.Email),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, customer); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetCustomer(ctx context.Context, key string) (*models.Customer, error) {
	var customer models.Customer
	found, err := s.Get(ctx, key, &customer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return &customer, nil
}

// Card list caching, keyed by owner
func (s *CacheService) CacheCards(ctx context.Context, customerID uint, cards []*models.Card) error {
	return s.Set(ctx, s.GenerateKey("card", "customer", customerID), cards)
}

func (s *CacheService) GetCards(ctx context.Context, customerID uint) ([]*models.Card, error) {
	var cards []*models.Card
	found, err := s.Get(ctx, s.GenerateKey("card", "customer", customerID), &cards)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return cards, nil
}

func (s *CacheService) InvalidateCards(ctx context.Context, customerID uint) error {
	return s.Delete(ctx, s.GenerateKey("card", "customer", customerID))
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
