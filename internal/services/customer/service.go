package customer

import (
	"context"
	"errors"
	"fmt"

	apperrors "homebank/internal/errors"
	"homebank/internal/models"
	"homebank/internal/repositories"
)

// Service resolves authenticated principals to customers.
type Service interface {
	ResolveCustomer(ctx context.Context, principal string) (*models.Customer, error)
}

type service struct {
	repo repositories.CustomerRepository
}

func NewService(repo repositories.CustomerRepository) Service {
	if repo == nil {
		panic("customer repository is required")
	}
	return &service{
		repo: repo,
	}
}

// ResolveCustomer looks the customer up by the e-mail carried in the token.
func (s *service) ResolveCustomer(ctx context.Context, principal string) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customer, err := s.repo.GetByEmail(principal)
	return translate(customer, err)
}

func translate(customer *models.Customer, err error) (*models.Customer, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}
