package auth

import (
	"strings"
	"time"

	apperrors "homebank/internal/errors"
	"homebank/internal/models"
	"homebank/internal/repositories"
	"homebank/internal/utils"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(email, password string) (*models.Customer, string, error)
	ParseToken(token string) (*models.CustomerClaims, error)
}

type service struct {
	customers repositories.CustomerRepository
	secret    string
	accessTTL time.Duration
}

func NewService(customers repositories.CustomerRepository, secret string, accessTTL time.Duration) Service {
	if customers == nil {
		panic("customer repository is required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &service{
		customers: customers,
		secret:    secret,
		accessTTL: accessTTL,
	}
}

func (s *service) Login(email, password string) (*models.Customer, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	customer, err := s.customers.GetByEmail(email)
	if err != nil {
		log.WithField("email", email).Info("login failed: customer not found")
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		log.WithField("customer_id", customer.ID).Info("login failed: incorrect password")
		return nil, "", apperrors.ErrInvalidCredentials
	}

	role := customer.Role
	if role == "" {
		role = models.RoleCustomer
	}

	token, err := utils.GenerateAccessToken(&models.CustomerClaims{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Role:       role,
	}, s.secret, s.accessTTL)
	if err != nil {
		log.WithError(err).Error("error generating access token")
		return nil, "", err
	}

	return customer, token, nil
}

func (s *service) ParseToken(token string) (*models.CustomerClaims, error) {
	return utils.ParseToken(token, s.secret)
}
