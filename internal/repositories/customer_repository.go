package repositories

import (
	"errors"

	"homebank/internal/models"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// CustomerRepository defines the customer lookups used by authentication
// and identity resolution.
type CustomerRepository interface {
	// Create creates a new customer in the database
	Create(customer *models.Customer) error

	// GetByID retrieves a customer by their ID
	GetByID(id uint) (*models.Customer, error)

	// GetByEmail retrieves a customer by their email address
	GetByEmail(email string) (*models.Customer, error)
}
