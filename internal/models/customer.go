package models

import (
	"strings"

	"gorm.io/gorm"
)

// Customer is a home-banking account holder. Cards reference the customer
// through Card.CustomerID; the customer does not hold a card collection.
type Customer struct {
	gorm.Model
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"default:'customer'"`
}

// FullName is the name printed on the customer's cards.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
