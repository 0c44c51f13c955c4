package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// CustomerClaims are carried in access tokens. Email is the principal the
// card service resolves customers by.
type CustomerClaims struct {
	jwt.RegisteredClaims
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}
