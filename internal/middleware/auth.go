// Package middleware provides HTTP middleware components for the application.
// It includes authentication middleware for the fiber web framework.
package middleware

import (
	"strings"

	"homebank/internal/services/auth"
	"homebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AuthMiddleware handles JWT token validation and customer authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the customer claims to the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and issuer
// - Token expiration
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		log.Debug("missing Authorization header")
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Debug("invalid Authorization format")
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := m.authService.ParseToken(tokenString)
	if err != nil {
		log.WithError(err).Debug("token validation error")
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if claims.Email == "" {
		return response.Error(c, fiber.StatusUnauthorized, "invalid claims")
	}

	// Store the claims in the context
	c.Locals("claims", claims)
	c.Locals("customerID", claims.CustomerID)

	return c.Next()
}
