package handlers

import (
	"errors"

	apperrors "homebank/internal/errors"
	"homebank/internal/services/auth"
	"homebank/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a customer and returns an access token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(input); err != nil {
		return response.BadRequest(c, "Email and password are required")
	}

	customer, token, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		log.WithError(err).Error("login failed")
		return response.ServerError(c, "Authentication failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"customer": fiber.Map{
			"id":    customer.ID,
			"email": customer.Email,
			"name":  customer.FullName(),
		},
	})
}
