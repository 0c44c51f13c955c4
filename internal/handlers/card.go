package handlers

import (
	"errors"

	apperrors "homebank/internal/errors"
	"homebank/internal/models"
	"homebank/internal/services/card"
	"homebank/internal/utils"
	"homebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const cardCreatedMessage = "Card created for authenticated client"

// cardErrorStatus maps domain errors to the HTTP status the client sees.
var cardErrorStatus = []struct {
	err    error
	status int
}{
	{apperrors.ErrCardTypeRequired, fiber.StatusForbidden},
	{apperrors.ErrCardColorRequired, fiber.StatusForbidden},
	{apperrors.ErrInvalidCardType, fiber.StatusForbidden},
	{apperrors.ErrInvalidCardColor, fiber.StatusForbidden},
	{apperrors.ErrCardTypeLimit, fiber.StatusForbidden},
	{apperrors.ErrDuplicateCard, fiber.StatusForbidden},
	{apperrors.ErrNoCards, fiber.StatusNotFound},
	{apperrors.ErrCustomerNotFound, fiber.StatusUnauthorized},
}

type CardHandler struct {
	cardService card.Service
}

func NewCardHandler(cardService card.Service) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// GetCards lists the cards of the authenticated customer.
func (h *CardHandler) GetCards(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cards, err := h.cardService.GetCards(c.UserContext(), claims.Email)
	if err != nil {
		return cardError(c, err)
	}

	return response.Success(c, "Cards retrieved successfully", cards)
}

// CreateCard issues a new card to the authenticated customer.
func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	claims, err := utils.GetCustomerClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if _, err := h.cardService.CreateCard(c.UserContext(), claims.Email, input); err != nil {
		return cardError(c, err)
	}

	return response.Created(c, cardCreatedMessage)
}

func cardError(c *fiber.Ctx, err error) error {
	for _, m := range cardErrorStatus {
		if errors.Is(err, m.err) {
			return response.Error(c, m.status, m.err.Error())
		}
	}

	log.WithError(err).WithField("path", c.Path()).Error("card request failed")
	return response.ServerError(c, "Internal server error")
}
