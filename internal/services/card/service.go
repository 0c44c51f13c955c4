package card

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "homebank/internal/errors"
	"homebank/internal/models"
	"homebank/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type service struct {
	cards    repositories.CardRepository
	identity IdentityResolver
	numbers  NumberGenerator
	events   EventPublisher
	config   Config
	metrics  MetricsCollector
}

// NewService creates a new card service
func NewService(
	cards repositories.CardRepository,
	identity IdentityResolver,
	numbers NumberGenerator,
	events EventPublisher,
	config Config,
	metrics MetricsCollector,
) Service {
	if cards == nil {
		panic("card repository is required")
	}
	if identity == nil {
		panic("identity resolver is required")
	}
	if numbers == nil {
		panic("number generator is required")
	}

	// Events and metrics are optional
	if events == nil {
		events = NoopPublisher{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		cards:    cards,
		identity: identity,
		numbers:  numbers,
		events:   events,
		config:   config.withDefaults(),
		metrics:  metrics,
	}
}

func (s *service) GetCards(ctx context.Context, principal string) ([]models.CardDTO, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("get_cards", time.Since(start)) }()

	customer, err := s.resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListByCustomer(ctx, customer.ID)
	if err != nil {
		s.metrics.RecordError("get_cards", "repository")
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, apperrors.ErrNoCards
	}

	dtos := make([]models.CardDTO, 0, len(cards))
	for _, c := range cards {
		dtos = append(dtos, c.ToDTO())
	}
	return dtos, nil
}

func (s *service) CreateCard(ctx context.Context, principal string, input models.CreateCardInput) (*models.Card, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("create_card", time.Since(start)) }()

	customer, err := s.resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	cardType, cardColor, err := s.parseInput(input)
	if err != nil {
		s.reject(customer, err)
		return nil, err
	}

	if err := s.checkHoldings(ctx, customer.ID, cardType, cardColor); err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			s.reject(customer, err)
		} else {
			s.metrics.RecordError("create_card", "repository")
		}
		return nil, err
	}

	cvv, err := s.numbers.CVV()
	if err != nil {
		return nil, fmt.Errorf("failed to generate security code: %w", err)
	}

	fromDate := s.today()
	card := &models.Card{
		Reference:  uuid.New(),
		CustomerID: customer.ID,
		CardHolder: customer.FullName(),
		Type:       cardType,
		Color:      cardColor,
		CVV:        cvv,
		FromDate:   fromDate,
		ThruDate:   addYears(fromDate, s.config.ValidityYears),
	}

	if err := s.store(ctx, card); err != nil {
		s.metrics.RecordError("create_card", "store")
		return nil, err
	}

	if err := s.events.CardIssued(ctx, models.NewCardIssued(card)); err != nil {
		log.WithError(err).WithField("card", card.Reference).Warn("failed to publish card issued event")
	}

	s.metrics.RecordOperationResult("create_card", "created")
	log.WithFields(log.Fields{
		"customer_id": customer.ID,
		"card":        card.Reference,
		"type":        card.Type,
		"color":       card.Color,
	}).Info("card issued")

	return card, nil
}

func (s *service) resolve(ctx context.Context, principal string) (*models.Customer, error) {
	if strings.TrimSpace(principal) == "" {
		return nil, apperrors.ErrCustomerNotFound
	}

	customer, err := s.identity.ResolveCustomer(ctx, principal)
	if err != nil {
		if errors.Is(err, apperrors.ErrCustomerNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	if customer == nil {
		return nil, apperrors.ErrCustomerNotFound
	}
	return customer, nil
}

// parseInput checks the request in order: blank type, blank color,
// unknown type, unknown color.
func (s *service) parseInput(input models.CreateCardInput) (models.CardType, models.CardColor, error) {
	if strings.TrimSpace(input.CardType) == "" {
		return "", "", apperrors.ErrCardTypeRequired
	}
	if strings.TrimSpace(input.CardColor) == "" {
		return "", "", apperrors.ErrCardColorRequired
	}

	cardType, ok := models.ParseCardType(input.CardType)
	if !ok {
		return "", "", apperrors.ErrInvalidCardType
	}
	cardColor, ok := s.config.Colors.Parse(input.CardColor)
	if !ok {
		return "", "", apperrors.ErrInvalidCardColor
	}
	return cardType, cardColor, nil
}

// checkHoldings enforces the per-type limit, then the (type, color) uniqueness.
// Both read the database directly; the cached card list can lag behind.
func (s *service) checkHoldings(ctx context.Context, customerID uint, cardType models.CardType, cardColor models.CardColor) error {
	held, err := s.cards.CountByType(ctx, customerID, cardType)
	if err != nil {
		return fmt.Errorf("failed to count cards: %w", err)
	}
	if held >= int64(s.config.MaxPerType) {
		return apperrors.ErrCardTypeLimit
	}

	duplicate, err := s.cards.ExistsByTypeAndColor(ctx, customerID, cardType, cardColor)
	if err != nil {
		return fmt.Errorf("failed to check card holdings: %w", err)
	}
	if duplicate {
		return apperrors.ErrDuplicateCard
	}
	return nil
}

// store assigns a free number and inserts the card. A number that the
// repository reports as used, or that loses an insert race on the unique
// index, is replaced by a fresh one.
func (s *service) store(ctx context.Context, card *models.Card) error {
	for attempt := 1; attempt <= s.config.MaxNumberAttempts; attempt++ {
		number, err := s.numbers.CardNumber()
		if err != nil {
			return fmt.Errorf("failed to generate card number: %w", err)
		}

		taken, err := s.cards.ExistsByNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("failed to check card number: %w", err)
		}
		if taken {
			s.metrics.RecordNumberCollision()
			continue
		}

		card.Number = number
		err = s.cards.Create(ctx, card)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrCardNumberTaken) {
			return fmt.Errorf("failed to save card: %w", err)
		}
		s.metrics.RecordNumberCollision()
		log.WithField("attempt", attempt).Debug("card number taken on insert, regenerating")
	}

	card.Number = ""
	return apperrors.ErrNumberSpaceExhausted
}

func (s *service) reject(customer *models.Customer, err error) {
	code := "unknown"
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		code = de.Code
	}
	s.metrics.RecordOperationResult("create_card", "rejected")
	log.WithFields(log.Fields{
		"customer_id": customer.ID,
		"reason":      code,
	}).Info("card request rejected")
}

// today is the current date at midnight in the configured location.
func (s *service) today() time.Time {
	now := s.config.Now().In(s.config.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.config.Location)
}

// addYears adds whole years, clamping Feb 29 to Feb 28 in non-leap years
// instead of rolling over into March.
func addYears(t time.Time, years int) time.Time {
	out := t.AddDate(years, 0, 0)
	if out.Day() != t.Day() {
		out = out.AddDate(0, 0, -out.Day())
	}
	return out
}
