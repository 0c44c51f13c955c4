package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CardType classifies a card as debit or credit.
type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

// CardTypes lists every supported card type.
var CardTypes = []CardType{CardTypeDebit, CardTypeCredit}

// ParseCardType matches text against the known card types, ignoring case
// and surrounding whitespace.
func ParseCardType(text string) (CardType, bool) {
	candidate := CardType(strings.ToUpper(strings.TrimSpace(text)))
	for _, t := range CardTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// CardColor is the product tier printed on a card. The set of colors is
// open; which ones are accepted is decided by a ColorCatalog.
type CardColor string

const (
	CardColorGold     CardColor = "GOLD"
	CardColorSilver   CardColor = "SILVER"
	CardColorTitanium CardColor = "TITANIUM"
	CardColorRed      CardColor = "RED"
	CardColorBlue     CardColor = "BLUE"
)

// ColorCatalog is the set of colors a customer may request.
type ColorCatalog map[CardColor]struct{}

// DefaultColorCatalog holds the built-in colors.
func DefaultColorCatalog() ColorCatalog {
	return NewColorCatalog(
		string(CardColorGold),
		string(CardColorSilver),
		string(CardColorTitanium),
		string(CardColorRed),
		string(CardColorBlue),
	)
}

// NewColorCatalog builds a catalog from color names; blank names are skipped.
func NewColorCatalog(names ...string) ColorCatalog {
	catalog := make(ColorCatalog, len(names))
	for _, n := range names {
		if c := CardColor(strings.ToUpper(strings.TrimSpace(n))); c != "" {
			catalog[c] = struct{}{}
		}
	}
	return catalog
}

// Parse matches text against the catalog, ignoring case and surrounding whitespace.
func (cc ColorCatalog) Parse(text string) (CardColor, bool) {
	candidate := CardColor(strings.ToUpper(strings.TrimSpace(text)))
	if _, ok := cc[candidate]; !ok || candidate == "" {
		return "", false
	}
	return candidate, true
}

// Card is an issued payment card. Ownership is one-directional: the card
// stores its customer's ID and customers look their cards up by owner.
type Card struct {
	ID         uint      `gorm:"primarykey"`
	Reference  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID uint      `gorm:"not null;index"`
	CardHolder string    `gorm:"not null"`
	Type       CardType  `gorm:"type:varchar(16);not null"`
	Color      CardColor `gorm:"type:varchar(32);not null"`
	Number     string    `gorm:"uniqueIndex:idx_cards_number;not null"`
	CVV        int       `gorm:"not null"`
	FromDate   time.Time `gorm:"type:date;not null"`
	ThruDate   time.Time `gorm:"type:date;not null"`
	CreatedAt  time.Time
}

// CardDTO is the outward representation of a card.
type CardDTO struct {
	ID         string `json:"id"`
	CardHolder string `json:"cardHolder"`
	Type       string `json:"type"`
	Color      string `json:"color"`
	Number     string `json:"number"`
	CVV        int    `json:"cvv"`
	FromDate   string `json:"fromDate"`
	ThruDate   string `json:"thruDate"`
}

const dateLayout = "2006-01-02"

// ToDTO converts the card to its outward representation.
func (c *Card) ToDTO() CardDTO {
	return CardDTO{
		ID:         c.Reference.String(),
		CardHolder: c.CardHolder,
		Type:       string(c.Type),
		Color:      string(c.Color),
		Number:     c.Number,
		CVV:        c.CVV,
		FromDate:   c.FromDate.Format(dateLayout),
		ThruDate:   c.ThruDate.Format(dateLayout),
	}
}

// LastFour returns the last four digits of the card number.
func (c *Card) LastFour() string {
	digits := strings.ReplaceAll(c.Number, "-", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// CreateCardInput is the request body for issuing a card.
type CreateCardInput struct {
	CardType  string `json:"cardType"`
	CardColor string `json:"cardColor"`
}

// CardIssued is published after a card has been stored. It never carries
// the full number or the security code.
type CardIssued struct {
	Reference  string    `json:"reference"`
	CustomerID uint      `json:"customer_id"`
	Type       CardType  `json:"type"`
	Color      CardColor `json:"color"`
	LastFour   string    `json:"last_four"`
	FromDate   string    `json:"from_date"`
	ThruDate   string    `json:"thru_date"`
	IssuedAt   time.Time `json:"issued_at"`
}

// NewCardIssued builds the event for a stored card.
func NewCardIssued(c *Card) CardIssued {
	return CardIssued{
		Reference:  c.Reference.String(),
		CustomerID: c.CustomerID,
		Type:       c.Type,
		Color:      c.Color,
		LastFour:   c.LastFour(),
		FromDate:   c.FromDate.Format(dateLayout),
		ThruDate:   c.ThruDate.Format(dateLayout),
		IssuedAt:   c.CreatedAt,
	}
}
