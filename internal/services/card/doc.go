/*
Package card issues payment cards to authenticated customers and lists the
cards they hold.

Usage:

	svc := card.NewService(cardRepo, customerService, generator, publisher, card.Config{}, nil)

	// List the cards of the customer behind the access token
	cards, err := svc.GetCards(ctx, claims.Email)

	// Request a new card
	issued, err := svc.CreateCard(ctx, claims.Email, models.CreateCardInput{
	    CardType:  "debit",
	    CardColor: "gold",
	})

Rules:

A request is checked in order and the first violation is returned:
- card type and color must not be blank
- type and color must name a known type and a color from the catalog (case-insensitive)
- the customer may hold at most MaxPerType cards of each type
- the customer may not hold two cards of the same type and color

Issued cards get a number no other card uses, a three digit security code,
today's date as issue date and an expiry ValidityYears later.

Error Handling:

Rule violations are *errors.DomainError values from homebank/internal/errors:
- ErrCardTypeRequired, ErrCardColorRequired: blank input
- ErrInvalidCardType, ErrInvalidCardColor: unknown input
- ErrCardTypeLimit: per-type limit reached
- ErrDuplicateCard: same type and color already held
- ErrNoCards: listing a customer without cards
- ErrCustomerNotFound: the principal does not resolve to a customer
- ErrNumberSpaceExhausted: no free card number within MaxNumberAttempts
*/
package card
