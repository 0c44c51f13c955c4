package errors

// Card request validation.
var (
	ErrCardTypeRequired = &DomainError{
		Code:    "CARD_TYPE_REQUIRED",
		Message: "Card Type input can't be empty, try again",
	}
	ErrCardColorRequired = &DomainError{
		Code:    "CARD_COLOR_REQUIRED",
		Message: "Color input can't be empty, try again",
	}
	ErrInvalidCardType = &DomainError{
		Code:    "INVALID_CARD_TYPE",
		Message: "Card Type input is not a valid card type, try again",
	}
	ErrInvalidCardColor = &DomainError{
		Code:    "INVALID_CARD_COLOR",
		Message: "Color input is not a valid card color, try again",
	}
)

// Card business rules.
var (
	ErrCardTypeLimit = &DomainError{
		Code:    "CARD_TYPE_LIMIT",
		Message: "Customer already has 3 cards of the same type",
	}
	ErrDuplicateCard = &DomainError{
		Code:    "DUPLICATE_CARD",
		Message: "Customer already has this card, consider requesting a different one",
	}
	ErrNoCards = &DomainError{
		Code:    "NO_CARDS",
		Message: "Customer has no cards",
	}
	ErrNumberSpaceExhausted = &DomainError{
		Code:    "CARD_NUMBER_UNAVAILABLE",
		Message: "could not allocate a unique card number",
	}
)

// Identity.
var (
	ErrCustomerNotFound = &DomainError{
		Code:    "CUSTOMER_NOT_FOUND",
		Message: "authenticated customer not found",
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid credentials",
	}
)
