// Package errors holds the domain errors shared by services and handlers.
package errors

// DomainError is a sentinel error with a stable machine readable code and
// a message that is safe to show to the customer.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
