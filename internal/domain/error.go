package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrPaymentProvider    = errors.New("payment provider request failed")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)

// PriceMismatchError is returned when a client-claimed price disagrees with the
// canonical price beyond the comparison tolerance. Both values are carried so
// the rejected attempt can be logged with diagnostics. Match with errors.As.
type PriceMismatchError struct {
	Expected float64 // canonical price, decimal currency units
	Claimed  float64 // what the client sent
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: expected %.2f, received %.2f", e.Expected, e.Claimed)
}

// IsPriceMismatch reports whether err is a PriceMismatchError.
func IsPriceMismatch(err error) bool {
	var pm *PriceMismatchError
	return errors.As(err, &pm)
}
