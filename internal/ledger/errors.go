package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for domain failures. All of them are recoverable; the
// caller is expected to report them to the clerk.
var (
	ErrNotFound = errors.New("ledger: not found")

	ErrBikeNotFound    = fmt.Errorf("%w: bike", ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("%w: ticket", ErrNotFound)
	ErrBikeUnavailable = errors.New("ledger: bike not available")
	ErrBikeRented      = errors.New("ledger: bike is rented out")
	ErrDuplicateBike   = errors.New("ledger: bike id already in use")
	ErrTicketClosed    = errors.New("ledger: ticket already closed")
)

// ValidationError represents a malformed domain value supplied by the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ledger: validation failed for %s: %s", e.Field, e.Message)
}

// AmbiguousReturnError is returned when a customer has more than one active
// ticket and the return must be made by ticket ID.
type AmbiguousReturnError struct {
	TicketIDs []int
}

func (e AmbiguousReturnError) Error() string {
	ids := make([]string, len(e.TicketIDs))
	for i, id := range e.TicketIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("ledger: multiple active tickets for customer: %s", strings.Join(ids, ", "))
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true if the error is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
