package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/honkyrot/BikeRentalSystem/internal/ledger"
)

// toConnectError maps a ledger error onto a Connect status code.
func toConnectError(procedure string, err error) error {
	var ambiguous ledger.AmbiguousReturnError
	switch {
	case ledger.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case ledger.IsValidation(err), errors.Is(err, ledger.ErrDuplicateBike):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrBikeUnavailable),
		errors.Is(err, ledger.ErrBikeRented),
		errors.Is(err, ledger.ErrTicketClosed),
		errors.As(err, &ambiguous):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		slog.Error(procedure+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
