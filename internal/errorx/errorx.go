package errorx

import (
	"errors"
	"fmt"
	"net/http"

	"coinsignals-api/internal/types"
	"coinsignals-api/pkg/market"
)

const (
	MsgInvalidInput = "Invalid input parameters"
	MsgFetchFailed  = "Failed to fetch market data"
	MsgInternal     = "Internal application error"
)

// InvalidInputError marks a request the caller must fix.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	return e.Err.Error()
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// InvalidInput wraps err so that it maps to 400.
func InvalidInput(err error) error {
	if err == nil {
		return nil
	}
	return &InvalidInputError{Err: err}
}

// InvalidInputf is InvalidInput with a formatted message.
func InvalidInputf(format string, args ...any) error {
	return &InvalidInputError{Err: fmt.Errorf(format, args...)}
}

// Response maps err to an HTTP status and the JSON error body.
func Response(err error) (int, types.ErrorResponse) {
	var invalid *InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, types.ErrorResponse{Error: MsgInvalidInput, Message: err.Error()}
	case errors.Is(err, market.ErrNoDataAvailable):
		return http.StatusServiceUnavailable, types.ErrorResponse{Error: MsgFetchFailed, Message: err.Error()}
	default:
		return http.StatusInternalServerError, types.ErrorResponse{Error: MsgInternal, Message: err.Error()}
	}
}
