// Package apierror turns service errors into HTTP problem responses.
package apierror

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/logging"
)

// Status maps an error to the response code the API uses for it.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConcurrentModification), errors.Is(err, apperr.ErrAccountInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Wrap records err on the request's log line and returns the matching huma
// error with msg as its title.
func Wrap(ctx context.Context, err error, msg string) error {
	logging.GetLogData(ctx).SetError(err)
	return huma.NewError(Status(err), msg, err)
}

func ParseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalID returns nil for an empty string.
func ParseOptionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseDecimal parses raw, using fallback when it is empty.
func ParseDecimal(raw, fallback, field string) (decimal.Decimal, error) {
	if raw == "" {
		raw = fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return d, nil
}
