package service

import (
	"errors"

	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"
)

// translate maps an error coming out of an atomic unit to the AppError the
// caller sees. AppErrors raised inside the unit pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ports.ErrConcurrencyConflict) {
		return apperror.ErrConcurrencyConflict(err)
	}
	return apperror.InternalError(err)
}
