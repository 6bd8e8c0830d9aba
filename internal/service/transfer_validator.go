package service

import (
	"banking-core/internal/core/ports"
	"banking-core/pkg/apperror"

	"github.com/google/uuid"
)

// TransferValidator checks a transfer request before any lock is taken.
// All violations are reported together.
type TransferValidator struct{}

func NewTransferValidator() *TransferValidator {
	return &TransferValidator{}
}

// Validate returns an apperror.KindValidation error listing every violation.
func (v *TransferValidator) Validate(req ports.TransferRequest) error {
	var details []string

	if req.FromAccountID == uuid.Nil {
		details = append(details, "Source Bank Account ID is required")
	}
	if req.ToAccountID == uuid.Nil {
		details = append(details, "Destination Bank Account ID is required")
	}
	if req.FromAccountID != uuid.Nil && req.FromAccountID == req.ToAccountID {
		details = append(details, "Source Bank Account ID and Destination Bank Account ID must be different")
	}
	details = append(details, amountViolations(req.Amount)...)

	if len(details) > 0 {
		return apperror.ErrValidation(details...)
	}
	return nil
}
