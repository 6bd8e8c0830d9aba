package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTransactionType represents the kind of money movement.
type LedgerTransactionType string

const (
	LedgerTypeDeposit    LedgerTransactionType = "DEPOSIT"
	LedgerTypeWithdrawal LedgerTransactionType = "WITHDRAWAL"
	LedgerTypeTransfer   LedgerTransactionType = "TRANSFER"
	LedgerTypeInterest   LedgerTransactionType = "INTEREST"
)

// LedgerTransactionStatus is always COMPLETED: entries are written only
// after the balance mutation they describe has succeeded.
type LedgerTransactionStatus string

const (
	LedgerStatusCompleted LedgerTransactionStatus = "COMPLETED"
)

// LedgerTransaction is an immutable ledger entry. Accounts are referenced by id only.
type LedgerTransaction struct {
	ID            uuid.UUID               `json:"id"`
	FromAccountID *uuid.UUID              `json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID              `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	Type          LedgerTransactionType   `json:"type"`
	Status        LedgerTransactionStatus `json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
}

func newLedgerTransaction(from, to *uuid.UUID, amount decimal.Decimal, typ LedgerTransactionType, now time.Time) *LedgerTransaction {
	return &LedgerTransaction{
		ID:            uuid.New(),
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Type:          typ,
		Status:        LedgerStatusCompleted,
		CreatedAt:     now,
	}
}

// NewDeposit records money entering an account.
func NewDeposit(accountID uuid.UUID, amount decimal.Decimal, now time.Time) *LedgerTransaction {
	return newLedgerTransaction(nil, &accountID, amount, LedgerTypeDeposit, now)
}

// NewWithdrawal records money leaving an account.
func NewWithdrawal(accountID uuid.UUID, amount decimal.Decimal, now time.Time) *LedgerTransaction {
	return newLedgerTransaction(&accountID, nil, amount, LedgerTypeWithdrawal, now)
}

// NewTransfer records a movement between two accounts.
func NewTransfer(from, to uuid.UUID, amount decimal.Decimal, now time.Time) *LedgerTransaction {
	return newLedgerTransaction(&from, &to, amount, LedgerTypeTransfer, now)
}

// NewInterest records interest credited to an account.
func NewInterest(accountID uuid.UUID, amount decimal.Decimal, now time.Time) *LedgerTransaction {
	return newLedgerTransaction(nil, &accountID, amount, LedgerTypeInterest, now)
}
