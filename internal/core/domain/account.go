package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatus represents the lifecycle state of a bank account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusBlocked AccountStatus = "BLOCKED"
	AccountStatusClosed  AccountStatus = "CLOSED"
)

// ParseAccountStatus validates a status name.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch st := AccountStatus(s); st {
	case AccountStatusActive, AccountStatusBlocked, AccountStatusClosed:
		return st, true
	}
	return "", false
}

// Account is a single-currency bank account. Balance is mutated only while
// the account row is locked by the enclosing transaction.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        AccountStatus   `json:"status"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewAccount returns an ACTIVE, empty account for owner.
func NewAccount(ownerID uuid.UUID, currency string, now time.Time) *Account {
	return &Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: NewAccountNumber(now),
		Balance:       decimal.Zero,
		Currency:      currency,
		Status:        AccountStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive returns true if the account accepts balance mutations.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsClosed returns true once the account has been closed.
func (a *Account) IsClosed() bool {
	return a.Status == AccountStatusClosed
}

// BelongsTo reports whether ownerID owns the account.
func (a *Account) BelongsTo(ownerID uuid.UUID) bool {
	return a.OwnerID == ownerID
}

// CanDebit reports whether the balance covers amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

func (a *Account) Debit(amount decimal.Decimal) {
	a.Balance = a.Balance.Sub(amount)
}

// NewAccountNumber builds a human-readable number: ACC-<unix millis>-<4 hex chars>.
func NewAccountNumber(now time.Time) string {
	suffix := uuid.New()
	return fmt.Sprintf("ACC-%d-%s", now.UnixMilli(), hex.EncodeToString(suffix[:2]))
}
