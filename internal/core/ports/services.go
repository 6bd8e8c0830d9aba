package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService exposes single-account operations.
type AccountService interface {
	Create(ctx context.Context, ownerID uuid.UUID, currency string) (*domain.Account, error)
	Deposit(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	Withdraw(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	SetStatus(ctx context.Context, ownerID, accountID uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	Close(ctx context.Context, ownerID, accountID uuid.UUID) (*domain.Account, error)
	Get(ctx context.Context, ownerID, accountID uuid.UUID) (*domain.Account, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	Balance(ctx context.Context, ownerID, accountID uuid.UUID) (*BalanceView, error)
	// History returns the newest ledger entries of an account, at most limit.
	History(ctx context.Context, ownerID, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error)
	Transaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.LedgerTransaction, error)
}

// BalanceView is the read model returned by AccountService.Balance.
type BalanceView struct {
	AccountID uuid.UUID       `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// TransferRequest holds the input for a transfer between two accounts.
type TransferRequest struct {
	OwnerID       uuid.UUID
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
}

// TransferService moves money between two accounts atomically.
type TransferService interface {
	Transfer(ctx context.Context, req TransferRequest) (*domain.LedgerTransaction, error)
}

// InterestService applies the daily interest batch.
type InterestService interface {
	ApplyDailyInterest(ctx context.Context, annualRate decimal.Decimal) (int, error)
}

// DispatchResult summarises one dispatcher tick.
type DispatchResult struct {
	Processed         int
	Published         int
	Failed            int
	Skipped           int
	Released          int
	StateUpdateFailed int
}

// OutboxDispatcher publishes pending events.
type OutboxDispatcher interface {
	DispatchPending(ctx context.Context) (DispatchResult, error)
}

// RecoverySweeper reclaims stuck events and archives old ones.
type RecoverySweeper interface {
	RollbackStale(ctx context.Context, olderThan time.Duration) (int64, error)
	Archive(ctx context.Context, olderThan time.Duration) (int64, error)
}
