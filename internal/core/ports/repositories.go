package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrConcurrencyConflict is returned by adapters when a write lost a race:
// an optimistic version check failed or the database aborted the
// transaction as a serialization failure or deadlock victim.
var ErrConcurrencyConflict = errors.New("concurrent modification")

// AccountRepository defines persistence operations for bank accounts.
// Methods accepting pgx.Tx run inside the caller's atomic unit; a row lock
// taken by GetByIDForUpdate is held until that unit commits or rolls back.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	// Save persists a mutated account and bumps its version. It fails with
	// ErrConcurrencyConflict when the stored version no longer matches.
	Save(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	// ListInterestCandidates returns ACTIVE accounts with a positive balance
	// ordered by id, starting strictly after the given id.
	ListInterestCandidates(ctx context.Context, after *uuid.UUID, limit int) ([]domain.Account, error)
}

// LedgerRepository is the append-only log of completed movements.
type LedgerRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerTransaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error)
}

// OutboxRepository stages outbound events and drives their dispatch state.
// Every state transition is a conditional update scoped to one event id.
type OutboxRepository interface {
	Enqueue(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error
	ListPending(ctx context.Context, maxRetries, limit int) ([]domain.OutboxEvent, error)
	// Claim moves PENDING -> IN_PROGRESS. false means another dispatcher won.
	Claim(ctx context.Context, id int64) (bool, error)
	// MarkSent moves IN_PROGRESS -> SENT and stamps processedAt.
	MarkSent(ctx context.Context, id int64, processedAt time.Time) (bool, error)
	// MarkFailedAttempt bumps the retry count and moves IN_PROGRESS to
	// FAILED once maxRetries is reached, PENDING otherwise. A nil outcome
	// means the event was no longer IN_PROGRESS.
	MarkFailedAttempt(ctx context.Context, id int64, reason string, maxRetries int) (*domain.FailureOutcome, error)
	// Release hands an IN_PROGRESS event back to PENDING without counting
	// an attempt. false means the event was no longer IN_PROGRESS.
	Release(ctx context.Context, id int64) (bool, error)
	ResetStale(ctx context.Context, createdBefore time.Time) (int64, error)
	DeleteSentBefore(ctx context.Context, createdBefore time.Time) (int64, error)
	ListFailed(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
}

// InterestRunRepository persists the cursor of the daily interest batch.
type InterestRunRepository interface {
	GetOrCreate(ctx context.Context, runDate time.Time) (*domain.InterestRun, error)
	// Advance moves the cursor to accountID inside tx if it is still behind
	// it. false means another run already visited the account.
	Advance(ctx context.Context, tx pgx.Tx, runDate time.Time, accountID uuid.UUID, credited bool) (bool, error)
	Complete(ctx context.Context, runDate time.Time, completedAt time.Time) error
}

// DBTransactor runs fn inside one atomic unit: commit when fn returns nil,
// rollback otherwise.
type DBTransactor interface {
	WithinTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error
}
