package postgres

import (
	"context"
	"errors"
	"fmt"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, owner_id, account_number, balance::text, currency, status, version, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account within a transaction.
func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO accounts (id, owner_id, account_number, balance, currency, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.OwnerID, a.AccountNumber, money.String(a.Balance), a.Currency,
		string(a.Status), a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by its UUID (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByIDForUpdate fetches an account with an exclusive row lock.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// ListByOwner returns every account of an owner, oldest first.
func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by owner: %w", err)
	}
	return collectAccounts(rows)
}

// Save writes balance and status back, guarded by the version the caller read.
func (r *AccountRepo) Save(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `UPDATE accounts SET balance = $1, status = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`

	tag, err := tx.Exec(ctx, query, money.String(a.Balance), string(a.Status), a.UpdatedAt, a.ID, a.Version)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update account %s at version %d: %w", a.ID, a.Version, ports.ErrConcurrencyConflict)
	}
	a.Version++
	return nil
}

// ListInterestCandidates pages through ACTIVE accounts with a positive balance by id.
func (r *AccountRepo) ListInterestCandidates(ctx context.Context, after *uuid.UUID, limit int) ([]domain.Account, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `SELECT ` + accountColumns + ` FROM accounts
			WHERE status = 'ACTIVE' AND balance > 0 ORDER BY id LIMIT $1`
		rows, err = r.pool.Query(ctx, query, limit)
	} else {
		query := `SELECT ` + accountColumns + ` FROM accounts
			WHERE status = 'ACTIVE' AND balance > 0 AND id > $1 ORDER BY id LIMIT $2`
		rows, err = r.pool.Query(ctx, query, *after, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list interest candidates: %w", err)
	}
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a       domain.Account
		balance string
		status  string
	)
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.AccountNumber, &balance, &a.Currency,
		&status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	a.Status = domain.AccountStatus(status)
	return &a, nil
}
