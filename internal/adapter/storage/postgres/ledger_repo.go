package postgres

import (
	"context"
	"errors"
	"fmt"

	"banking-core/internal/core/domain"
	"banking-core/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `id, from_account_id, to_account_id, amount::text, type, status, created_at`

// LedgerRepo implements ports.LedgerRepository. Entries are never updated or deleted.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Append inserts a completed movement within a transaction.
func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.LedgerTransaction) error {
	query := `INSERT INTO ledger_transactions (id, from_account_id, to_account_id, amount, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.FromAccountID, t.ToAccountID, money.String(t.Amount),
		string(t.Type), string(t.Status), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by its UUID.
func (r *LedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_transactions WHERE id = $1`

	t, err := scanLedger(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger transaction: %w", err)
	}
	return t, nil
}

// ListByAccount returns the latest entries touching an account, newest first.
func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, id LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerTransaction
	for rows.Next() {
		t, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger transaction: %w", err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger transactions: %w", err)
	}
	return entries, nil
}

func scanLedger(row rowScanner) (*domain.LedgerTransaction, error) {
	var (
		t      domain.LedgerTransaction
		amount string
		typ    string
		status string
	)
	if err := row.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &amount, &typ, &status, &t.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Type = domain.LedgerTransactionType(typ)
	t.Status = domain.LedgerTransactionStatus(status)
	return &t, nil
}
