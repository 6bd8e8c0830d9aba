package postgres

import (
	"context"
	"fmt"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InterestRunRepo implements ports.InterestRunRepository.
type InterestRunRepo struct {
	pool Pool
}

// NewInterestRunRepo creates a new InterestRunRepo.
func NewInterestRunRepo(pool Pool) *InterestRunRepo {
	return &InterestRunRepo{pool: pool}
}

// GetOrCreate returns the run for a business date, creating it on first use.
func (r *InterestRunRepo) GetOrCreate(ctx context.Context, runDate time.Time) (*domain.InterestRun, error) {
	query := `INSERT INTO interest_runs (run_date, credited) VALUES ($1, 0)
		ON CONFLICT (run_date) DO UPDATE SET run_date = EXCLUDED.run_date
		RETURNING run_date, last_account_id, credited, completed_at`

	run := &domain.InterestRun{}
	err := r.pool.QueryRow(ctx, query, runDate).Scan(&run.RunDate, &run.LastAccountID, &run.Credited, &run.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create interest run: %w", err)
	}
	return run, nil
}

// Advance moves the cursor forward inside tx. The row lock taken by the
// UPDATE serialises concurrent runs; the loser re-evaluates the predicate
// after the winner commits and sees it no longer holds.
func (r *InterestRunRepo) Advance(ctx context.Context, tx pgx.Tx, runDate time.Time, accountID uuid.UUID, credited bool) (bool, error) {
	query := `UPDATE interest_runs SET last_account_id = $2, credited = credited + $3
		WHERE run_date = $1 AND completed_at IS NULL
			AND (last_account_id IS NULL OR last_account_id < $2)`

	inc := 0
	if credited {
		inc = 1
	}
	tag, err := tx.Exec(ctx, query, runDate, accountID, inc)
	if err != nil {
		return false, fmt.Errorf("advance interest run: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Complete marks a run finished.
func (r *InterestRunRepo) Complete(ctx context.Context, runDate time.Time, completedAt time.Time) error {
	query := `UPDATE interest_runs SET completed_at = $2 WHERE run_date = $1 AND completed_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, runDate, completedAt); err != nil {
		return fmt.Errorf("complete interest run: %w", err)
	}
	return nil
}
