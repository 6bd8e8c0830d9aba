package memory

import (
	"bytes"
	"context"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InterestRunRepo implements ports.InterestRunRepository on a Store.
type InterestRunRepo struct {
	store *Store
}

func NewInterestRunRepo(store *Store) *InterestRunRepo {
	return &InterestRunRepo{store: store}
}

func (r *InterestRunRepo) GetOrCreate(ctx context.Context, runDate time.Time) (*domain.InterestRun, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	run, ok := r.store.runs[runDate]
	if !ok {
		run = domain.InterestRun{RunDate: runDate}
		r.store.runs[runDate] = run
	}
	return &run, nil
}

// Advance locks the run row until tx ends, so a concurrent run waits and
// then evaluates the cursor against the committed value.
func (r *InterestRunRepo) Advance(ctx context.Context, tx pgx.Tx, runDate time.Time, accountID uuid.UUID, credited bool) (bool, error) {
	mt, err := asTx(tx)
	if err != nil {
		return false, err
	}
	if err := mt.lock(ctx, runKey(runDate)); err != nil {
		return false, err
	}

	run, ok := mt.runs[runDate]
	if !ok {
		r.store.mu.Lock()
		run, ok = r.store.runs[runDate]
		r.store.mu.Unlock()
	}
	if !ok || run.IsCompleted() {
		return false, nil
	}
	if run.LastAccountID != nil && bytes.Compare(run.LastAccountID[:], accountID[:]) >= 0 {
		return false, nil
	}

	id := accountID
	run.LastAccountID = &id
	if credited {
		run.Credited++
	}
	mt.runs[runDate] = run
	return true, nil
}

func (r *InterestRunRepo) Complete(ctx context.Context, runDate time.Time, completedAt time.Time) error {
	key := runKey(runDate)
	if err := r.store.acquire(ctx, key); err != nil {
		return err
	}
	defer r.store.release(key)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	run, ok := r.store.runs[runDate]
	if !ok || run.IsCompleted() {
		return nil
	}
	run.CompletedAt = &completedAt
	r.store.runs[runDate] = run
	return nil
}
