package memory

import (
	"context"
	"sort"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository on a Store.
type LedgerRepo struct {
	store *Store
}

func NewLedgerRepo(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

func (r *LedgerRepo) Append(ctx context.Context, tx pgx.Tx, t *domain.LedgerTransaction) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	mt.ledger = append(mt.ledger, *t)
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.ledger {
		if r.store.ledger[i].ID == id {
			t := r.store.ledger[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	r.store.mu.Lock()
	var out []domain.LedgerTransaction
	for _, t := range r.store.ledger {
		if (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
			(t.ToAccountID != nil && *t.ToAccountID == accountID) {
			out = append(out, t)
		}
	}
	r.store.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
