package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository on a Store.
type AccountRepo struct {
	store *Store
}

func NewAccountRepo(store *Store) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	_, exists := r.store.accounts[a.ID]
	r.store.mu.Unlock()
	if exists {
		return fmt.Errorf("insert account %s: duplicate id", a.ID)
	}
	if err := mt.lock(ctx, accountKey(a.ID)); err != nil {
		return err
	}
	mt.accounts[a.ID] = *a
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// GetByIDForUpdate locks the account row until tx ends. A missing account
// returns nil without keeping the lock.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	if a, ok := mt.accounts[id]; ok {
		return &a, nil
	}

	key := accountKey(id)
	_, alreadyHeld := mt.held[key]
	if err := mt.lock(ctx, key); err != nil {
		return nil, err
	}

	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil && !alreadyHeld {
		delete(mt.held, key)
		r.store.release(key)
	}
	return a, nil
}

func (r *AccountRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.Account
	for _, a := range r.store.accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

// Save behaves like the versioned UPDATE: it locks the row and fails with
// ports.ErrConcurrencyConflict when the version moved.
func (r *AccountRepo) Save(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if err := mt.lock(ctx, accountKey(a.ID)); err != nil {
		return err
	}

	current, ok := mt.accounts[a.ID]
	if !ok {
		r.store.mu.Lock()
		current, ok = r.store.accounts[a.ID]
		r.store.mu.Unlock()
	}
	if !ok || current.Version != a.Version {
		return fmt.Errorf("update account %s at version %d: %w", a.ID, a.Version, ports.ErrConcurrencyConflict)
	}

	saved := current
	saved.Balance = a.Balance
	saved.Status = a.Status
	saved.UpdatedAt = a.UpdatedAt
	saved.Version = a.Version + 1
	mt.accounts[a.ID] = saved
	a.Version++
	return nil
}

func (r *AccountRepo) ListInterestCandidates(ctx context.Context, after *uuid.UUID, limit int) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []domain.Account
	for _, a := range r.store.accounts {
		if !a.IsActive() || !a.Balance.IsPositive() {
			continue
		}
		if after != nil && bytes.Compare(a.ID[:], after[:]) <= 0 {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
