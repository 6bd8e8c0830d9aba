package memory

import (
	"context"
	"sort"
	"time"

	"banking-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// OutboxRepo implements ports.OutboxRepository on a Store. Transitions run
// under the store mutex, which makes each one a single-row compare-and-swap.
type OutboxRepo struct {
	store *Store
}

func NewOutboxRepo(store *Store) *OutboxRepo {
	return &OutboxRepo{store: store}
}

// Enqueue assigns the id immediately; the event becomes visible on commit.
func (r *OutboxRepo) Enqueue(ctx context.Context, tx pgx.Tx, e *domain.OutboxEvent) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	r.store.nextID++
	e.ID = r.store.nextID
	r.store.mu.Unlock()

	staged := *e
	staged.Payload = append([]byte(nil), e.Payload...)
	mt.outbox = append(mt.outbox, staged)
	return nil
}

func (r *OutboxRepo) ListPending(ctx context.Context, maxRetries, limit int) ([]domain.OutboxEvent, error) {
	return r.list(limit, func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxStatusPending && e.RetryCount < maxRetries
	}, sortOutbox), nil
}

func (r *OutboxRepo) Claim(ctx context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.transition(id, domain.OutboxStatusPending, domain.OutboxStatusInProgress)
	return ok, nil
}

func (r *OutboxRepo) MarkSent(ctx context.Context, id int64, processedAt time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.transition(id, domain.OutboxStatusInProgress, domain.OutboxStatusSent)
	if !ok {
		return false, nil
	}
	e.ProcessedAt = &processedAt
	e.ErrorReason = nil
	return true, nil
}

func (r *OutboxRepo) MarkFailedAttempt(ctx context.Context, id int64, reason string, maxRetries int) (*domain.FailureOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, found := r.store.outbox[id]
	if !found {
		return nil, nil
	}
	next := domain.OutboxStatusPending
	if e.RetryCount+1 >= maxRetries {
		next = domain.OutboxStatusFailed
	}
	if _, ok := r.transition(id, domain.OutboxStatusInProgress, next); !ok {
		return nil, nil
	}
	e.RetryCount++
	e.ErrorReason = &reason
	return &domain.FailureOutcome{Status: e.Status, RetryCount: e.RetryCount}, nil
}

func (r *OutboxRepo) Release(ctx context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.transition(id, domain.OutboxStatusInProgress, domain.OutboxStatusPending)
	return ok, nil
}

// transition moves event id from -> to when it is currently in from and the
// state machine allows the edge. Callers hold store.mu.
func (r *OutboxRepo) transition(id int64, from, to domain.OutboxStatus) (*domain.OutboxEvent, bool) {
	e, ok := r.store.outbox[id]
	if !ok || e.Status != from || !from.CanTransitionTo(to) {
		return nil, false
	}
	e.Status = to
	return e, true
}

func (r *OutboxRepo) ResetStale(ctx context.Context, createdBefore time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, e := range r.store.outbox {
		if !e.CreatedAt.Before(createdBefore) {
			continue
		}
		if _, ok := r.transition(id, domain.OutboxStatusInProgress, domain.OutboxStatusPending); ok {
			n++
		}
	}
	return n, nil
}

func (r *OutboxRepo) DeleteSentBefore(ctx context.Context, createdBefore time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, e := range r.store.outbox {
		if e.Status == domain.OutboxStatusSent && e.CreatedAt.Before(createdBefore) {
			delete(r.store.outbox, id)
			n++
		}
	}
	return n, nil
}

func (r *OutboxRepo) ListFailed(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	return r.list(limit, func(e *domain.OutboxEvent) bool {
		return e.Status == domain.OutboxStatusFailed
	}, func(events []domain.OutboxEvent) {
		sortOutbox(events)
		for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
			events[i], events[j] = events[j], events[i]
		}
	}), nil
}

func (r *OutboxRepo) list(limit int, match func(*domain.OutboxEvent) bool, order func([]domain.OutboxEvent)) []domain.OutboxEvent {
	r.store.mu.Lock()
	var out []domain.OutboxEvent
	for _, e := range r.store.outbox {
		if match(e) {
			out = append(out, *e)
		}
	}
	r.store.mu.Unlock()

	order(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sortOutbox orders events by creation time, then id.
func sortOutbox(events []domain.OutboxEvent) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})
}
