// Package memory is an in-process implementation of the storage ports. It
// keeps the semantics the services rely on from PostgreSQL: row locks held
// until the enclosing transaction ends, writes visible only after commit and
// conditional single-row outbox transitions.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"banking-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrForeignTx is returned when a repository receives a transaction that
// was not started by this package's Transactor.
var ErrForeignTx = errors.New("memory: transaction not started by memory.Transactor")

// Store holds the committed state shared by the memory repositories.
type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account
	ledger   []domain.LedgerTransaction
	outbox   map[int64]*domain.OutboxEvent
	runs     map[time.Time]domain.InterestRun
	locks    map[string]chan struct{}
	nextID   int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]domain.Account),
		outbox:   make(map[int64]*domain.OutboxEvent),
		runs:     make(map[time.Time]domain.InterestRun),
		locks:    make(map[string]chan struct{}),
	}
}

// acquire blocks until the named row lock is free or ctx is done.
func (s *Store) acquire(ctx context.Context, key string) error {
	s.mu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
	}
}

func (s *Store) release(key string) {
	s.mu.Lock()
	ch := s.locks[key]
	s.mu.Unlock()
	<-ch
}

// OutboxEvents returns a snapshot of every committed outbox event ordered by id.
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]domain.OutboxEvent, 0, len(s.outbox))
	for _, e := range s.outbox {
		events = append(events, *e)
	}
	sortOutbox(events)
	return events
}

// LedgerEntries returns a snapshot of the committed ledger in append order.
func (s *Store) LedgerEntries() []domain.LedgerTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.LedgerTransaction(nil), s.ledger...)
}

func accountKey(id uuid.UUID) string { return "account:" + id.String() }

func runKey(d time.Time) string { return "run:" + d.Format(time.DateOnly) }

// Tx stages writes until Commit. Only Commit and Rollback of the embedded
// pgx.Tx are implemented; the repositories never issue SQL through it.
type Tx struct {
	pgx.Tx

	store    *Store
	held     map[string]struct{}
	accounts map[uuid.UUID]domain.Account
	ledger   []domain.LedgerTransaction
	outbox   []domain.OutboxEvent
	runs     map[time.Time]domain.InterestRun
	done     bool
}

func (s *Store) begin() *Tx {
	return &Tx{
		store:    s,
		held:     make(map[string]struct{}),
		accounts: make(map[uuid.UUID]domain.Account),
		runs:     make(map[time.Time]domain.InterestRun),
	}
}

func asTx(tx pgx.Tx) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, ErrForeignTx
	}
	if mt.done {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}

// lock takes a row lock for the rest of the transaction. Re-locking a row
// the transaction already holds is a no-op.
func (t *Tx) lock(ctx context.Context, key string) error {
	if _, ok := t.held[key]; ok {
		return nil
	}
	if err := t.store.acquire(ctx, key); err != nil {
		return err
	}
	t.held[key] = struct{}{}
	return nil
}

// Commit publishes the staged writes atomically and releases every lock.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	for id, a := range t.accounts {
		s.accounts[id] = a
	}
	s.ledger = append(s.ledger, t.ledger...)
	for i := range t.outbox {
		e := t.outbox[i]
		s.outbox[e.ID] = &e
	}
	for d, r := range t.runs {
		s.runs[d] = r
	}
	s.mu.Unlock()

	t.unlockAll()
	return nil
}

// Rollback discards the staged writes and releases every lock.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.unlockAll()
	return nil
}

func (t *Tx) unlockAll() {
	for key := range t.held {
		t.store.release(key)
	}
	t.held = nil
}

// Transactor implements ports.DBTransactor on a Store. Isolation options are
// accepted and ignored: every memory transaction behaves serializably for
// the rows it locks.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor over store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// WithinTx runs fn in a new transaction, committing when fn returns nil.
func (t *Transactor) WithinTx(ctx context.Context, _ pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx := t.store.begin()
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
