package service

import (
	"context"
	"fmt"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ledgerWriter appends ledger entries and stages the matching outbox event
// inside the caller's transaction.
type ledgerWriter struct {
	ledger ports.LedgerRepository
	outbox ports.OutboxRepository
	events *EventFactory
}

// record writes a single-account movement and its event.
func (w ledgerWriter) record(ctx context.Context, tx pgx.Tx, eventType domain.EventType, ownerID uuid.UUID, entry *domain.LedgerTransaction, currency string, at time.Time) error {
	if err := w.ledger.Append(ctx, tx, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	event, err := w.events.Transaction(eventType, ownerID, entry, currency, at)
	return w.stage(ctx, tx, event, err)
}

// stage enqueues an event built by the EventFactory.
func (w ledgerWriter) stage(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent, buildErr error) error {
	if buildErr != nil {
		return buildErr
	}
	if err := w.outbox.Enqueue(ctx, tx, event); err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}
