package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banking-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const outboxColumns = `id, aggregate_type, aggregate_id, topic, payload, status, retry_count, error_reason, created_at, processed_at`

// OutboxRepo implements ports.OutboxRepository. Every transition is a single
// conditional UPDATE on one row, so concurrent dispatchers and sweepers only
// ever act on rows still matching the state they expect.
type OutboxRepo struct {
	pool Pool
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(pool Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Enqueue stages an event inside the caller's transaction and sets its ID.
func (r *OutboxRepo) Enqueue(ctx context.Context, tx pgx.Tx, e *domain.OutboxEvent) error {
	query := `INSERT INTO outbox_events (aggregate_type, aggregate_id, topic, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := tx.QueryRow(ctx, query,
		string(e.AggregateType), e.AggregateID, e.Topic, []byte(e.Payload),
		string(e.Status), e.RetryCount, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// ListPending returns the oldest PENDING events still under the retry limit.
func (r *OutboxRepo) ListPending(ctx context.Context, maxRetries, limit int) ([]domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + ` FROM outbox_events
		WHERE status = 'PENDING' AND retry_count < $1
		ORDER BY created_at, id LIMIT $2`

	rows, err := r.pool.Query(ctx, query, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	return collectOutbox(rows)
}

// Claim moves one event PENDING -> IN_PROGRESS.
func (r *OutboxRepo) Claim(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE outbox_events SET status = 'IN_PROGRESS' WHERE id = $1 AND status = 'PENDING'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("claim outbox event %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSent moves one event IN_PROGRESS -> SENT.
func (r *OutboxRepo) MarkSent(ctx context.Context, id int64, processedAt time.Time) (bool, error) {
	query := `UPDATE outbox_events SET status = 'SENT', processed_at = $2, error_reason = NULL
		WHERE id = $1 AND status = 'IN_PROGRESS'`

	tag, err := r.pool.Exec(ctx, query, id, processedAt)
	if err != nil {
		return false, fmt.Errorf("mark outbox event %d sent: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailedAttempt records a failed publish and picks the next state in
// the same statement, so the retry bound cannot be raced past.
func (r *OutboxRepo) MarkFailedAttempt(ctx context.Context, id int64, reason string, maxRetries int) (*domain.FailureOutcome, error) {
	query := `UPDATE outbox_events
		SET retry_count = retry_count + 1,
			status = CASE WHEN retry_count + 1 >= $3 THEN 'FAILED' ELSE 'PENDING' END,
			error_reason = $2
		WHERE id = $1 AND status = 'IN_PROGRESS'
		RETURNING status, retry_count`

	var (
		status string
		out    domain.FailureOutcome
	)
	err := r.pool.QueryRow(ctx, query, id, reason, maxRetries).Scan(&status, &out.RetryCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark outbox event %d failed: %w", id, err)
	}
	out.Status = domain.OutboxStatus(status)
	return &out, nil
}

// Release moves one event IN_PROGRESS -> PENDING and leaves retry_count alone.
func (r *OutboxRepo) Release(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE outbox_events SET status = 'PENDING' WHERE id = $1 AND status = 'IN_PROGRESS'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("release outbox event %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ResetStale returns IN_PROGRESS events created before the threshold to PENDING.
func (r *OutboxRepo) ResetStale(ctx context.Context, createdBefore time.Time) (int64, error) {
	query := `UPDATE outbox_events SET status = 'PENDING' WHERE status = 'IN_PROGRESS' AND created_at < $1`

	tag, err := r.pool.Exec(ctx, query, createdBefore)
	if err != nil {
		return 0, fmt.Errorf("reset stale outbox events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSentBefore removes SENT events created before the cutoff.
func (r *OutboxRepo) DeleteSentBefore(ctx context.Context, createdBefore time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = 'SENT' AND created_at < $1`

	tag, err := r.pool.Exec(ctx, query, createdBefore)
	if err != nil {
		return 0, fmt.Errorf("archive outbox events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListFailed returns the most recent FAILED events.
func (r *OutboxRepo) ListFailed(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `SELECT ` + outboxColumns + ` FROM outbox_events
		WHERE status = 'FAILED' ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list failed outbox events: %w", err)
	}
	return collectOutbox(rows)
}

func collectOutbox(rows pgx.Rows) ([]domain.OutboxEvent, error) {
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var (
			e             domain.OutboxEvent
			aggregateType string
			status        string
			payload       []byte
		)
		err := rows.Scan(
			&e.ID, &aggregateType, &e.AggregateID, &e.Topic, &payload,
			&status, &e.RetryCount, &e.ErrorReason, &e.CreatedAt, &e.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		e.AggregateType = domain.AggregateType(aggregateType)
		e.Status = domain.OutboxStatus(status)
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}
	return events, nil
}
