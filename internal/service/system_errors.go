package service

import (
	"context"
	"fmt"
	"time"

	"banking-core/internal/core/ports"
	"banking-core/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// SystemErrorRecorder stages a SYSTEM_ERROR event in its own atomic unit.
// Background jobs use it for failures no caller will ever see.
type SystemErrorRecorder struct {
	outbox     ports.OutboxRepository
	transactor ports.DBTransactor
	events     *EventFactory
	log        zerolog.Logger
	now        func() time.Time
}

func NewSystemErrorRecorder(outbox ports.OutboxRepository, transactor ports.DBTransactor, events *EventFactory, log zerolog.Logger) *SystemErrorRecorder {
	return &SystemErrorRecorder{
		outbox:     outbox,
		transactor: transactor,
		events:     events,
		log:        logger.Component(log, "system_errors"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Record never fails; a recording error is only logged.
func (r *SystemErrorRecorder) Record(ctx context.Context, service, operation, message string, cause error) {
	event, err := r.events.SystemError(service, operation, message, cause, r.now())
	if err == nil {
		// Recording must survive the cancellation of the job that failed.
		detached := context.WithoutCancel(ctx)
		err = r.transactor.WithinTx(detached, pgx.TxOptions{}, func(tx pgx.Tx) error {
			if err := r.outbox.Enqueue(detached, tx, event); err != nil {
				return fmt.Errorf("enqueue system error: %w", err)
			}
			return nil
		})
	}
	if err != nil {
		r.log.Error().Err(err).AnErr("cause", cause).Str("operation", operation).Msg("failed to record system error")
		return
	}

	r.log.Warn().
		Str("error_id", event.AggregateID.String()).
		Str("operation", operation).
		Str("message", message).
		Msg("system error saved to outbox")
}
