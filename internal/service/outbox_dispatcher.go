package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/metrics"
	"banking-core/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize      = 100
	defaultMaxRetries     = 3
	defaultPublishTimeout = 10 * time.Second
	defaultWorkers        = 1
	maxErrorReasonLen     = 1000
)

// DispatcherConfig controls one dispatcher tick.
type DispatcherConfig struct {
	// BatchSize is the max number of events polled per tick.
	BatchSize int
	// MaxRetries is the number of failed publishes after which an event is FAILED.
	MaxRetries int
	// PublishTimeout bounds a single publish call.
	PublishTimeout time.Duration
	// Workers is the max number of concurrent publishes within a tick.
	Workers int
}

func (c *DispatcherConfig) normalize() {
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultPublishTimeout
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
}

// OutboxDispatcherImpl implements ports.OutboxDispatcher.
//
// Delivery is at-least-once: the bus sees the message before MarkSent, so a
// crash in between republishes the event after the sweeper resets it.
type OutboxDispatcherImpl struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	cfg       DispatcherConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewOutboxDispatcher creates a dispatcher publishing through publisher.
func NewOutboxDispatcher(outbox ports.OutboxRepository, publisher ports.EventPublisher, cfg DispatcherConfig, log zerolog.Logger) *OutboxDispatcherImpl {
	cfg.normalize()
	return &OutboxDispatcherImpl{
		outbox:    outbox,
		publisher: publisher,
		cfg:       cfg,
		log:       logger.Component(log, "outbox_dispatcher"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DispatchPending runs one tick: poll, then claim and publish each event.
func (d *OutboxDispatcherImpl) DispatchPending(ctx context.Context) (ports.DispatchResult, error) {
	events, err := d.outbox.ListPending(ctx, d.cfg.MaxRetries, d.cfg.BatchSize)
	if err != nil {
		return ports.DispatchResult{}, fmt.Errorf("poll pending outbox events: %w", err)
	}

	var (
		mu     sync.Mutex
		result ports.DispatchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)

	for i := range events {
		event := events[i]
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := d.dispatch(gctx, &event)
			mu.Lock()
			result.Processed++
			switch outcome {
			case outcomeSent:
				result.Published++
			case outcomeSkipped:
				result.Skipped++
			case outcomeFailed:
				result.Failed++
			case outcomeReleased:
				result.Released++
			case outcomeStateUpdateFailed:
				result.StateUpdateFailed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if result.Processed > 0 {
		d.log.Debug().
			Int("processed", result.Processed).
			Int("published", result.Published).
			Int("failed", result.Failed).
			Int("skipped", result.Skipped).
			Msg("outbox dispatch tick finished")
	}
	return result, nil
}

type dispatchOutcome int

const (
	outcomeSent dispatchOutcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeReleased
	outcomeStateUpdateFailed
)

func (d *OutboxDispatcherImpl) dispatch(ctx context.Context, event *domain.OutboxEvent) dispatchOutcome {
	log := d.log.With().Int64("event_id", event.ID).Str("topic", event.Topic).Logger()

	claimed, err := d.outbox.Claim(ctx, event.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to claim outbox event")
		return outcomeStateUpdateFailed
	}
	if !claimed {
		metrics.RecordClaimConflict()
		return outcomeSkipped
	}

	pubErr := d.publish(ctx, event)

	// The claim is resolved even when the tick is being cancelled, otherwise
	// the event would sit IN_PROGRESS until the sweeper picks it up.
	resolveCtx := context.WithoutCancel(ctx)

	if pubErr == nil {
		ok, err := d.outbox.MarkSent(resolveCtx, event.ID, d.now())
		if err != nil || !ok {
			log.Error().Err(err).Bool("transitioned", ok).Msg("event published but SENT state not persisted; it may be published again")
			return outcomeStateUpdateFailed
		}
		metrics.RecordDispatch(metrics.ResultSent)
		return outcomeSent
	}

	// Shutdown interrupted the publish: the bus did not fail, so the
	// attempt is not counted.
	if ctx.Err() != nil && errors.Is(pubErr, context.Canceled) {
		ok, err := d.outbox.Release(resolveCtx, event.ID)
		if err != nil || !ok {
			log.Error().Err(err).Bool("transitioned", ok).Msg("failed to release interrupted outbox event; the sweeper will reset it")
			return outcomeStateUpdateFailed
		}
		metrics.RecordDispatch(metrics.ResultReleased)
		log.Info().Msg("publish interrupted by shutdown, event released")
		return outcomeReleased
	}

	out, err := d.outbox.MarkFailedAttempt(resolveCtx, event.ID, truncateReason(pubErr.Error()), d.cfg.MaxRetries)
	if err != nil {
		log.Error().Err(err).AnErr("publish_error", pubErr).Msg("failed to record publish failure")
		return outcomeStateUpdateFailed
	}
	if out == nil {
		log.Warn().AnErr("publish_error", pubErr).Msg("publish failed but event was no longer IN_PROGRESS")
		return outcomeStateUpdateFailed
	}

	if out.Status.IsTerminal() {
		metrics.RecordDispatch(metrics.ResultFailed)
		log.Error().Err(pubErr).Int("retry_count", out.RetryCount).Msg("outbox event FAILED after max retries")
	} else {
		metrics.RecordDispatch(metrics.ResultRetry)
		log.Warn().Err(pubErr).Int("retry_count", out.RetryCount).Msg("outbox publish failed, will retry")
	}
	return outcomeFailed
}

func (d *OutboxDispatcherImpl) publish(ctx context.Context, event *domain.OutboxEvent) error {
	pubCtx, cancel := context.WithTimeout(ctx, d.cfg.PublishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(pubCtx, event.Topic, event.Key(), event.Payload)
	metrics.RecordPublish(time.Since(start))
	if err == nil && errors.Is(pubCtx.Err(), context.DeadlineExceeded) {
		err = pubCtx.Err()
	}
	if err != nil {
		return fmt.Errorf("publish to %s: %w", event.Topic, err)
	}
	return nil
}

func truncateReason(s string) string {
	if len(s) <= maxErrorReasonLen {
		return s
	}
	return s[:maxErrorReasonLen]
}
