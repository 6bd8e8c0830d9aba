package service

import (
	"context"
	"fmt"
	"time"

	"banking-core/internal/core/ports"
	"banking-core/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// WorkersConfig schedules the background jobs.
type WorkersConfig struct {
	PollInterval     time.Duration
	RollbackInterval time.Duration
	StaleAfter       time.Duration
	ArchiveCron      string
	Retention        time.Duration
	InterestEnabled  bool
	InterestCron     string
	AnnualRate       decimal.Decimal
}

// Workers owns the dispatcher and rollback tickers and the archive and
// interest cron entries. Everything stops when the Run context is cancelled.
type Workers struct {
	dispatcher ports.OutboxDispatcher
	sweeper    ports.RecoverySweeper
	interest   ports.InterestService
	cfg        WorkersConfig
	log        zerolog.Logger
}

func NewWorkers(
	dispatcher ports.OutboxDispatcher,
	sweeper ports.RecoverySweeper,
	interest ports.InterestService,
	cfg WorkersConfig,
	log zerolog.Logger,
) *Workers {
	return &Workers{
		dispatcher: dispatcher,
		sweeper:    sweeper,
		interest:   interest,
		cfg:        cfg,
		log:        logger.Component(log, "workers"),
	}
}

// Run blocks until ctx is cancelled and every job has returned.
func (w *Workers) Run(ctx context.Context) error {
	cl := cronLogger{log: w.log}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(w.cfg.ArchiveCron, func() { w.archive(ctx) }); err != nil {
		return fmt.Errorf("schedule outbox archive %q: %w", w.cfg.ArchiveCron, err)
	}
	if w.cfg.InterestEnabled {
		if _, err := c.AddFunc(w.cfg.InterestCron, func() { w.applyInterest(ctx) }); err != nil {
			return fmt.Errorf("schedule interest job %q: %w", w.cfg.InterestCron, err)
		}
	}

	c.Start()
	w.log.Info().
		Dur("poll_interval", w.cfg.PollInterval).
		Dur("rollback_interval", w.cfg.RollbackInterval).
		Str("archive_cron", w.cfg.ArchiveCron).
		Bool("interest_enabled", w.cfg.InterestEnabled).
		Msg("background workers started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(gctx, w.cfg.PollInterval, func(ctx context.Context) {
			if _, err := w.dispatcher.DispatchPending(ctx); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("outbox dispatch tick failed")
			}
		})
	})
	g.Go(func() error {
		return every(gctx, w.cfg.RollbackInterval, func(ctx context.Context) {
			if _, err := w.sweeper.RollbackStale(ctx, w.cfg.StaleAfter); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("outbox rollback tick failed")
			}
		})
	})

	err := g.Wait()
	<-c.Stop().Done()
	w.log.Info().Msg("background workers stopped")
	return err
}

func (w *Workers) archive(ctx context.Context) {
	if _, err := w.sweeper.Archive(ctx, w.cfg.Retention); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Msg("outbox archive failed")
	}
}

func (w *Workers) applyInterest(ctx context.Context) {
	if _, err := w.interest.ApplyDailyInterest(ctx, w.cfg.AnnualRate); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Msg("daily interest job failed")
	}
}

// every runs fn on each tick until ctx is done. Ticks never overlap.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
