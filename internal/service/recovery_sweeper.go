package service

import (
	"context"
	"fmt"
	"time"

	"banking-core/internal/core/ports"
	"banking-core/internal/metrics"
	"banking-core/pkg/logger"

	"github.com/rs/zerolog"
)

// RecoverySweeperImpl implements ports.RecoverySweeper. Both operations are
// single conditional statements, so they can overlap dispatcher ticks.
type RecoverySweeperImpl struct {
	outbox ports.OutboxRepository
	log    zerolog.Logger
	now    func() time.Time
}

func NewRecoverySweeper(outbox ports.OutboxRepository, log zerolog.Logger) *RecoverySweeperImpl {
	return &RecoverySweeperImpl{
		outbox: outbox,
		log:    logger.Component(log, "recovery_sweeper"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RollbackStale resets IN_PROGRESS events created more than olderThan ago.
func (s *RecoverySweeperImpl) RollbackStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	threshold := s.now().Add(-olderThan)

	n, err := s.outbox.ResetStale(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("rollback stale outbox events: %w", err)
	}
	metrics.RecordRolledBack(n)
	if n > 0 {
		s.log.Warn().
			Int64("count", n).
			Time("created_before", threshold).
			Msg("stale IN_PROGRESS outbox events reset to PENDING")
	}
	return n, nil
}

// Archive deletes SENT events created more than olderThan ago.
func (s *RecoverySweeperImpl) Archive(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)

	n, err := s.outbox.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive outbox events: %w", err)
	}
	metrics.RecordArchived(n)
	s.log.Info().
		Int64("count", n).
		Time("created_before", cutoff).
		Msg("sent outbox events archived")
	return n, nil
}
