package service

import (
	"context"
	"testing"
	"time"

	"banking-core/internal/core/ports"
	"banking-core/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testWorkersConfig() WorkersConfig {
	return WorkersConfig{
		PollInterval:     5 * time.Millisecond,
		RollbackInterval: 5 * time.Millisecond,
		StaleAfter:       30 * time.Minute,
		ArchiveCron:      "0 0 2 * * *",
		Retention:        7 * 24 * time.Hour,
		InterestEnabled:  true,
		InterestCron:     "0 0 2 * * *",
		AnnualRate:       fivePercent,
	}
}

func TestWorkers_RunsTickersUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockOutboxDispatcher(ctrl)
	sweeper := mocks.NewMockRecoverySweeper(ctrl)
	interest := mocks.NewMockInterestService(ctrl)

	dispatched := make(chan struct{}, 1)
	swept := make(chan struct{}, 1)
	dispatcher.EXPECT().DispatchPending(gomock.Any()).MinTimes(1).DoAndReturn(
		func(context.Context) (ports.DispatchResult, error) {
			select {
			case dispatched <- struct{}{}:
			default:
			}
			return ports.DispatchResult{}, nil
		})
	sweeper.EXPECT().RollbackStale(gomock.Any(), 30*time.Minute).MinTimes(1).DoAndReturn(
		func(context.Context, time.Duration) (int64, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return 0, nil
		})

	w := NewWorkers(dispatcher, sweeper, interest, testWorkersConfig(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for _, ch := range []chan struct{}{dispatched, swept} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("worker tick did not happen")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkers_InvalidCron(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := testWorkersConfig()
	cfg.ArchiveCron = "every night"

	w := NewWorkers(mocks.NewMockOutboxDispatcher(ctrl), mocks.NewMockRecoverySweeper(ctrl), mocks.NewMockInterestService(ctrl), cfg, zerolog.Nop())

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule outbox archive")
}

func TestWorkers_JobsDelegate(t *testing.T) {
	ctrl := gomock.NewController(t)
	sweeper := mocks.NewMockRecoverySweeper(ctrl)
	interest := mocks.NewMockInterestService(ctrl)
	cfg := testWorkersConfig()
	ctx := context.Background()

	sweeper.EXPECT().Archive(ctx, cfg.Retention).Return(int64(3), nil)
	interest.EXPECT().ApplyDailyInterest(ctx, cfg.AnnualRate).Return(2, nil)

	w := NewWorkers(mocks.NewMockOutboxDispatcher(ctrl), sweeper, interest, cfg, zerolog.Nop())
	w.archive(ctx)
	w.applyInterest(ctx)
}
