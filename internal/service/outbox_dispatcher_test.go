package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupDispatcher(t *testing.T, cfg DispatcherConfig) (*OutboxDispatcherImpl, *mocks.MockOutboxRepository, *mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxRepository(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)
	d := NewOutboxDispatcher(outbox, publisher, cfg, zerolog.Nop())
	d.now = clock
	return d, outbox, publisher
}

func pendingEvent(id int64) domain.OutboxEvent {
	return domain.OutboxEvent{
		ID:            id,
		AggregateType: domain.AggregateTransaction,
		AggregateID:   uuid.New(),
		Topic:         "banking.transactions",
		Payload:       []byte(`{"eventType":"DEPOSIT_COMPLETED","data":{}}`),
		Status:        domain.OutboxStatusPending,
		CreatedAt:     fixedNow,
	}
}

func TestDispatcherConfig_Defaults(t *testing.T) {
	d, _, _ := setupDispatcher(t, DispatcherConfig{})

	assert.Equal(t, 100, d.cfg.BatchSize)
	assert.Equal(t, 3, d.cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, d.cfg.PublishTimeout)
	assert.Equal(t, 1, d.cfg.Workers)
}

func TestOutboxDispatcher_PublishesAndMarksSent(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{BatchSize: 10, MaxRetries: 3})
	ctx := context.Background()
	e := pendingEvent(7)

	outbox.EXPECT().ListPending(ctx, 3, 10).Return([]domain.OutboxEvent{e}, nil)
	gomock.InOrder(
		outbox.EXPECT().Claim(gomock.Any(), int64(7)).Return(true, nil),
		publisher.EXPECT().Publish(gomock.Any(), e.Topic, e.AggregateID.String(), []byte(e.Payload)).Return(nil),
		outbox.EXPECT().MarkSent(gomock.Any(), int64(7), fixedNow).Return(true, nil),
	)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DispatchResult{Processed: 1, Published: 1}, res)
}

func TestOutboxDispatcher_LostClaimIsSkipped(t *testing.T) {
	d, outbox, _ := setupDispatcher(t, DispatcherConfig{})
	ctx := context.Background()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(1)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(1)).Return(false, nil)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DispatchResult{Processed: 1, Skipped: 1}, res)
}

func TestOutboxDispatcher_PublishFailure(t *testing.T) {
	tests := []struct {
		name    string
		outcome *domain.FailureOutcome
		want    ports.DispatchResult
	}{
		{
			name:    "retry later",
			outcome: &domain.FailureOutcome{Status: domain.OutboxStatusPending, RetryCount: 1},
			want:    ports.DispatchResult{Processed: 1, Failed: 1},
		},
		{
			name:    "retries exhausted",
			outcome: &domain.FailureOutcome{Status: domain.OutboxStatusFailed, RetryCount: 3},
			want:    ports.DispatchResult{Processed: 1, Failed: 1},
		},
		{
			name:    "no longer in progress",
			outcome: nil,
			want:    ports.DispatchResult{Processed: 1, StateUpdateFailed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, outbox, publisher := setupDispatcher(t, DispatcherConfig{MaxRetries: 3})
			ctx := context.Background()

			outbox.EXPECT().ListPending(ctx, 3, gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(2)}, nil)
			outbox.EXPECT().Claim(gomock.Any(), int64(2)).Return(true, nil)
			publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))
			outbox.EXPECT().MarkFailedAttempt(gomock.Any(), int64(2), gomock.Any(), 3).DoAndReturn(
				func(_ context.Context, _ int64, reason string, _ int) (*domain.FailureOutcome, error) {
					assert.Contains(t, reason, "broker unavailable")
					return tt.outcome, nil
				})

			res, err := d.DispatchPending(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestOutboxDispatcher_PublishTimeoutCountsAsFailure(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{PublishTimeout: 20 * time.Millisecond})
	ctx := context.Background()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(3)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(3)).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _, _ string, _ []byte) error {
			<-ctx.Done()
			return nil
		})
	outbox.EXPECT().MarkFailedAttempt(gomock.Any(), int64(3), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, reason string, _ int) (*domain.FailureOutcome, error) {
			assert.Contains(t, reason, context.DeadlineExceeded.Error())
			return &domain.FailureOutcome{Status: domain.OutboxStatusPending, RetryCount: 1}, nil
		})

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
}

func TestOutboxDispatcher_MarkSentLost(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{})
	ctx := context.Background()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(4)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(4)).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	outbox.EXPECT().MarkSent(gomock.Any(), int64(4), gomock.Any()).Return(false, nil)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DispatchResult{Processed: 1, StateUpdateFailed: 1}, res)
}

func TestOutboxDispatcher_ResolvesClaimAfterCancel(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(5)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(5)).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, _ []byte) error {
			cancel()
			return nil
		})
	outbox.EXPECT().MarkSent(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ int64, _ time.Time) (bool, error) {
			assert.NoError(t, ctx.Err())
			return true, nil
		})

	_, err := d.DispatchPending(ctx)
	require.NoError(t, err)
}

func TestOutboxDispatcher_ShutdownReleasesClaim(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{MaxRetries: 3})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(8)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(8)).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(pubCtx context.Context, _, _ string, _ []byte) error {
			cancel()
			<-pubCtx.Done()
			return pubCtx.Err()
		})
	outbox.EXPECT().Release(gomock.Any(), int64(8)).DoAndReturn(
		func(ctx context.Context, _ int64) (bool, error) {
			assert.NoError(t, ctx.Err())
			return true, nil
		})
	outbox.EXPECT().MarkFailedAttempt(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DispatchResult{Processed: 1, Released: 1}, res)
}

func TestOutboxDispatcher_ReleaseLost(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return([]domain.OutboxEvent{pendingEvent(9)}, nil)
	outbox.EXPECT().Claim(gomock.Any(), int64(9)).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, _ []byte) error {
			cancel()
			return context.Canceled
		})
	outbox.EXPECT().Release(gomock.Any(), int64(9)).Return(false, nil)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.DispatchResult{Processed: 1, StateUpdateFailed: 1}, res)
}

func TestOutboxDispatcher_PollError(t *testing.T) {
	d, outbox, _ := setupDispatcher(t, DispatcherConfig{})
	ctx := context.Background()

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := d.DispatchPending(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll pending outbox events")
}

func TestOutboxDispatcher_ConcurrentWorkers(t *testing.T) {
	d, outbox, publisher := setupDispatcher(t, DispatcherConfig{Workers: 4})
	ctx := context.Background()

	events := make([]domain.OutboxEvent, 20)
	for i := range events {
		events[i] = pendingEvent(int64(i + 1))
	}

	outbox.EXPECT().ListPending(ctx, gomock.Any(), gomock.Any()).Return(events, nil)
	outbox.EXPECT().Claim(gomock.Any(), gomock.Any()).Times(20).Return(true, nil)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(20).Return(nil)
	outbox.EXPECT().MarkSent(gomock.Any(), gomock.Any(), gomock.Any()).Times(20).Return(true, nil)

	res, err := d.DispatchPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Published)
}

func TestTruncateReason(t *testing.T) {
	assert.Equal(t, "short", truncateReason("short"))
	assert.Len(t, truncateReason(strings.Repeat("x", 5000)), 1000)
}
