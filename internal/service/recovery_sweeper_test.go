package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"banking-core/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupSweeper(t *testing.T) (*RecoverySweeperImpl, *mocks.MockOutboxRepository) {
	ctrl := gomock.NewController(t)
	outbox := mocks.NewMockOutboxRepository(ctrl)
	s := NewRecoverySweeper(outbox, zerolog.Nop())
	s.now = clock
	return s, outbox
}

func TestRecoverySweeper_RollbackStale(t *testing.T) {
	s, outbox := setupSweeper(t)
	ctx := context.Background()

	outbox.EXPECT().ResetStale(ctx, fixedNow.Add(-30*time.Minute)).Return(int64(2), nil)

	n, err := s.RollbackStale(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRecoverySweeper_Archive(t *testing.T) {
	s, outbox := setupSweeper(t)
	ctx := context.Background()

	outbox.EXPECT().DeleteSentBefore(ctx, fixedNow.Add(-7*24*time.Hour)).Return(int64(5), nil)

	n, err := s.Archive(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestRecoverySweeper_Errors(t *testing.T) {
	s, outbox := setupSweeper(t)
	ctx := context.Background()

	outbox.EXPECT().ResetStale(ctx, gomock.Any()).Return(int64(0), errors.New("timeout"))
	outbox.EXPECT().DeleteSentBefore(ctx, gomock.Any()).Return(int64(0), errors.New("timeout"))

	_, err := s.RollbackStale(ctx, time.Minute)
	assert.ErrorContains(t, err, "rollback stale outbox events")
	_, err = s.Archive(ctx, time.Minute)
	assert.ErrorContains(t, err, "archive outbox events")
}
