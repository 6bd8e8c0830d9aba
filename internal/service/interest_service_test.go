package service

import (
	"context"
	"errors"
	"testing"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type interestTestDeps struct {
	svc        *InterestServiceImpl
	accounts   *mocks.MockAccountRepository
	ledger     *mocks.MockLedgerRepository
	outbox     *mocks.MockOutboxRepository
	runs       *mocks.MockInterestRunRepository
	transactor *mocks.MockDBTransactor
	tx         *mockTx
}

var (
	fivePercent = decimal.RequireFromString("0.05")
	testRunDate = domain.BusinessDate(fixedNow)
)

func setupInterestService(t *testing.T, pageSize int) *interestTestDeps {
	ctrl := gomock.NewController(t)
	d := &interestTestDeps{
		accounts:   mocks.NewMockAccountRepository(ctrl),
		ledger:     mocks.NewMockLedgerRepository(ctrl),
		outbox:     mocks.NewMockOutboxRepository(ctrl),
		runs:       mocks.NewMockInterestRunRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		tx:         &mockTx{},
	}
	events := NewEventFactory(testTopics)
	sysErrors := NewSystemErrorRecorder(d.outbox, d.transactor, events, zerolog.Nop())
	sysErrors.now = clock
	d.svc = NewInterestService(d.accounts, d.ledger, d.outbox, d.runs, d.transactor, events, sysErrors, pageSize, zerolog.Nop())
	d.svc.now = clock

	d.transactor.EXPECT().WithinTx(gomock.Any(), pgx.TxOptions{}, gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, _ pgx.TxOptions, fn func(pgx.Tx) error) error {
			return fn(d.tx)
		})
	return d
}

func TestInterestService_CreditsEligibleAccounts(t *testing.T) {
	d := setupInterestService(t, 2)
	ctx := context.Background()
	rich := activeAccount(uuid.New(), "1000.00")
	poor := activeAccount(uuid.New(), "10.00")

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, nil, 2).Return([]domain.Account{*rich, *poor}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, &poor.ID, 2).Return(nil, nil)

	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, rich.ID).Return(rich, nil)
	d.runs.EXPECT().Advance(ctx, d.tx, testRunDate, rich.ID, true).Return(true, nil)
	d.accounts.EXPECT().Save(ctx, d.tx, rich).Return(nil)
	d.ledger.EXPECT().Append(ctx, d.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, e *domain.LedgerTransaction) error {
			assert.Equal(t, domain.LedgerTypeInterest, e.Type)
			assert.Equal(t, "0.14", e.Amount.String())
			return nil
		})
	var staged *domain.OutboxEvent
	d.outbox.EXPECT().Enqueue(ctx, d.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, e *domain.OutboxEvent) error {
			staged = e
			return nil
		})

	// Interest on 10.00 rounds to zero: only the cursor moves.
	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, poor.ID).Return(poor, nil)
	d.runs.EXPECT().Advance(ctx, d.tx, testRunDate, poor.ID, false).Return(true, nil)

	d.runs.EXPECT().Complete(ctx, testRunDate, fixedNow).Return(nil)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "1000.14", rich.Balance.String())
	assert.Equal(t, "10", poor.Balance.String())

	require.NotNil(t, staged)
	eventType, data := decodeEnvelope(t, staged)
	assert.Equal(t, "INTEREST_APPLIED", eventType)
	assert.Equal(t, "0.14", data["amount"])
	assert.Equal(t, rich.OwnerID.String(), data["userId"])
}

func TestInterestService_SkipsAccountVisitedByAnotherRun(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx := context.Background()
	acc := activeAccount(uuid.New(), "1000.00")

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, nil, 10).Return([]domain.Account{*acc}, nil)
	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, acc.ID).Return(acc, nil)
	d.runs.EXPECT().Advance(ctx, d.tx, testRunDate, acc.ID, true).Return(false, nil)
	d.runs.EXPECT().Complete(ctx, testRunDate, fixedNow).Return(nil)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInterestService_CompletedRunIsNoop(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx := context.Background()
	done := fixedNow

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate, Credited: 4, CompletedAt: &done}, nil)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInterestService_ResumesFromCursor(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx := context.Background()
	last := uuid.New()

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate, LastAccountID: &last}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, &last, 10).Return(nil, nil)
	d.runs.EXPECT().Complete(ctx, testRunDate, fixedNow).Return(nil)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInterestService_FailedAccountRecordsSystemError(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx := context.Background()
	broken := activeAccount(uuid.New(), "1000.00")
	healthy := activeAccount(uuid.New(), "1000.00")

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, nil, 10).Return([]domain.Account{*broken, *healthy}, nil)

	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, broken.ID).Return(nil, errors.New("lock timeout"))
	var sysErr *domain.OutboxEvent
	d.outbox.EXPECT().Enqueue(gomock.Any(), d.tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, e *domain.OutboxEvent) error {
			sysErr = e
			return nil
		})

	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, healthy.ID).Return(healthy, nil)
	d.runs.EXPECT().Advance(ctx, d.tx, testRunDate, healthy.ID, true).Return(true, nil)
	d.accounts.EXPECT().Save(ctx, d.tx, healthy).Return(nil)
	d.ledger.EXPECT().Append(ctx, d.tx, gomock.Any()).Return(nil)
	d.outbox.EXPECT().Enqueue(ctx, d.tx, gomock.Any()).Return(nil)

	d.runs.EXPECT().Complete(ctx, testRunDate, fixedNow).Return(nil)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NotNil(t, sysErr)
	assert.Equal(t, "system.errors", sysErr.Topic)
	assert.Equal(t, domain.AggregateError, sysErr.AggregateType)
	eventType, data := decodeEnvelope(t, sysErr)
	assert.Equal(t, "SYSTEM_ERROR", eventType)
	assert.Equal(t, "InterestService", data["service"])
	assert.Equal(t, "applyDailyInterest", data["operation"])
	assert.Equal(t, "Failed to apply interest to account "+broken.ID.String(), data["message"])
	assert.Contains(t, data["error"], "lock timeout")
}

func TestInterestService_NegativeRate(t *testing.T) {
	d := setupInterestService(t, 10)

	_, err := d.svc.ApplyDailyInterest(context.Background(), decimal.RequireFromString("-0.01"))
	assertAppError(t, err, "VAL_001")
}

func TestInterestService_CancelledMidRun(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, nil, 10).Return([]domain.Account{*activeAccount(uuid.New(), "5.00")}, nil)

	_, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterestService_CancelledWhileCrediting(t *testing.T) {
	d := setupInterestService(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	account := activeAccount(uuid.New(), "1000.00")

	d.runs.EXPECT().GetOrCreate(ctx, testRunDate).Return(&domain.InterestRun{RunDate: testRunDate}, nil)
	d.accounts.EXPECT().ListInterestCandidates(ctx, nil, 10).Return([]domain.Account{*account}, nil)
	d.accounts.EXPECT().GetByIDForUpdate(ctx, d.tx, account.ID).DoAndReturn(
		func(ctx context.Context, _ pgx.Tx, _ uuid.UUID) (*domain.Account, error) {
			cancel()
			return nil, ctx.Err()
		})
	// No SYSTEM_ERROR is staged and the run is left open for the next tick.
	d.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	d.runs.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	n, err := d.svc.ApplyDailyInterest(ctx, fivePercent)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}
