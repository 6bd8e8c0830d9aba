package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"banking-core/internal/core/domain"
	"banking-core/internal/core/ports"
	"banking-core/internal/metrics"
	"banking-core/pkg/apperror"
	"banking-core/pkg/logger"
	"banking-core/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultInterestPageSize = 200

// errAlreadyVisited aborts a per-account unit whose cursor step was taken
// by another run.
var errAlreadyVisited = errors.New("account already visited by this interest run")

// InterestServiceImpl implements ports.InterestService.
//
// Each account is credited in its own atomic unit which also advances the
// persisted run cursor. The batch as a whole is resumable, not atomic.
type InterestServiceImpl struct {
	accounts   ports.AccountRepository
	runs       ports.InterestRunRepository
	transactor ports.DBTransactor
	writer     ledgerWriter
	sysErrors  *SystemErrorRecorder
	pageSize   int
	log        zerolog.Logger
	now        func() time.Time
}

// NewInterestService creates a new InterestServiceImpl.
func NewInterestService(
	accounts ports.AccountRepository,
	ledger ports.LedgerRepository,
	outbox ports.OutboxRepository,
	runs ports.InterestRunRepository,
	transactor ports.DBTransactor,
	events *EventFactory,
	sysErrors *SystemErrorRecorder,
	pageSize int,
	log zerolog.Logger,
) *InterestServiceImpl {
	if pageSize <= 0 {
		pageSize = defaultInterestPageSize
	}
	return &InterestServiceImpl{
		accounts:   accounts,
		runs:       runs,
		transactor: transactor,
		writer:     ledgerWriter{ledger: ledger, outbox: outbox, events: events},
		sysErrors:  sysErrors,
		pageSize:   pageSize,
		log:        logger.Component(log, "interest_service"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ApplyDailyInterest credits one day of interest to every ACTIVE account
// with a positive balance and returns how many accounts this call credited.
// A run already completed for today's business date returns 0.
func (s *InterestServiceImpl) ApplyDailyInterest(ctx context.Context, annualRate decimal.Decimal) (int, error) {
	if annualRate.IsNegative() {
		return 0, apperror.ErrValidation("annual rate must not be negative")
	}
	dailyRate := money.DailyRate(annualRate)
	runDate := domain.BusinessDate(s.now())

	run, err := s.runs.GetOrCreate(ctx, runDate)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("load interest run: %w", err))
	}
	if run.IsCompleted() {
		s.log.Info().Time("run_date", runDate).Int("credited", run.Credited).Msg("interest run already completed")
		return 0, nil
	}
	if run.LastAccountID != nil {
		s.log.Info().Time("run_date", runDate).Str("after", run.LastAccountID.String()).Msg("resuming interest run")
	}

	credited := 0
	after := run.LastAccountID
	for {
		page, err := s.accounts.ListInterestCandidates(ctx, after, s.pageSize)
		if err != nil {
			return credited, apperror.ErrDatabaseError(fmt.Errorf("list interest candidates: %w", err))
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			if err := ctx.Err(); err != nil {
				return credited, err
			}
			ok, err := s.creditAccount(ctx, runDate, page[i].ID, dailyRate)
			if err != nil && ctx.Err() != nil {
				// Cancelled mid-unit: the account was rolled back and the
				// cursor was not advanced, so the next run retries it.
				return credited, ctx.Err()
			}
			if err != nil {
				s.log.Error().Err(err).Str("account_id", page[i].ID.String()).Msg("failed to apply interest")
				s.sysErrors.Record(ctx, "InterestService", "applyDailyInterest",
					fmt.Sprintf("Failed to apply interest to account %s", page[i].ID), err)
				continue
			}
			if ok {
				credited++
			}
		}

		last := page[len(page)-1].ID
		after = &last
		if len(page) < s.pageSize {
			break
		}
	}

	if err := s.runs.Complete(ctx, runDate, s.now()); err != nil {
		return credited, apperror.ErrDatabaseError(fmt.Errorf("complete interest run: %w", err))
	}

	s.log.Info().
		Str("annual_rate", annualRate.String()).
		Time("run_date", runDate).
		Int("credited", credited).
		Msg("daily interest applied")

	return credited, nil
}

// creditAccount re-reads the account under its lock, advances the run
// cursor and credits the interest, all in one unit. It reports whether the
// account was credited.
func (s *InterestServiceImpl) creditAccount(ctx context.Context, runDate time.Time, accountID uuid.UUID, dailyRate decimal.Decimal) (bool, error) {
	var credited bool
	err := s.transactor.WithinTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		account, err := s.accounts.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		var interest decimal.Decimal
		if account != nil && account.IsActive() && account.Balance.IsPositive() {
			interest = money.Interest(account.Balance, dailyRate, domain.MinorUnits(account.Currency))
		}
		apply := interest.IsPositive()

		advanced, err := s.runs.Advance(ctx, tx, runDate, accountID, apply)
		if err != nil {
			return fmt.Errorf("advance interest cursor: %w", err)
		}
		if !advanced {
			return errAlreadyVisited
		}
		if !apply {
			return nil
		}

		now := s.now()
		account.Credit(interest)
		account.UpdatedAt = now
		if err := s.accounts.Save(ctx, tx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		entry := domain.NewInterest(account.ID, interest, now)
		if err := s.writer.record(ctx, tx, domain.EventInterestApplied, account.OwnerID, entry, account.Currency, now); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if errors.Is(err, errAlreadyVisited) {
		return false, nil
	}
	if err != nil {
		metrics.RecordLedgerOperation(string(domain.LedgerTypeInterest), err)
		return false, err
	}
	if credited {
		metrics.RecordLedgerOperation(string(domain.LedgerTypeInterest), nil)
		metrics.RecordInterestCredited()
	}
	return credited, nil
}
