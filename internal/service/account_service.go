package service

import (
	"context"
	"fmt"
	"strings"
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

// maxHistoryLimit caps one History call.
const maxHistoryLimit = 500

// AccountServiceImpl implements ports.AccountService. Every mutation locks
// the account row and writes balance, ledger entry and outbox event in one
// atomic unit.
type AccountServiceImpl struct {
	accounts   ports.AccountRepository
	ledger     ports.LedgerRepository
	transactor ports.DBTransactor
	events     *EventFactory
	writer     ledgerWriter
	log        zerolog.Logger
	now        func() time.Time
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accounts ports.AccountRepository,
	ledger ports.LedgerRepository,
	outbox ports.OutboxRepository,
	transactor ports.DBTransactor,
	events *EventFactory,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accounts:   accounts,
		ledger:     ledger,
		transactor: transactor,
		events:     events,
		writer:     ledgerWriter{ledger: ledger, outbox: outbox, events: events},
		log:        logger.Component(log, "account_service"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create opens an ACTIVE, empty account for owner.
func (s *AccountServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, currency string) (*domain.Account, error) {
	if !domain.IsSupportedCurrency(currency) {
		return nil, apperror.ErrValidation(fmt.Sprintf("currency %q is not supported, use one of %s",
			currency, strings.Join(domain.SupportedCurrencies(), ", ")))
	}

	account := domain.NewAccount(ownerID, currency, s.now())

	err := s.transactor.WithinTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := s.accounts.Create(ctx, tx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		event, err := s.events.Account(domain.EventAccountCreated, account, account.CreatedAt)
		return s.writer.stage(ctx, tx, event, err)
	})
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("owner_id", ownerID.String()).
		Str("currency", currency).
		Msg("bank account created")

	return account, nil
}

// Deposit credits amount to an owned, ACTIVE account.
func (s *AccountServiceImpl) Deposit(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	amount = money.Normalize(amount)

	var entry *domain.LedgerTransaction
	err := s.transactor.WithinTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		account, err := s.lockOwned(ctx, tx, ownerID, accountID)
		if err != nil {
			return err
		}
		if err := ensureOperable(account, "Deposit"); err != nil {
			return err
		}

		now := s.now()
		account.Credit(amount)
		account.UpdatedAt = now
		if err := s.accounts.Save(ctx, tx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}

		entry = domain.NewDeposit(account.ID, amount, now)
		return s.writer.record(ctx, tx, domain.EventDepositCompleted, ownerID, entry, account.Currency, now)
	})
	metrics.RecordLedgerOperation(string(domain.LedgerTypeDeposit), err)
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("account_id", accountID.String()).
		Str("owner_id", ownerID.String()).
		Str("amount", money.String(amount)).
		Msg("deposit completed")

	return entry, nil
}

// Withdraw debits amount from an owned, ACTIVE account with enough funds.
func (s *AccountServiceImpl) Withdraw(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	amount = money.Normalize(amount)

	var entry *domain.LedgerTransaction
	err := s.transactor.WithinTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		account, err := s.lockOwned(ctx, tx, ownerID, accountID)
		if err != nil {
			return err
		}
		if err := ensureOperable(account, "Withdraw"); err != nil {
			return err
		}
		if !account.CanDebit(amount) {
			return apperror.ErrInsufficientFunds()
		}

		now := s.now()
		account.Debit(amount)
		account.UpdatedAt = now
		if err := s.accounts.Save(ctx, tx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}

		entry = domain.NewWithdrawal(account.ID, amount, now)
		return s.writer.record(ctx, tx, domain.EventWithdrawalCompleted, ownerID, entry, account.Currency, now)
	})
	metrics.RecordLedgerOperation(string(domain.LedgerTypeWithdrawal), err)
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("account_id", accountID.String()).
		Str("owner_id", ownerID.String()).
		Str("amount", money.String(amount)).
		Msg("withdrawal completed")

	return entry, nil
}

// SetStatus moves an owned account to status. CLOSED accounts are final.
func (s *AccountServiceImpl) SetStatus(ctx context.Context, ownerID, accountID uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	if _, ok := domain.ParseAccountStatus(string(status)); !ok {
		return nil, apperror.ErrValidation(fmt.Sprintf("status %q is not supported", status))
	}

	account, err := s.changeStatus(ctx, ownerID, accountID, status, domain.EventAccountStatusChanged, "Account is closed")
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", accountID.String()).
		Str("owner_id", ownerID.String()).
		Str("status", string(status)).
		Msg("bank account status changed")

	return account, nil
}

// Close closes an owned account.
func (s *AccountServiceImpl) Close(ctx context.Context, ownerID, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.changeStatus(ctx, ownerID, accountID, domain.AccountStatusClosed, domain.EventAccountClosed, "Account is already closed")
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", accountID.String()).
		Str("owner_id", ownerID.String()).
		Msg("bank account closed")

	return account, nil
}

func (s *AccountServiceImpl) changeStatus(
	ctx context.Context,
	ownerID, accountID uuid.UUID,
	status domain.AccountStatus,
	eventType domain.EventType,
	closedMessage string,
) (*domain.Account, error) {
	var account *domain.Account
	err := s.transactor.WithinTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		account, err = s.lockOwned(ctx, tx, ownerID, accountID)
		if err != nil {
			return err
		}
		if account.IsClosed() {
			return apperror.ErrBusinessRule(closedMessage)
		}

		now := s.now()
		account.Status = status
		account.UpdatedAt = now
		if err := s.accounts.Save(ctx, tx, account); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		event, err := s.events.Account(eventType, account, now)
		return s.writer.stage(ctx, tx, event, err)
	})
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

// Get returns an owned account without locking it.
func (s *AccountServiceImpl) Get(ctx context.Context, ownerID, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get account: %w", err))
	}
	if account == nil || !account.BelongsTo(ownerID) {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// List returns every account of owner, oldest first.
func (s *AccountServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

func (s *AccountServiceImpl) Balance(ctx context.Context, ownerID, accountID uuid.UUID) (*ports.BalanceView, error) {
	account, err := s.Get(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	return &ports.BalanceView{
		AccountID: account.ID,
		Balance:   account.Balance,
		Currency:  account.Currency,
	}, nil
}

// History returns the newest ledger entries touching an account of owner.
func (s *AccountServiceImpl) History(ctx context.Context, ownerID, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		return nil, apperror.ErrValidation(fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
	}
	if _, err := s.Get(ctx, ownerID, accountID); err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list ledger entries: %w", err))
	}
	return entries, nil
}

// Transaction looks up one ledger entry. Entries that touch no account of
// owner are reported as not found.
func (s *AccountServiceImpl) Transaction(ctx context.Context, ownerID, transactionID uuid.UUID) (*domain.LedgerTransaction, error) {
	entry, err := s.ledger.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get ledger entry: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}

	for _, id := range []*uuid.UUID{entry.FromAccountID, entry.ToAccountID} {
		if id == nil {
			continue
		}
		account, err := s.accounts.GetByID(ctx, *id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("get account: %w", err))
		}
		if account != nil && account.BelongsTo(ownerID) {
			return entry, nil
		}
	}
	return nil, apperror.ErrNotFound("Transaction")
}

// lockOwned locks the account and hides accounts of other owners as not found.
func (s *AccountServiceImpl) lockOwned(ctx context.Context, tx pgx.Tx, ownerID, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	if account == nil || !account.BelongsTo(ownerID) {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// ensureOperable rejects balance mutations on CLOSED and BLOCKED accounts.
func ensureOperable(a *domain.Account, operation string) error {
	switch a.Status {
	case domain.AccountStatusClosed:
		return apperror.ErrBusinessRule(operation + " failed: Account is closed")
	case domain.AccountStatusBlocked:
		return apperror.ErrBusinessRule(operation + " failed: Account is blocked")
	}
	return nil
}

// validateAmount collects every violation of the amount rules.
func validateAmount(amount decimal.Decimal) error {
	if details := amountViolations(amount); len(details) > 0 {
		return apperror.ErrValidation(details...)
	}
	return nil
}

func amountViolations(amount decimal.Decimal) []string {
	var details []string
	if !money.IsPositive(amount) {
		details = append(details, "amount must be greater than zero")
	}
	if !money.HasValidScale(amount) {
		details = append(details, fmt.Sprintf("amount must have at most %d decimal places", money.Scale))
	}
	return details
}
