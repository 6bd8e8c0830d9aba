package service

import (
	"context"
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

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	accounts   ports.AccountRepository
	transactor ports.DBTransactor
	validator  *TransferValidator
	events     *EventFactory
	writer     ledgerWriter
	log        zerolog.Logger
	now        func() time.Time
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	accounts ports.AccountRepository,
	ledger ports.LedgerRepository,
	outbox ports.OutboxRepository,
	transactor ports.DBTransactor,
	validator *TransferValidator,
	events *EventFactory,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		accounts:   accounts,
		transactor: transactor,
		validator:  validator,
		events:     events,
		writer:     ledgerWriter{ledger: ledger, outbox: outbox, events: events},
		log:        logger.Component(log, "transfer_service"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Transfer moves req.Amount between two accounts of the same currency.
//
// Both rows are locked in ascending order of their canonical string form,
// whichever side is the source, so two transfers over the same pair always
// queue on the same first lock. The unit runs SERIALIZABLE.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.LedgerTransaction, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	amount := money.Normalize(req.Amount)

	var entry *domain.LedgerTransaction
	err := s.transactor.WithinTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		locked, err := s.lockPair(ctx, tx, req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}
		source, dest := locked[req.FromAccountID], locked[req.ToAccountID]

		if err := checkTransfer(req.OwnerID, source, dest, amount); err != nil {
			return err
		}

		now := s.now()
		source.Debit(amount)
		source.UpdatedAt = now
		dest.Credit(amount)
		dest.UpdatedAt = now
		if err := s.accounts.Save(ctx, tx, source); err != nil {
			return fmt.Errorf("save source account: %w", err)
		}
		if err := s.accounts.Save(ctx, tx, dest); err != nil {
			return fmt.Errorf("save destination account: %w", err)
		}

		entry = domain.NewTransfer(source.ID, dest.ID, amount, now)
		if err := s.writer.ledger.Append(ctx, tx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		event, err := s.events.Transfer(req.OwnerID, entry, source.Currency, now)
		return s.writer.stage(ctx, tx, event, err)
	})
	metrics.RecordLedgerOperation(string(domain.LedgerTypeTransfer), err)
	if err != nil {
		return nil, translate(err)
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("from_account_id", req.FromAccountID.String()).
		Str("to_account_id", req.ToAccountID.String()).
		Str("owner_id", req.OwnerID.String()).
		Str("amount", money.String(amount)).
		Msg("transfer completed")

	return entry, nil
}

// lockPair locks both accounts in canonical order. Every missing id is
// reported, not only the first.
func (s *TransferServiceImpl) lockPair(ctx context.Context, tx pgx.Tx, a, b uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	locked := make(map[uuid.UUID]*domain.Account, 2)
	var missing []string

	for _, id := range lockOrder(a, b) {
		account, err := s.accounts.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lock account %s: %w", id, err)
		}
		if account == nil {
			missing = append(missing, fmt.Sprintf("Bank Account %s not found", id))
			continue
		}
		locked[id] = account
	}

	if len(missing) > 0 {
		e := apperror.ErrAccountNotFound()
		e.Details = missing
		return nil, e
	}
	return locked, nil
}

// lockOrder returns the two ids sorted by their canonical string form.
func lockOrder(a, b uuid.UUID) [2]uuid.UUID {
	if a.String() > b.String() {
		return [2]uuid.UUID{b, a}
	}
	return [2]uuid.UUID{a, b}
}

// checkTransfer applies the business rules once both rows are locked.
func checkTransfer(ownerID uuid.UUID, source, dest *domain.Account, amount decimal.Decimal) error {
	if !source.BelongsTo(ownerID) {
		return apperror.ErrBusinessRule("Source Bank Account does not belong to the current user")
	}
	switch source.Status {
	case domain.AccountStatusClosed:
		return apperror.ErrBusinessRule("Source Bank Account is closed")
	case domain.AccountStatusBlocked:
		return apperror.ErrBusinessRule("Source Bank Account is blocked")
	}
	switch dest.Status {
	case domain.AccountStatusClosed:
		return apperror.ErrBusinessRule("Destination Bank Account is closed")
	case domain.AccountStatusBlocked:
		return apperror.ErrBusinessRule("Destination Bank Account is blocked")
	}
	if source.Currency != dest.Currency {
		return apperror.ErrCurrencyMismatch()
	}
	if !source.CanDebit(amount) {
		return apperror.ErrInsufficientFunds()
	}
	return nil
}
