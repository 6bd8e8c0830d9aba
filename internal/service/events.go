package service

import (
	"encoding/json"
	"fmt"
	"time"

	"banking-core/config"
	"banking-core/internal/core/domain"
	"banking-core/pkg/money"

	"github.com/google/uuid"
)

// EventFactory builds the outbox rows staged next to each mutation.
type EventFactory struct {
	topics config.TopicsConfig
}

// NewEventFactory creates an EventFactory publishing to the given topics.
func NewEventFactory(topics config.TopicsConfig) *EventFactory {
	return &EventFactory{topics: topics}
}

// Account builds an ACCOUNT_* event on the accounts topic.
func (f *EventFactory) Account(eventType domain.EventType, a *domain.Account, at time.Time) (*domain.OutboxEvent, error) {
	data := domain.AccountEventData{
		AccountID:     a.ID,
		UserID:        a.OwnerID,
		AccountNumber: a.AccountNumber,
		Currency:      a.Currency,
		Status:        a.Status,
		Balance:       money.String(a.Balance),
		OccurredAt:    at,
	}
	return newOutboxEvent(domain.AggregateAccount, a.ID, f.topics.Accounts, eventType, data, at)
}

// Transaction builds a single-account movement event (deposit, withdrawal,
// interest) on the transactions topic.
func (f *EventFactory) Transaction(eventType domain.EventType, ownerID uuid.UUID, t *domain.LedgerTransaction, currency string, at time.Time) (*domain.OutboxEvent, error) {
	data := domain.TransactionEventData{
		TransactionID: t.ID,
		UserID:        ownerID,
		Type:          t.Type,
		Status:        t.Status,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        money.String(t.Amount),
		Currency:      currency,
		OccurredAt:    at,
	}
	return newOutboxEvent(domain.AggregateTransaction, t.ID, f.topics.Transactions, eventType, data, at)
}

// Transfer builds TRANSFER_COMPLETED on the transfers topic.
func (f *EventFactory) Transfer(ownerID uuid.UUID, t *domain.LedgerTransaction, currency string, at time.Time) (*domain.OutboxEvent, error) {
	if t.FromAccountID == nil || t.ToAccountID == nil {
		return nil, fmt.Errorf("transfer %s without both accounts", t.ID)
	}
	data := domain.TransferEventData{
		TransactionID: t.ID,
		UserID:        ownerID,
		FromAccountID: *t.FromAccountID,
		ToAccountID:   *t.ToAccountID,
		Amount:        money.String(t.Amount),
		Currency:      currency,
		OccurredAt:    at,
	}
	return newOutboxEvent(domain.AggregateTransaction, t.ID, f.topics.Transfers, domain.EventTransferCompleted, data, at)
}

// SystemError builds SYSTEM_ERROR on the system errors topic.
func (f *EventFactory) SystemError(service, operation, message string, cause error, at time.Time) (*domain.OutboxEvent, error) {
	data := domain.SystemErrorData{
		ErrorID:    uuid.New(),
		Service:    service,
		Operation:  operation,
		Message:    message,
		OccurredAt: at,
	}
	if cause != nil {
		data.Error = cause.Error()
	}
	return newOutboxEvent(domain.AggregateError, data.ErrorID, f.topics.SystemErrors, domain.EventSystemError, data, at)
}

func newOutboxEvent(aggType domain.AggregateType, aggID uuid.UUID, topic string, eventType domain.EventType, data any, at time.Time) (*domain.OutboxEvent, error) {
	payload, err := json.Marshal(domain.Envelope{EventType: eventType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("serialize %s payload: %w", eventType, err)
	}
	return &domain.OutboxEvent{
		AggregateType: aggType,
		AggregateID:   aggID,
		Topic:         topic,
		Payload:       payload,
		Status:        domain.OutboxStatusPending,
		CreatedAt:     at,
	}, nil
}
