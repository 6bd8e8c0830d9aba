package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the eventType field of the published envelope.
type EventType string

const (
	EventAccountCreated       EventType = "ACCOUNT_CREATED"
	EventAccountStatusChanged EventType = "ACCOUNT_STATUS_CHANGED"
	EventAccountClosed        EventType = "ACCOUNT_CLOSED"
	EventDepositCompleted     EventType = "DEPOSIT_COMPLETED"
	EventWithdrawalCompleted  EventType = "WITHDRAWAL_COMPLETED"
	EventInterestApplied      EventType = "INTEREST_APPLIED"
	EventTransferCompleted    EventType = "TRANSFER_COMPLETED"
	EventSystemError          EventType = "SYSTEM_ERROR"
)

// Envelope is the wire contract toward consumers.
type Envelope struct {
	EventType EventType `json:"eventType"`
	Data      any       `json:"data"`
}

type AccountEventData struct {
	AccountID     uuid.UUID     `json:"accountId"`
	UserID        uuid.UUID     `json:"userId"`
	AccountNumber string        `json:"accountNumber"`
	Currency      string        `json:"currency"`
	Status        AccountStatus `json:"status"`
	Balance       string        `json:"balance"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

type TransactionEventData struct {
	TransactionID uuid.UUID               `json:"transactionId"`
	UserID        uuid.UUID               `json:"userId"`
	Type          LedgerTransactionType   `json:"type"`
	Status        LedgerTransactionStatus `json:"status"`
	FromAccountID *uuid.UUID              `json:"fromAccountId"`
	ToAccountID   *uuid.UUID              `json:"toAccountId"`
	Amount        string                  `json:"amount"`
	Currency      string                  `json:"currency"`
	OccurredAt    time.Time               `json:"occurredAt"`
}

type TransferEventData struct {
	TransactionID uuid.UUID `json:"transactionId"`
	UserID        uuid.UUID `json:"userId"`
	FromAccountID uuid.UUID `json:"fromAccountId"`
	ToAccountID   uuid.UUID `json:"toAccountId"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type SystemErrorData struct {
	ErrorID    uuid.UUID `json:"errorId"`
	Service    string    `json:"service"`
	Operation  string    `json:"operation"`
	Message    string    `json:"message"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
