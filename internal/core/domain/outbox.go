package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the dispatch state of a staged event.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusInProgress OutboxStatus = "IN_PROGRESS"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
)

// AggregateType names the entity an event is about.
type AggregateType string

const (
	AggregateAccount     AggregateType = "ACCOUNT"
	AggregateTransaction AggregateType = "TRANSACTION"
	AggregateError       AggregateType = "ERROR"
)

// CanTransitionTo reports whether the dispatch state machine allows s -> next.
func (s OutboxStatus) CanTransitionTo(next OutboxStatus) bool {
	switch s {
	case OutboxStatusPending:
		return next == OutboxStatusInProgress
	case OutboxStatusInProgress:
		return next == OutboxStatusSent || next == OutboxStatusPending || next == OutboxStatusFailed
	}
	return false
}

// IsTerminal returns true for SENT and FAILED.
func (s OutboxStatus) IsTerminal() bool {
	return s == OutboxStatusSent || s == OutboxStatusFailed
}

// OutboxEvent is a notification staged in the same transaction as the
// mutation it describes.
type OutboxEvent struct {
	ID            int64           `json:"id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	Topic         string          `json:"topic"`
	Payload       json.RawMessage `json:"payload"`
	Status        OutboxStatus    `json:"status"`
	RetryCount    int             `json:"retry_count"`
	ErrorReason   *string         `json:"error_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}

// Key is the message key used when publishing.
func (e *OutboxEvent) Key() string {
	return e.AggregateID.String()
}

// FailureOutcome is the state an event lands in after a failed publish.
type FailureOutcome struct {
	Status     OutboxStatus
	RetryCount int
}
