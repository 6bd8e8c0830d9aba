package dto

import (
	"time"

	"banking-core/internal/core/domain"
)

// FailedEventsQuery is the query string of GET /ops/outbox/failed.
type FailedEventsQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=500"`
}

const DefaultFailedEventsLimit = 50

// EffectiveLimit returns Limit or the default when it was omitted.
func (q FailedEventsQuery) EffectiveLimit() int {
	if q.Limit == nil {
		return DefaultFailedEventsLimit
	}
	return *q.Limit
}

// FailedEventResponse describes a FAILED outbox event for manual remediation.
type FailedEventResponse struct {
	ID            int64     `json:"id"`
	Topic         string    `json:"topic"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	RetryCount    int       `json:"retry_count"`
	ErrorReason   string    `json:"error_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewFailedEventResponse(e domain.OutboxEvent) FailedEventResponse {
	resp := FailedEventResponse{
		ID:            e.ID,
		Topic:         e.Topic,
		AggregateType: string(e.AggregateType),
		AggregateID:   e.AggregateID.String(),
		RetryCount:    e.RetryCount,
		CreatedAt:     e.CreatedAt,
	}
	if e.ErrorReason != nil {
		resp.ErrorReason = *e.ErrorReason
	}
	return resp
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
