package domain

import (
	"time"

	"github.com/google/uuid"
)

// InterestRun is the persisted cursor of one day's interest batch.
type InterestRun struct {
	RunDate       time.Time  `json:"run_date"`
	LastAccountID *uuid.UUID `json:"last_account_id,omitempty"`
	Credited      int        `json:"credited"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// IsCompleted returns true once every eligible account has been visited.
func (r *InterestRun) IsCompleted() bool {
	return r.CompletedAt != nil
}

// BusinessDate truncates t to its UTC calendar day.
func BusinessDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
