package service

import (
	"context"
	"testing"
	"time"

	"banking-core/config"
	"banking-core/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

var testTopics = config.TopicsConfig{
	Accounts:     "banking.accounts",
	Transactions: "banking.transactions",
	Transfers:    "banking.transfers",
	SystemErrors: "system.errors",
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func assertAppError(t *testing.T, err error, expectedCode string) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
	return appErr
}
