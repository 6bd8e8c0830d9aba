// Mocks for the interfaces in repositories.go, in mockgen's source-mode layout.
// Regenerate with `go generate ./internal/core/ports/...` after changing
// the interfaces.

package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	domain "banking-core/internal/core/domain"
	uuid "github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	gomock "go.uber.org/mock/gomock"
)

// MockAccountRepository is a mock of AccountRepository interface.
type MockAccountRepository struct {
	ctrl     *gomock.Controller
	recorder *MockAccountRepositoryMockRecorder
	isgomock struct{}
}

// MockAccountRepositoryMockRecorder is the mock recorder for MockAccountRepository.
type MockAccountRepositoryMockRecorder struct {
	mock *MockAccountRepository
}

// NewMockAccountRepository creates a new mock instance.
func NewMockAccountRepository(ctrl *gomock.Controller) *MockAccountRepository {
	mock := &MockAccountRepository{ctrl: ctrl}
	mock.recorder = &MockAccountRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountRepository) EXPECT() *MockAccountRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockAccountRepository) Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, account)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockAccountRepositoryMockRecorder) Create(ctx, tx, account any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockAccountRepository)(nil).Create), ctx, tx, account)
}

// GetByID mocks base method.
func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockAccountRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockAccountRepository)(nil).GetByID), ctx, id)
}

// GetByIDForUpdate mocks base method.
func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIDForUpdate", ctx, tx, id)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByIDForUpdate indicates an expected call of GetByIDForUpdate.
func (mr *MockAccountRepositoryMockRecorder) GetByIDForUpdate(ctx, tx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIDForUpdate", reflect.TypeOf((*MockAccountRepository)(nil).GetByIDForUpdate), ctx, tx, id)
}

// ListByOwner mocks base method.
func (m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByOwner", ctx, ownerID)
	ret0, _ := ret[0].([]domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByOwner indicates an expected call of ListByOwner.
func (mr *MockAccountRepositoryMockRecorder) ListByOwner(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByOwner", reflect.TypeOf((*MockAccountRepository)(nil).ListByOwner), ctx, ownerID)
}

// Save mocks base method.
func (m *MockAccountRepository) Save(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Save", ctx, tx, account)
	ret0, _ := ret[0].(error)
	return ret0
}

// Save indicates an expected call of Save.
func (mr *MockAccountRepositoryMockRecorder) Save(ctx, tx, account any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Save", reflect.TypeOf((*MockAccountRepository)(nil).Save), ctx, tx, account)
}

// ListInterestCandidates mocks base method.
func (m *MockAccountRepository) ListInterestCandidates(ctx context.Context, after *uuid.UUID, limit int) ([]domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListInterestCandidates", ctx, after, limit)
	ret0, _ := ret[0].([]domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListInterestCandidates indicates an expected call of ListInterestCandidates.
func (mr *MockAccountRepositoryMockRecorder) ListInterestCandidates(ctx, after, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListInterestCandidates", reflect.TypeOf((*MockAccountRepository)(nil).ListInterestCandidates), ctx, after, limit)
}

// MockLedgerRepository is a mock of LedgerRepository interface.
type MockLedgerRepository struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerRepositoryMockRecorder
	isgomock struct{}
}

// MockLedgerRepositoryMockRecorder is the mock recorder for MockLedgerRepository.
type MockLedgerRepositoryMockRecorder struct {
	mock *MockLedgerRepository
}

// NewMockLedgerRepository creates a new mock instance.
func NewMockLedgerRepository(ctrl *gomock.Controller) *MockLedgerRepository {
	mock := &MockLedgerRepository{ctrl: ctrl}
	mock.recorder = &MockLedgerRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedgerRepository) EXPECT() *MockLedgerRepositoryMockRecorder {
	return m.recorder
}

// Append mocks base method.
func (m *MockLedgerRepository) Append(ctx context.Context, tx pgx.Tx, entry *domain.LedgerTransaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Append", ctx, tx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// Append indicates an expected call of Append.
func (mr *MockLedgerRepositoryMockRecorder) Append(ctx, tx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Append", reflect.TypeOf((*MockLedgerRepository)(nil).Append), ctx, tx, entry)
}

// GetByID mocks base method.
func (m *MockLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockLedgerRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockLedgerRepository)(nil).GetByID), ctx, id)
}

// ListByAccount mocks base method.
func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByAccount", ctx, accountID, limit)
	ret0, _ := ret[0].([]domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByAccount indicates an expected call of ListByAccount.
func (mr *MockLedgerRepositoryMockRecorder) ListByAccount(ctx, accountID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByAccount", reflect.TypeOf((*MockLedgerRepository)(nil).ListByAccount), ctx, accountID, limit)
}

// MockOutboxRepository is a mock of OutboxRepository interface.
type MockOutboxRepository struct {
	ctrl     *gomock.Controller
	recorder *MockOutboxRepositoryMockRecorder
	isgomock struct{}
}

// MockOutboxRepositoryMockRecorder is the mock recorder for MockOutboxRepository.
type MockOutboxRepositoryMockRecorder struct {
	mock *MockOutboxRepository
}

// NewMockOutboxRepository creates a new mock instance.
func NewMockOutboxRepository(ctrl *gomock.Controller) *MockOutboxRepository {
	mock := &MockOutboxRepository{ctrl: ctrl}
	mock.recorder = &MockOutboxRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockOutboxRepository) EXPECT() *MockOutboxRepositoryMockRecorder {
	return m.recorder
}

// Enqueue mocks base method.
func (m *MockOutboxRepository) Enqueue(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Enqueue", ctx, tx, event)
	ret0, _ := ret[0].(error)
	return ret0
}

// Enqueue indicates an expected call of Enqueue.
func (mr *MockOutboxRepositoryMockRecorder) Enqueue(ctx, tx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enqueue", reflect.TypeOf((*MockOutboxRepository)(nil).Enqueue), ctx, tx, event)
}

// ListPending mocks base method.
func (m *MockOutboxRepository) ListPending(ctx context.Context, maxRetries int, limit int) ([]domain.OutboxEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListPending", ctx, maxRetries, limit)
	ret0, _ := ret[0].([]domain.OutboxEvent)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListPending indicates an expected call of ListPending.
func (mr *MockOutboxRepositoryMockRecorder) ListPending(ctx, maxRetries, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListPending", reflect.TypeOf((*MockOutboxRepository)(nil).ListPending), ctx, maxRetries, limit)
}

// Claim mocks base method.
func (m *MockOutboxRepository) Claim(ctx context.Context, id int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Claim", ctx, id)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Claim indicates an expected call of Claim.
func (mr *MockOutboxRepositoryMockRecorder) Claim(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Claim", reflect.TypeOf((*MockOutboxRepository)(nil).Claim), ctx, id)
}

// MarkSent mocks base method.
func (m *MockOutboxRepository) MarkSent(ctx context.Context, id int64, processedAt time.Time) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkSent", ctx, id, processedAt)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MarkSent indicates an expected call of MarkSent.
func (mr *MockOutboxRepositoryMockRecorder) MarkSent(ctx, id, processedAt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkSent", reflect.TypeOf((*MockOutboxRepository)(nil).MarkSent), ctx, id, processedAt)
}

// MarkFailedAttempt mocks base method.
func (m *MockOutboxRepository) MarkFailedAttempt(ctx context.Context, id int64, reason string, maxRetries int) (*domain.FailureOutcome, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkFailedAttempt", ctx, id, reason, maxRetries)
	ret0, _ := ret[0].(*domain.FailureOutcome)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MarkFailedAttempt indicates an expected call of MarkFailedAttempt.
func (mr *MockOutboxRepositoryMockRecorder) MarkFailedAttempt(ctx, id, reason, maxRetries any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkFailedAttempt", reflect.TypeOf((*MockOutboxRepository)(nil).MarkFailedAttempt), ctx, id, reason, maxRetries)
}

// Release mocks base method.
func (m *MockOutboxRepository) Release(ctx context.Context, id int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Release", ctx, id)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Release indicates an expected call of Release.
func (mr *MockOutboxRepositoryMockRecorder) Release(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Release", reflect.TypeOf((*MockOutboxRepository)(nil).Release), ctx, id)
}

// ResetStale mocks base method.
func (m *MockOutboxRepository) ResetStale(ctx context.Context, createdBefore time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResetStale", ctx, createdBefore)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ResetStale indicates an expected call of ResetStale.
func (mr *MockOutboxRepositoryMockRecorder) ResetStale(ctx, createdBefore any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResetStale", reflect.TypeOf((*MockOutboxRepository)(nil).ResetStale), ctx, createdBefore)
}

// DeleteSentBefore mocks base method.
func (m *MockOutboxRepository) DeleteSentBefore(ctx context.Context, createdBefore time.Time) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteSentBefore", ctx, createdBefore)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteSentBefore indicates an expected call of DeleteSentBefore.
func (mr *MockOutboxRepositoryMockRecorder) DeleteSentBefore(ctx, createdBefore any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteSentBefore", reflect.TypeOf((*MockOutboxRepository)(nil).DeleteSentBefore), ctx, createdBefore)
}

// ListFailed mocks base method.
func (m *MockOutboxRepository) ListFailed(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListFailed", ctx, limit)
	ret0, _ := ret[0].([]domain.OutboxEvent)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListFailed indicates an expected call of ListFailed.
func (mr *MockOutboxRepositoryMockRecorder) ListFailed(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListFailed", reflect.TypeOf((*MockOutboxRepository)(nil).ListFailed), ctx, limit)
}

// MockInterestRunRepository is a mock of InterestRunRepository interface.
type MockInterestRunRepository struct {
	ctrl     *gomock.Controller
	recorder *MockInterestRunRepositoryMockRecorder
	isgomock struct{}
}

// MockInterestRunRepositoryMockRecorder is the mock recorder for MockInterestRunRepository.
type MockInterestRunRepositoryMockRecorder struct {
	mock *MockInterestRunRepository
}

// NewMockInterestRunRepository creates a new mock instance.
func NewMockInterestRunRepository(ctrl *gomock.Controller) *MockInterestRunRepository {
	mock := &MockInterestRunRepository{ctrl: ctrl}
	mock.recorder = &MockInterestRunRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInterestRunRepository) EXPECT() *MockInterestRunRepositoryMockRecorder {
	return m.recorder
}

// GetOrCreate mocks base method.
func (m *MockInterestRunRepository) GetOrCreate(ctx context.Context, runDate time.Time) (*domain.InterestRun, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreate", ctx, runDate)
	ret0, _ := ret[0].(*domain.InterestRun)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreate indicates an expected call of GetOrCreate.
func (mr *MockInterestRunRepositoryMockRecorder) GetOrCreate(ctx, runDate any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreate", reflect.TypeOf((*MockInterestRunRepository)(nil).GetOrCreate), ctx, runDate)
}

// Advance mocks base method.
func (m *MockInterestRunRepository) Advance(ctx context.Context, tx pgx.Tx, runDate time.Time, accountID uuid.UUID, credited bool) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Advance", ctx, tx, runDate, accountID, credited)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Advance indicates an expected call of Advance.
func (mr *MockInterestRunRepositoryMockRecorder) Advance(ctx, tx, runDate, accountID, credited any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Advance", reflect.TypeOf((*MockInterestRunRepository)(nil).Advance), ctx, tx, runDate, accountID, credited)
}

// Complete mocks base method.
func (m *MockInterestRunRepository) Complete(ctx context.Context, runDate time.Time, completedAt time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Complete", ctx, runDate, completedAt)
	ret0, _ := ret[0].(error)
	return ret0
}

// Complete indicates an expected call of Complete.
func (mr *MockInterestRunRepositoryMockRecorder) Complete(ctx, runDate, completedAt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Complete", reflect.TypeOf((*MockInterestRunRepository)(nil).Complete), ctx, runDate, completedAt)
}

// MockDBTransactor is a mock of DBTransactor interface.
type MockDBTransactor struct {
	ctrl     *gomock.Controller
	recorder *MockDBTransactorMockRecorder
	isgomock struct{}
}

// MockDBTransactorMockRecorder is the mock recorder for MockDBTransactor.
type MockDBTransactorMockRecorder struct {
	mock *MockDBTransactor
}

// NewMockDBTransactor creates a new mock instance.
func NewMockDBTransactor(ctrl *gomock.Controller) *MockDBTransactor {
	mock := &MockDBTransactor{ctrl: ctrl}
	mock.recorder = &MockDBTransactorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockDBTransactor) EXPECT() *MockDBTransactorMockRecorder {
	return m.recorder
}

// WithinTx mocks base method.
func (m *MockDBTransactor) WithinTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithinTx", ctx, opts, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

// WithinTx indicates an expected call of WithinTx.
func (mr *MockDBTransactorMockRecorder) WithinTx(ctx, opts, fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithinTx", reflect.TypeOf((*MockDBTransactor)(nil).WithinTx), ctx, opts, fn)
}
