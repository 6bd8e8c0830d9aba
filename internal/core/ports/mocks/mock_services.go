// Mocks for the interfaces in services.go, in mockgen's source-mode layout.
// Regenerate with `go generate ./internal/core/ports/...` after changing
// the interfaces.

package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	domain "banking-core/internal/core/domain"
	ports "banking-core/internal/core/ports"
	uuid "github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"
)

// MockAccountService is a mock of AccountService interface.
type MockAccountService struct {
	ctrl     *gomock.Controller
	recorder *MockAccountServiceMockRecorder
	isgomock struct{}
}

// MockAccountServiceMockRecorder is the mock recorder for MockAccountService.
type MockAccountServiceMockRecorder struct {
	mock *MockAccountService
}

// NewMockAccountService creates a new mock instance.
func NewMockAccountService(ctrl *gomock.Controller) *MockAccountService {
	mock := &MockAccountService{ctrl: ctrl}
	mock.recorder = &MockAccountServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountService) EXPECT() *MockAccountServiceMockRecorder {
	return m.recorder
}

// Balance mocks base method.
func (m *MockAccountService) Balance(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) (*ports.BalanceView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Balance", ctx, ownerID, accountID)
	ret0, _ := ret[0].(*ports.BalanceView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Balance indicates an expected call of Balance.
func (mr *MockAccountServiceMockRecorder) Balance(ctx, ownerID, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Balance", reflect.TypeOf((*MockAccountService)(nil).Balance), ctx, ownerID, accountID)
}

// Close mocks base method.
func (m *MockAccountService) Close(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close", ctx, ownerID, accountID)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Close indicates an expected call of Close.
func (mr *MockAccountServiceMockRecorder) Close(ctx, ownerID, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockAccountService)(nil).Close), ctx, ownerID, accountID)
}

// Create mocks base method.
func (m *MockAccountService) Create(ctx context.Context, ownerID uuid.UUID, currency string) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, ownerID, currency)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockAccountServiceMockRecorder) Create(ctx, ownerID, currency any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockAccountService)(nil).Create), ctx, ownerID, currency)
}

// Deposit mocks base method.
func (m *MockAccountService) Deposit(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deposit", ctx, ownerID, accountID, amount)
	ret0, _ := ret[0].(*domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Deposit indicates an expected call of Deposit.
func (mr *MockAccountServiceMockRecorder) Deposit(ctx, ownerID, accountID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deposit", reflect.TypeOf((*MockAccountService)(nil).Deposit), ctx, ownerID, accountID, amount)
}

// Get mocks base method.
func (m *MockAccountService) Get(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, ownerID, accountID)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockAccountServiceMockRecorder) Get(ctx, ownerID, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockAccountService)(nil).Get), ctx, ownerID, accountID)
}

// History mocks base method.
func (m *MockAccountService) History(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "History", ctx, ownerID, accountID, limit)
	ret0, _ := ret[0].([]domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// History indicates an expected call of History.
func (mr *MockAccountServiceMockRecorder) History(ctx, ownerID, accountID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "History", reflect.TypeOf((*MockAccountService)(nil).History), ctx, ownerID, accountID, limit)
}

// List mocks base method.
func (m *MockAccountService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, ownerID)
	ret0, _ := ret[0].([]domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockAccountServiceMockRecorder) List(ctx, ownerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockAccountService)(nil).List), ctx, ownerID)
}

// SetStatus mocks base method.
func (m *MockAccountService) SetStatus(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStatus", ctx, ownerID, accountID, status)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SetStatus indicates an expected call of SetStatus.
func (mr *MockAccountServiceMockRecorder) SetStatus(ctx, ownerID, accountID, status any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStatus", reflect.TypeOf((*MockAccountService)(nil).SetStatus), ctx, ownerID, accountID, status)
}

// Transaction mocks base method.
func (m *MockAccountService) Transaction(ctx context.Context, ownerID uuid.UUID, transactionID uuid.UUID) (*domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transaction", ctx, ownerID, transactionID)
	ret0, _ := ret[0].(*domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Transaction indicates an expected call of Transaction.
func (mr *MockAccountServiceMockRecorder) Transaction(ctx, ownerID, transactionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transaction", reflect.TypeOf((*MockAccountService)(nil).Transaction), ctx, ownerID, transactionID)
}

// Withdraw mocks base method.
func (m *MockAccountService) Withdraw(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Withdraw", ctx, ownerID, accountID, amount)
	ret0, _ := ret[0].(*domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Withdraw indicates an expected call of Withdraw.
func (mr *MockAccountServiceMockRecorder) Withdraw(ctx, ownerID, accountID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Withdraw", reflect.TypeOf((*MockAccountService)(nil).Withdraw), ctx, ownerID, accountID, amount)
}

// MockTransferService is a mock of TransferService interface.
type MockTransferService struct {
	ctrl     *gomock.Controller
	recorder *MockTransferServiceMockRecorder
	isgomock struct{}
}

// MockTransferServiceMockRecorder is the mock recorder for MockTransferService.
type MockTransferServiceMockRecorder struct {
	mock *MockTransferService
}

// NewMockTransferService creates a new mock instance.
func NewMockTransferService(ctrl *gomock.Controller) *MockTransferService {
	mock := &MockTransferService{ctrl: ctrl}
	mock.recorder = &MockTransferServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransferService) EXPECT() *MockTransferServiceMockRecorder {
	return m.recorder
}

// Transfer mocks base method.
func (m *MockTransferService) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.LedgerTransaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transfer", ctx, req)
	ret0, _ := ret[0].(*domain.LedgerTransaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Transfer indicates an expected call of Transfer.
func (mr *MockTransferServiceMockRecorder) Transfer(ctx, req any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transfer", reflect.TypeOf((*MockTransferService)(nil).Transfer), ctx, req)
}

// MockInterestService is a mock of InterestService interface.
type MockInterestService struct {
	ctrl     *gomock.Controller
	recorder *MockInterestServiceMockRecorder
	isgomock struct{}
}

// MockInterestServiceMockRecorder is the mock recorder for MockInterestService.
type MockInterestServiceMockRecorder struct {
	mock *MockInterestService
}

// NewMockInterestService creates a new mock instance.
func NewMockInterestService(ctrl *gomock.Controller) *MockInterestService {
	mock := &MockInterestService{ctrl: ctrl}
	mock.recorder = &MockInterestServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInterestService) EXPECT() *MockInterestServiceMockRecorder {
	return m.recorder
}

// ApplyDailyInterest mocks base method.
func (m *MockInterestService) ApplyDailyInterest(ctx context.Context, annualRate decimal.Decimal) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ApplyDailyInterest", ctx, annualRate)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ApplyDailyInterest indicates an expected call of ApplyDailyInterest.
func (mr *MockInterestServiceMockRecorder) ApplyDailyInterest(ctx, annualRate any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ApplyDailyInterest", reflect.TypeOf((*MockInterestService)(nil).ApplyDailyInterest), ctx, annualRate)
}

// MockOutboxDispatcher is a mock of OutboxDispatcher interface.
type MockOutboxDispatcher struct {
	ctrl     *gomock.Controller
	recorder *MockOutboxDispatcherMockRecorder
	isgomock struct{}
}

// MockOutboxDispatcherMockRecorder is the mock recorder for MockOutboxDispatcher.
type MockOutboxDispatcherMockRecorder struct {
	mock *MockOutboxDispatcher
}

// NewMockOutboxDispatcher creates a new mock instance.
func NewMockOutboxDispatcher(ctrl *gomock.Controller) *MockOutboxDispatcher {
	mock := &MockOutboxDispatcher{ctrl: ctrl}
	mock.recorder = &MockOutboxDispatcherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockOutboxDispatcher) EXPECT() *MockOutboxDispatcherMockRecorder {
	return m.recorder
}

// DispatchPending mocks base method.
func (m *MockOutboxDispatcher) DispatchPending(ctx context.Context) (ports.DispatchResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DispatchPending", ctx)
	ret0, _ := ret[0].(ports.DispatchResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DispatchPending indicates an expected call of DispatchPending.
func (mr *MockOutboxDispatcherMockRecorder) DispatchPending(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DispatchPending", reflect.TypeOf((*MockOutboxDispatcher)(nil).DispatchPending), ctx)
}

// MockRecoverySweeper is a mock of RecoverySweeper interface.
type MockRecoverySweeper struct {
	ctrl     *gomock.Controller
	recorder *MockRecoverySweeperMockRecorder
	isgomock struct{}
}

// MockRecoverySweeperMockRecorder is the mock recorder for MockRecoverySweeper.
type MockRecoverySweeperMockRecorder struct {
	mock *MockRecoverySweeper
}

// NewMockRecoverySweeper creates a new mock instance.
func NewMockRecoverySweeper(ctrl *gomock.Controller) *MockRecoverySweeper {
	mock := &MockRecoverySweeper{ctrl: ctrl}
	mock.recorder = &MockRecoverySweeperMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRecoverySweeper) EXPECT() *MockRecoverySweeperMockRecorder {
	return m.recorder
}

// Archive mocks base method.
func (m *MockRecoverySweeper) Archive(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Archive", ctx, olderThan)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Archive indicates an expected call of Archive.
func (mr *MockRecoverySweeperMockRecorder) Archive(ctx, olderThan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Archive", reflect.TypeOf((*MockRecoverySweeper)(nil).Archive), ctx, olderThan)
}

// RollbackStale mocks base method.
func (m *MockRecoverySweeper) RollbackStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RollbackStale", ctx, olderThan)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RollbackStale indicates an expected call of RollbackStale.
func (mr *MockRecoverySweeperMockRecorder) RollbackStale(ctx, olderThan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RollbackStale", reflect.TypeOf((*MockRecoverySweeper)(nil).RollbackStale), ctx, olderThan)
}
