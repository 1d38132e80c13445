package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"tradescope/internal/model"
)

// passthroughTxManager runs the transactional closure against the caller's
// context so repository mocks see the same ctx the test passed in.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// MockSearchHistoryRepository is a mock implementation of SearchHistoryRepository
type MockSearchHistoryRepository struct {
	mock.Mock
}

func (m *MockSearchHistoryRepository) Upsert(ctx context.Context, entry *model.SearchHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSearchHistoryRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.SearchHistory, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.SearchHistory), args.Get(1).(int64), args.Error(2)
}

func (m *MockSearchHistoryRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockBuyerRepository is a mock implementation of BuyerRepository
type MockBuyerRepository struct {
	mock.Mock
}

func (m *MockBuyerRepository) Create(ctx context.Context, buyer *model.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) Update(ctx context.Context, buyer *model.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) List(ctx context.Context, stage, search string, page, limit int) ([]model.Buyer, int64, error) {
	args := m.Called(ctx, stage, search, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Buyer), args.Get(1).(int64), args.Error(2)
}

func (m *MockBuyerRepository) CountByStage(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockBuyerRepository) CreateContact(ctx context.Context, contact *model.BuyerContact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

// MockCreditRepository is a mock implementation of CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) CreateEntry(ctx context.Context, entry *model.CreditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCreditRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.CreditEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditEntry), args.Error(1)
}

func (m *MockCreditRepository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCreditRepository) ListEntries(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.CreditEntry, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.CreditEntry), args.Get(1).(int64), args.Error(2)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) Update(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Report, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Report), args.Get(1).(int64), args.Error(2)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, action, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}
