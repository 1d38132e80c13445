package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradescope/internal/model"
	"tradescope/internal/search"
)

// stubGenerator fakes the AI gateway with canned output per call.
type stubGenerator struct {
	content string
	err     error
	prompts []string
}

func (g *stubGenerator) GenerateReport(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.content, nil
}

func (g *stubGenerator) Model() string { return "test-model" }

// stubCreditService counts debits so tests can assert the fee is charged
// exactly once per (user, query).
type stubCreditService struct {
	CreditService
	debits   map[string]int
	debitErr error
}

func newStubCreditService() *stubCreditService {
	return &stubCreditService{debits: make(map[string]int)}
}

func (s *stubCreditService) Debit(_ context.Context, userID uuid.UUID, amount decimal.Decimal, reason, description, idempotencyKey string) (*model.CreditEntry, error) {
	if s.debitErr != nil {
		return nil, s.debitErr
	}
	s.debits[idempotencyKey]++
	key := idempotencyKey
	return &model.CreditEntry{
		UserID:         userID,
		Amount:         amount.Neg(),
		Reason:         reason,
		Description:    description,
		IdempotencyKey: &key,
	}, nil
}

func newTestReportService(store *search.Store, reportRepo *MockReportRepository, auditRepo *MockAuditRepository, credits CreditService, gen ReportGenerator) ReportService {
	return NewReportService(store, reportRepo, auditRepo, credits, gen, decimal.NewFromInt(10))
}

func TestGenerateReportHappyPath(t *testing.T) {
	reportRepo := new(MockReportRepository)
	auditRepo := new(MockAuditRepository)
	credits := newStubCreditService()
	gen := &stubGenerator{content: "Cotton imports are concentrated in two buyers."}
	svc := newTestReportService(fixtureStore(), reportRepo, auditRepo, credits, gen)
	userID := uuid.New()

	reportRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil)
	reportRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	resp, err := svc.Generate(context.Background(), userID, GenerateReportRequest{
		Search: SearchRequest{Category: "product", Keyword: "cotton"},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.ReportStatusCompleted, resp.Status)
	assert.Equal(t, gen.content, resp.Content)
	assert.Equal(t, "test-model", resp.Model)
	assert.True(t, resp.CreditsCharged.Equal(decimal.NewFromInt(10)))
	assert.True(t, strings.HasPrefix(resp.QueryFingerprint, "qh_"))

	// The prompt carries the matched shipments.
	assert.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Raw cotton")

	idemKey := fmt.Sprintf("report_%s_%s", userID, resp.QueryFingerprint)
	assert.Equal(t, 1, credits.debits[idemKey])
}

func TestGenerateReportRejectsEmptyResultSet(t *testing.T) {
	reportRepo := new(MockReportRepository)
	auditRepo := new(MockAuditRepository)
	credits := newStubCreditService()
	svc := newTestReportService(fixtureStore(), reportRepo, auditRepo, credits, &stubGenerator{})

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateReportRequest{
		Search: SearchRequest{Category: "product", Keyword: "uranium"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no trade records match")
	assert.Empty(t, credits.debits)
	reportRepo.AssertNotCalled(t, "Create")
}

func TestGenerateReportInsufficientCredits(t *testing.T) {
	reportRepo := new(MockReportRepository)
	auditRepo := new(MockAuditRepository)
	credits := newStubCreditService()
	credits.debitErr = ErrInsufficientCredits
	svc := newTestReportService(fixtureStore(), reportRepo, auditRepo, credits, &stubGenerator{})

	_, err := svc.Generate(context.Background(), uuid.New(), GenerateReportRequest{
		Search: SearchRequest{Category: "product", Keyword: "cotton"},
	})
	assert.True(t, errors.Is(err, ErrInsufficientCredits))
	reportRepo.AssertNotCalled(t, "Create")
}

func TestGenerateReportGatewayFailureMarksFailed(t *testing.T) {
	reportRepo := new(MockReportRepository)
	auditRepo := new(MockAuditRepository)
	credits := newStubCreditService()
	gen := &stubGenerator{err: errors.New("upstream timeout")}
	svc := newTestReportService(fixtureStore(), reportRepo, auditRepo, credits, gen)
	userID := uuid.New()

	reportRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil)

	var failed *model.Report
	reportRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Report")).
		Run(func(args mock.Arguments) { failed = args.Get(1).(*model.Report) }).
		Return(nil)

	_, err := svc.Generate(context.Background(), userID, GenerateReportRequest{
		Search: SearchRequest{Category: "product", Keyword: "cotton"},
	})
	assert.Error(t, err)
	assert.Equal(t, model.ReportStatusFailed, failed.Status)
	assert.Contains(t, failed.FailureReason, "upstream timeout")

	// A retry of the same query reuses the ledger entry instead of charging twice.
	gen.err = nil
	gen.content = "second attempt"
	auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	resp, err := svc.Generate(context.Background(), userID, GenerateReportRequest{
		Search: SearchRequest{Category: "product", Keyword: "cotton"},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.ReportStatusCompleted, resp.Status)

	// Both attempts present the same idempotency key to the credit layer.
	idemKey := fmt.Sprintf("report_%s_%s", userID, resp.QueryFingerprint)
	assert.Equal(t, 2, credits.debits[idemKey])
	assert.Len(t, credits.debits, 1)
}

func TestGetReportEnforcesOwnership(t *testing.T) {
	reportRepo := new(MockReportRepository)
	auditRepo := new(MockAuditRepository)
	svc := newTestReportService(fixtureStore(), reportRepo, auditRepo, newStubCreditService(), &stubGenerator{})

	owner := uuid.New()
	reportID := uuid.New()
	reportRepo.On("FindByID", mock.Anything, reportID).Return(&model.Report{
		ID:     reportID,
		UserID: owner,
		Status: model.ReportStatusCompleted,
	}, nil)

	_, err := svc.GetReport(context.Background(), owner, reportID.String())
	assert.NoError(t, err)

	_, err = svc.GetReport(context.Background(), uuid.New(), reportID.String())
	assert.Error(t, err)
}
