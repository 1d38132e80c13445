package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tradescope/internal/model"
	"tradescope/internal/repository"
	"tradescope/internal/search"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// promptRecordCap bounds how many matched records are inlined into the
// completion prompt.
const promptRecordCap = 50

// ReportGenerator is the AI completion gateway the report service calls.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, prompt string) (string, error)
	Model() string
}

// --- DTOs ---

type GenerateReportRequest struct {
	Title  string        `json:"title"`
	Search SearchRequest `json:"search" binding:"required"`
}

type ReportResponse struct {
	ID               string          `json:"id"`
	QueryFingerprint string          `json:"query_fingerprint"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	Model            string          `json:"model"`
	Status           string          `json:"status"`
	CreditsCharged   decimal.Decimal `json:"credits_charged"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// --- Interface ---

type ReportService interface {
	// Generate debits the report fee (idempotent per user and query), calls
	// the AI gateway over the query's matched records, and persists the
	// report. A retry after a gateway failure is not charged again.
	Generate(ctx context.Context, userID uuid.UUID, req GenerateReportRequest) (ReportResponse, error)
	GetReport(ctx context.Context, userID uuid.UUID, id string) (ReportResponse, error)
	GetReports(ctx context.Context, userID uuid.UUID, page, limit int) ([]ReportResponse, int64, error)
}

// --- Implementation ---

type reportService struct {
	store         *search.Store
	reportRepo    repository.ReportRepository
	auditRepo     repository.AuditRepository
	creditService CreditService
	generator     ReportGenerator
	cost          decimal.Decimal
}

func NewReportService(
	store *search.Store,
	reportRepo repository.ReportRepository,
	auditRepo repository.AuditRepository,
	creditService CreditService,
	generator ReportGenerator,
	cost decimal.Decimal,
) ReportService {
	return &reportService{
		store:         store,
		reportRepo:    reportRepo,
		auditRepo:     auditRepo,
		creditService: creditService,
		generator:     generator,
		cost:          cost,
	}
}

func toReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:               r.ID.String(),
		QueryFingerprint: r.QueryFingerprint,
		Title:            r.Title,
		Content:          r.Content,
		Model:            r.Model,
		Status:           r.Status,
		CreditsCharged:   r.CreditsCharged,
		FailureReason:    r.FailureReason,
		CreatedAt:        r.CreatedAt,
	}
}

// buildPrompt renders the matched records into the analyst prompt.
func buildPrompt(q search.Query, records []search.TradeRecord) string {
	var b strings.Builder
	b.WriteString("Market-strategy analysis request.\n")
	fmt.Fprintf(&b, "Search: category=%s keyword=%q", q.Category, q.Keyword)
	if !q.DateFrom.IsZero() || !q.DateTo.IsZero() {
		fmt.Fprintf(&b, " range=%s..%s", q.DateFrom.Format("2006-01-02"), q.DateTo.Format("2006-01-02"))
	}
	b.WriteString("\n\nShipments:\n")

	n := len(records)
	if n > promptRecordCap {
		n = promptRecordCap
	}
	for _, rec := range records[:n] {
		fmt.Fprintf(&b, "- %s | importer=%s | exporter=%s | hs=%s | product=%s | value_usd=%.0f | %s -> %s\n",
			rec.Date, rec.Importer, rec.Exporter, rec.HSCode, rec.ProductName, rec.ValueUSD,
			rec.OriginCountry, rec.DestinationCountry)
	}
	if len(records) > n {
		fmt.Fprintf(&b, "(%d further shipments omitted)\n", len(records)-n)
	}
	return b.String()
}

func (s *reportService) Generate(ctx context.Context, userID uuid.UUID, req GenerateReportRequest) (ReportResponse, error) {
	q, err := toQuery(req.Search)
	if err != nil {
		return ReportResponse{}, err
	}
	if !hasCriteria(q) {
		return ReportResponse{}, fmt.Errorf("keyword or at least one filter value is required")
	}

	matched := s.store.Search(q, search.SortDesc)
	if len(matched) == 0 {
		return ReportResponse{}, fmt.Errorf("no trade records match this query")
	}

	fingerprint := q.Fingerprint()
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Market strategy: %s", strings.TrimSpace(q.Keyword))
	}

	// One charge per (user, query): a retried request reuses the ledger entry.
	idemKey := fmt.Sprintf("report_%s_%s", userID, fingerprint)
	if _, err := s.creditService.Debit(ctx, userID, s.cost, model.CreditReasonReportDebit, title, idemKey); err != nil {
		return ReportResponse{}, err
	}

	report := model.Report{
		UserID:           userID,
		QueryFingerprint: fingerprint,
		Title:            title,
		Model:            s.generator.Model(),
		Status:           model.ReportStatusPending,
		CreditsCharged:   s.cost,
	}
	if err := s.reportRepo.Create(ctx, &report); err != nil {
		return ReportResponse{}, fmt.Errorf("failed to create report: %w", err)
	}

	content, genErr := s.generator.GenerateReport(ctx, buildPrompt(q, matched))
	if genErr != nil {
		report.Status = model.ReportStatusFailed
		report.FailureReason = genErr.Error()
		_ = s.reportRepo.Update(ctx, &report)
		return ReportResponse{}, fmt.Errorf("report generation failed: %w", genErr)
	}

	report.Status = model.ReportStatusCompleted
	report.Content = content
	if err := s.reportRepo.Update(ctx, &report); err != nil {
		return ReportResponse{}, fmt.Errorf("failed to store report: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"query_fingerprint": fingerprint,
		"matched_records":   len(matched),
		"credits_charged":   s.cost,
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     &userID,
		Action:     model.ActionGenerateReport,
		EntityID:   report.ID.String(),
		EntityName: title,
		Details:    string(details),
	})

	return toReportResponse(report), nil
}

func (s *reportService) GetReport(ctx context.Context, userID uuid.UUID, id string) (ReportResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ReportResponse{}, fmt.Errorf("invalid report ID")
	}
	report, err := s.reportRepo.FindByID(ctx, uid)
	if err != nil {
		return ReportResponse{}, fmt.Errorf("report not found: %w", err)
	}
	if report.UserID != userID {
		return ReportResponse{}, fmt.Errorf("report not found")
	}
	return toReportResponse(*report), nil
}

func (s *reportService) GetReports(ctx context.Context, userID uuid.UUID, page, limit int) ([]ReportResponse, int64, error) {
	reports, total, err := s.reportRepo.List(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		res = append(res, toReportResponse(r))
	}
	return res, total, nil
}
