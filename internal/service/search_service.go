package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tradescope/internal/model"
	"tradescope/internal/repository"
	"tradescope/internal/search"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by a ResultCache when no page is stored for a key.
var ErrCacheMiss = errors.New("result cache miss")

// ResultCache stores rendered search pages keyed by query fingerprint.
// Implementations must treat entries as disposable; a miss or error only
// costs a recomputation.
type ResultCache interface {
	GetPage(ctx context.Context, key string) (*SearchResponse, error)
	SetPage(ctx context.Context, key string, resp *SearchResponse) error
}

// --- DTOs ---

type FilterPayload struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

type SearchRequest struct {
	Category string          `json:"category" binding:"required"`
	Keyword  string          `json:"keyword"`
	DateFrom string          `json:"date_from"` // YYYY-MM-DD, optional
	DateTo   string          `json:"date_to"`   // YYYY-MM-DD, optional
	Filters  []FilterPayload `json:"filters"`
	Order    string          `json:"order"` // asc or desc, default desc
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// FieldHighlights maps a record field name to its highlight segments.
type FieldHighlights map[string][]search.Segment

type SearchResultItem struct {
	Record      search.TradeRecord `json:"record"`
	Fingerprint string             `json:"fingerprint"`
	Highlights  FieldHighlights    `json:"highlights"`
}

type SearchResponse struct {
	Fingerprint string             `json:"fingerprint"`
	Total       int                `json:"total"`
	Page        int                `json:"page"`
	Limit       int                `json:"limit"`
	Order       string             `json:"order"`
	Items       []SearchResultItem `json:"items"`
	Cached      bool               `json:"cached"`
}

type HistoryResponse struct {
	ID          string          `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Category    string          `json:"category"`
	Keyword     string          `json:"keyword"`
	DateFrom    string          `json:"date_from,omitempty"`
	DateTo      string          `json:"date_to,omitempty"`
	Filters     []FilterPayload `json:"filters"`
	ResultCount int             `json:"result_count"`
	SearchedAt  time.Time       `json:"searched_at"`
}

// --- Interface ---

type SearchService interface {
	Search(ctx context.Context, userID uuid.UUID, req SearchRequest) (SearchResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]HistoryResponse, int64, error)
	DeleteHistory(ctx context.Context, userID uuid.UUID, id string) error
}

// --- Implementation ---

type searchService struct {
	store       *search.Store
	historyRepo repository.SearchHistoryRepository
	cache       ResultCache // optional
	now         func() time.Time
}

func NewSearchService(store *search.Store, historyRepo repository.SearchHistoryRepository, cache ResultCache) SearchService {
	return &searchService{
		store:       store,
		historyRepo: historyRepo,
		cache:       cache,
		now:         time.Now,
	}
}

func parseRequestDate(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", name)
	}
	return t, nil
}

func toQuery(req SearchRequest) (search.Query, error) {
	category := search.Category(req.Category)
	if !search.ValidCategory(category) {
		return search.Query{}, fmt.Errorf("category must be one of: product, hs_code, importer, exporter, bl")
	}

	filters := make([]search.Filter, 0, len(req.Filters))
	for i, f := range req.Filters {
		ft := search.FilterType(f.Type)
		if !search.ValidFilterType(ft) {
			return search.Query{}, fmt.Errorf("filters[%d]: type must be one of: product_name, hs_code, importer, exporter", i)
		}
		filters = append(filters, search.Filter{ID: f.ID, Type: ft, Value: f.Value})
	}

	dateFrom, err := parseRequestDate(req.DateFrom, "date_from")
	if err != nil {
		return search.Query{}, err
	}
	dateTo, err := parseRequestDate(req.DateTo, "date_to")
	if err != nil {
		return search.Query{}, err
	}
	if !dateFrom.IsZero() && !dateTo.IsZero() && dateTo.Before(dateFrom) {
		return search.Query{}, fmt.Errorf("date_to is before date_from")
	}

	return search.Query{
		Category: category,
		Keyword:  req.Keyword,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Filters:  filters,
	}, nil
}

// hasCriteria reports whether the query carries at least one effective
// constraint. The matcher itself happily matches everything on empty input;
// gating that here keeps "search with nothing" an explicit request error.
func hasCriteria(q search.Query) bool {
	if search.Normalize(q.Keyword) != "" {
		return true
	}
	for _, f := range q.Filters {
		if search.Normalize(f.Value) != "" {
			return true
		}
	}
	return false
}

// highlightTerms returns the terms active for one displayed field: the
// keyword when the category covers that field, plus every filter value
// scoped to it.
func highlightTerms(q search.Query, category search.Category, filterType search.FilterType) []string {
	var terms []string
	if q.Keyword != "" && (q.Category == search.CategoryBL || q.Category == category) {
		terms = append(terms, q.Keyword)
	}
	for _, f := range q.Filters {
		if f.Type == filterType && f.Value != "" {
			terms = append(terms, f.Value)
		}
	}
	return terms
}

func buildItem(rec search.TradeRecord, q search.Query) SearchResultItem {
	return SearchResultItem{
		Record:      rec,
		Fingerprint: search.RowFingerprint(&rec),
		Highlights: FieldHighlights{
			"product_name": search.Highlight(rec.ProductName, highlightTerms(q, search.CategoryProduct, search.FilterProductName)),
			"hs_code":      search.Highlight(rec.HSCode, highlightTerms(q, search.CategoryHSCode, search.FilterHSCode)),
			"importer":     search.Highlight(rec.Importer, highlightTerms(q, search.CategoryImporter, search.FilterImporter)),
			"exporter":     search.Highlight(rec.Exporter, highlightTerms(q, search.CategoryExporter, search.FilterExporter)),
		},
	}
}

func (s *searchService) Search(ctx context.Context, userID uuid.UUID, req SearchRequest) (SearchResponse, error) {
	q, err := toQuery(req)
	if err != nil {
		return SearchResponse{}, err
	}
	if !hasCriteria(q) {
		return SearchResponse{}, fmt.Errorf("keyword or at least one filter value is required")
	}

	order := search.SortDesc
	if req.Order == string(search.SortAsc) {
		order = search.SortAsc
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	fingerprint := q.Fingerprint()
	cacheKey := fmt.Sprintf("%s:%s:%d:%d", fingerprint, order, page, limit)

	if s.cache != nil {
		if cached, err := s.cache.GetPage(ctx, cacheKey); err == nil {
			cached.Cached = true
			s.recordHistory(ctx, userID, q, fingerprint, cached.Total)
			return *cached, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			log.Printf("search cache read failed: %v", err)
		}
	}

	matched := s.store.Search(q, order)
	total := len(matched)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]SearchResultItem, 0, end-start)
	for _, rec := range matched[start:end] {
		items = append(items, buildItem(rec, q))
	}

	resp := SearchResponse{
		Fingerprint: fingerprint,
		Total:       total,
		Page:        page,
		Limit:       limit,
		Order:       string(order),
		Items:       items,
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, cacheKey, &resp); err != nil {
			log.Printf("search cache write failed: %v", err)
		}
	}

	s.recordHistory(ctx, userID, q, fingerprint, total)

	return resp, nil
}

// recordHistory upserts the query into the user's search history. History is
// best effort: a persistence failure must not fail the search itself.
func (s *searchService) recordHistory(ctx context.Context, userID uuid.UUID, q search.Query, fingerprint string, total int) {
	filters := make([]FilterPayload, 0, len(q.Filters))
	for _, f := range q.Filters {
		filters = append(filters, FilterPayload{ID: f.ID, Type: string(f.Type), Value: f.Value})
	}
	filtersJSON, _ := json.Marshal(filters)

	entry := model.SearchHistory{
		UserID:      userID,
		Fingerprint: fingerprint,
		Category:    string(q.Category),
		Keyword:     q.Keyword,
		Filters:     string(filtersJSON),
		ResultCount: total,
		SearchedAt:  s.now(),
	}
	if !q.DateFrom.IsZero() {
		d := q.DateFrom
		entry.DateFrom = &d
	}
	if !q.DateTo.IsZero() {
		d := q.DateTo
		entry.DateTo = &d
	}

	if err := s.historyRepo.Upsert(ctx, &entry); err != nil {
		log.Printf("search history upsert failed: %v", err)
	}
}

func (s *searchService) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]HistoryResponse, int64, error) {
	entries, total, err := s.historyRepo.List(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		var filters []FilterPayload
		if e.Filters != "" {
			_ = json.Unmarshal([]byte(e.Filters), &filters)
		}

		h := HistoryResponse{
			ID:          e.ID.String(),
			Fingerprint: e.Fingerprint,
			Category:    e.Category,
			Keyword:     e.Keyword,
			Filters:     filters,
			ResultCount: e.ResultCount,
			SearchedAt:  e.SearchedAt,
		}
		if e.DateFrom != nil {
			h.DateFrom = e.DateFrom.Format("2006-01-02")
		}
		if e.DateTo != nil {
			h.DateTo = e.DateTo.Format("2006-01-02")
		}
		res = append(res, h)
	}

	return res, total, nil
}

func (s *searchService) DeleteHistory(ctx context.Context, userID uuid.UUID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid history ID")
	}
	return s.historyRepo.Delete(ctx, userID, uid)
}
