package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradescope/internal/model"
	"tradescope/internal/search"
)

func fixtureStore() *search.Store {
	store := search.NewStore()
	store.ReplaceAll([]search.TradeRecord{
		{ID: "1", Date: "2024-03-01", Importer: "Acme Corp", Exporter: "Hanoi Textiles", HSCode: "520100", ProductName: "Raw cotton", ValueUSD: 12000},
		{ID: "2", Date: "2024-01-15", Importer: "Acme Corp", Exporter: "Saigon Fibers", HSCode: "520100", ProductName: "Cotton yarn", ValueUSD: 8000},
		{ID: "3", Date: "2024-02-10", Importer: "Globex Ltd", Exporter: "Hanoi Textiles", HSCode: "610910", ProductName: "Knit shirts", ValueUSD: 5000},
	})
	return store
}

func newTestSearchService(store *search.Store, historyRepo *MockSearchHistoryRepository, cache ResultCache) *searchService {
	return &searchService{
		store:       store,
		historyRepo: historyRepo,
		cache:       cache,
		now:         func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestSearchRequiresCriteria(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)

	_, err := svc.Search(context.Background(), uuid.New(), SearchRequest{Category: "bl"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "keyword or at least one filter value")

	// Whitespace-only keyword is no criteria either.
	_, err = svc.Search(context.Background(), uuid.New(), SearchRequest{Category: "bl", Keyword: "   "})
	assert.Error(t, err)

	historyRepo.AssertNotCalled(t, "Upsert")
}

func TestSearchRejectsBadInput(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)

	_, err := svc.Search(context.Background(), uuid.New(), SearchRequest{Category: "vessel", Keyword: "acme"})
	assert.Error(t, err)

	_, err = svc.Search(context.Background(), uuid.New(), SearchRequest{
		Category: "bl", Keyword: "acme",
		Filters: []FilterPayload{{Type: "country", Value: "vn"}},
	})
	assert.Error(t, err)

	_, err = svc.Search(context.Background(), uuid.New(), SearchRequest{
		Category: "bl", Keyword: "acme", DateFrom: "01/03/2024",
	})
	assert.Error(t, err)

	_, err = svc.Search(context.Background(), uuid.New(), SearchRequest{
		Category: "bl", Keyword: "acme", DateFrom: "2024-03-01", DateTo: "2024-01-01",
	})
	assert.Error(t, err)
}

func TestSearchRecordsHistoryAndPaginates(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)
	userID := uuid.New()

	var captured *model.SearchHistory
	historyRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*model.SearchHistory")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*model.SearchHistory) }).
		Return(nil)

	resp, err := svc.Search(context.Background(), userID, SearchRequest{
		Category: "importer", Keyword: "acme", Page: 1, Limit: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Items, 1)
	// Default order is newest first.
	assert.Equal(t, "1", resp.Items[0].Record.ID)
	assert.False(t, resp.Cached)

	historyRepo.AssertCalled(t, "Upsert", mock.Anything, mock.AnythingOfType("*model.SearchHistory"))
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, resp.Fingerprint, captured.Fingerprint)
	assert.Equal(t, 2, captured.ResultCount)
	assert.Equal(t, "importer", captured.Category)

	// Page past the end is empty but well-formed.
	resp, err = svc.Search(context.Background(), userID, SearchRequest{
		Category: "importer", Keyword: "acme", Page: 9, Limit: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Empty(t, resp.Items)
}

func TestSearchSurvivesHistoryFailure(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)

	historyRepo.On("Upsert", mock.Anything, mock.Anything).Return(assert.AnError)

	resp, err := svc.Search(context.Background(), uuid.New(), SearchRequest{
		Category: "bl", Keyword: "cotton",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}

func TestSearchHighlightsMatchedFields(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	historyRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)

	resp, err := svc.Search(context.Background(), uuid.New(), SearchRequest{
		Category: "product", Keyword: "cotton",
		Filters: []FilterPayload{{Type: "importer", Value: "acme"}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	item := resp.Items[0]
	assert.Equal(t, "1", item.Record.ID)
	assert.NotEmpty(t, item.Fingerprint)

	highlighted := func(segs []search.Segment) bool {
		for _, s := range segs {
			if s.Highlighted {
				return true
			}
		}
		return false
	}
	assert.True(t, highlighted(item.Highlights["product_name"]))
	assert.True(t, highlighted(item.Highlights["importer"]))
	// The keyword is scoped to product, so the exporter column stays plain.
	assert.False(t, highlighted(item.Highlights["exporter"]))
}

type stubResultCache struct {
	pages map[string]*SearchResponse
	gets  int
	sets  int
}

func newStubResultCache() *stubResultCache {
	return &stubResultCache{pages: make(map[string]*SearchResponse)}
}

func (c *stubResultCache) GetPage(_ context.Context, key string) (*SearchResponse, error) {
	c.gets++
	if resp, ok := c.pages[key]; ok {
		copied := *resp
		return &copied, nil
	}
	return nil, ErrCacheMiss
}

func (c *stubResultCache) SetPage(_ context.Context, key string, resp *SearchResponse) error {
	c.sets++
	copied := *resp
	c.pages[key] = &copied
	return nil
}

func TestSearchServesSecondHitFromCache(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	historyRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	cache := newStubResultCache()
	svc := newTestSearchService(fixtureStore(), historyRepo, cache)

	req := SearchRequest{Category: "importer", Keyword: "acme"}

	first, err := svc.Search(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Search(context.Background(), uuid.New(), req)
	assert.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, cache.sets)

	// The cache hit still lands in history.
	historyRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestGetHistoryRoundTripsFilters(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	userID := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	historyRepo.On("List", mock.Anything, userID, 1, 10).Return([]model.SearchHistory{
		{
			ID:          uuid.New(),
			UserID:      userID,
			Fingerprint: "qh_abc",
			Category:    "bl",
			Keyword:     "cotton",
			Filters:     `[{"id":"f1","type":"importer","value":"acme"}]`,
			ResultCount: 7,
			DateFrom:    &from,
			SearchedAt:  time.Now(),
		},
	}, int64(1), nil)

	svc := newTestSearchService(fixtureStore(), historyRepo, nil)

	history, total, err := svc.GetHistory(context.Background(), userID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, history, 1)
	assert.Equal(t, "qh_abc", history[0].Fingerprint)
	assert.Equal(t, "2024-01-01", history[0].DateFrom)
	assert.Empty(t, history[0].DateTo)
	assert.Len(t, history[0].Filters, 1)
	assert.Equal(t, "acme", history[0].Filters[0].Value)
}

func TestDeleteHistoryValidatesID(t *testing.T) {
	historyRepo := new(MockSearchHistoryRepository)
	svc := newTestSearchService(fixtureStore(), historyRepo, nil)
	userID := uuid.New()

	err := svc.DeleteHistory(context.Background(), userID, "not-a-uuid")
	assert.Error(t, err)
	historyRepo.AssertNotCalled(t, "Delete")

	id := uuid.New()
	historyRepo.On("Delete", mock.Anything, userID, id).Return(nil)
	assert.NoError(t, svc.DeleteHistory(context.Background(), userID, id.String()))
}
