package service

import (
	"context"
	"sort"

	"tradescope/internal/search"
)

const rankingLimit = 5

// CompanyRanking represents a ranked importer or exporter by accumulated value
type CompanyRanking struct {
	Name       string  `json:"name"`
	Shipments  int     `json:"shipments"`
	TotalValue float64 `json:"total_value"`
}

// MonthlyValue is one point of the shipment value trend
type MonthlyValue struct {
	Month      string  `json:"month"` // YYYY-MM
	Shipments  int     `json:"shipments"`
	TotalValue float64 `json:"total_value"`
}

// MarketStatsResponse aggregates the matched record set for dashboard cards
type MarketStatsResponse struct {
	Fingerprint   string           `json:"fingerprint"`
	TotalRecords  int              `json:"total_records"`
	TotalValueUSD float64          `json:"total_value_usd"`
	TopImporters  []CompanyRanking `json:"top_importers"`
	TopExporters  []CompanyRanking `json:"top_exporters"`
	MonthlyTrend  []MonthlyValue   `json:"monthly_trend"`
}

type StatisticsService interface {
	// GetMarketStats aggregates the records matching the request. Unlike
	// search and report generation it accepts a request with no keyword or
	// filter values: an unconstrained request is the whole-dataset market
	// overview shown on the dashboard.
	GetMarketStats(ctx context.Context, req SearchRequest) (MarketStatsResponse, error)
}

type statisticsService struct {
	store *search.Store
}

func NewStatisticsService(store *search.Store) StatisticsService {
	return &statisticsService{store: store}
}

func rankCompanies(counts map[string]*CompanyRanking) []CompanyRanking {
	ranked := make([]CompanyRanking, 0, len(counts))
	for _, r := range counts {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalValue != ranked[j].TotalValue {
			return ranked[i].TotalValue > ranked[j].TotalValue
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > rankingLimit {
		ranked = ranked[:rankingLimit]
	}
	return ranked
}

// GetMarketStats aggregates totals, company rankings and a monthly value
// trend over the records matching the request. The absence sentinel is
// excluded from rankings.
func (s *statisticsService) GetMarketStats(ctx context.Context, req SearchRequest) (MarketStatsResponse, error) {
	q, err := toQuery(req)
	if err != nil {
		return MarketStatsResponse{}, err
	}

	matched := s.store.Search(q, search.SortAsc)

	importers := make(map[string]*CompanyRanking)
	exporters := make(map[string]*CompanyRanking)
	months := make(map[string]*MonthlyValue)

	resp := MarketStatsResponse{
		Fingerprint:  q.Fingerprint(),
		TotalRecords: len(matched),
	}

	accumulate := func(m map[string]*CompanyRanking, name string, value float64) {
		if name == "" || name == search.AbsentText {
			return
		}
		r, ok := m[name]
		if !ok {
			r = &CompanyRanking{Name: name}
			m[name] = r
		}
		r.Shipments++
		r.TotalValue += value
	}

	for _, rec := range matched {
		resp.TotalValueUSD += rec.ValueUSD
		accumulate(importers, rec.Importer, rec.ValueUSD)
		accumulate(exporters, rec.Exporter, rec.ValueUSD)

		if d := search.ParseDate(rec.Date); !d.IsZero() {
			key := d.Format("2006-01")
			mv, ok := months[key]
			if !ok {
				mv = &MonthlyValue{Month: key}
				months[key] = mv
			}
			mv.Shipments++
			mv.TotalValue += rec.ValueUSD
		}
	}

	resp.TopImporters = rankCompanies(importers)
	resp.TopExporters = rankCompanies(exporters)

	trend := make([]MonthlyValue, 0, len(months))
	for _, mv := range months {
		trend = append(trend, *mv)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	resp.MonthlyTrend = trend

	return resp, nil
}
