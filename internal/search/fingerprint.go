package search

import (
	"encoding/json"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Query is the canonicalizable tuple that determines a result set. Two
// queries that canonicalize to the same tuple always share a fingerprint,
// regardless of input formatting, filter order, or time-of-day on the dates.
type Query struct {
	Category Category
	Keyword  string
	DateFrom time.Time // zero = unbounded
	DateTo   time.Time // zero = unbounded
	Filters  []Filter
}

const fingerprintDelimiter = "|"

type canonicalFilter struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// canonicalFilters drops empty filters, trims and lower-cases the values, and
// sorts by type then value so the fingerprint is independent of the order the
// filters were added in.
func canonicalFilters(filters []Filter) []canonicalFilter {
	out := make([]canonicalFilter, 0, len(filters))
	for _, f := range filters {
		v := strings.ToLower(strings.TrimSpace(f.Value))
		if v == "" {
			continue
		}
		out = append(out, canonicalFilter{Type: string(f.Type), Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func fingerprintDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func hash36(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// QueryFingerprint derives the deterministic natural key used for search
// history deduplication and result caching. Not cryptographic; collisions are
// an accepted low-probability cost.
func (q Query) Fingerprint() string {
	keyword := strings.ToLower(collapseWhitespace(q.Keyword))

	filters, _ := json.Marshal(canonicalFilters(q.Filters))

	tuple := strings.Join([]string{
		string(q.Category),
		keyword,
		fingerprintDate(q.DateFrom),
		fingerprintDate(q.DateTo),
		string(filters),
	}, fingerprintDelimiter)

	return "qh_" + hash36(tuple)
}

// RowFingerprint identifies a logical shipment record across repeated
// fetches. Two records agreeing on date, exporter, importer, HS code, product
// and value are treated as the same shipment; that collision is accepted.
func RowFingerprint(rec *TradeRecord) string {
	value := strconv.FormatFloat(rec.ValueUSD, 'f', -1, 64)

	tuple := strings.Join([]string{
		normalizeFingerprintText(rec.Date),
		normalizeFingerprintText(rec.Exporter),
		normalizeFingerprintText(rec.Importer),
		normalizeFingerprintText(rec.HSCode),
		normalizeFingerprintText(rec.ProductName),
		value,
	}, fingerprintDelimiter)

	return "bf_" + hash36(tuple)
}
