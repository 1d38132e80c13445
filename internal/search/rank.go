package search

import (
	"sort"
	"time"
)

// ParseDate parses a record date (YYYY-MM-DD). Unparseable or sentinel dates
// return the zero time, which ranks them as oldest.
func ParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Rank returns a new slice sorted by record date. SortDesc puts the newest
// record first. The sort is stable: records with equal dates keep their
// relative input order. The input slice is not mutated.
func Rank(records []TradeRecord, order SortOrder) []TradeRecord {
	out := make([]TradeRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := ParseDate(out[i].Date), ParseDate(out[j].Date)
		if order == SortAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})

	return out
}
