package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(records []TradeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestRankByDate(t *testing.T) {
	records := []TradeRecord{
		{ID: "a", Date: "2024-03-01"},
		{ID: "b", Date: "2024-01-15"},
		{ID: "c", Date: "2024-06-30"},
	}

	assert.Equal(t, []string{"c", "a", "b"}, ids(Rank(records, SortDesc)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(Rank(records, SortAsc)))
}

func TestRankStableOnEqualDates(t *testing.T) {
	records := []TradeRecord{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-01-01"},
		{ID: "c", Date: "2024-01-01"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(records, SortDesc)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(records, SortAsc)))
}

func TestRankInvalidDatesSortOldest(t *testing.T) {
	records := []TradeRecord{
		{ID: "a", Date: "not-a-date"},
		{ID: "b", Date: "2024-01-01"},
		{ID: "c", Date: "-"},
	}

	desc := ids(Rank(records, SortDesc))
	assert.Equal(t, "b", desc[0])

	asc := ids(Rank(records, SortAsc))
	assert.Equal(t, "b", asc[2])
	// Invalid dates tie with each other and keep input order.
	assert.Equal(t, []string{"a", "c", "b"}, asc)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	records := []TradeRecord{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-06-01"},
	}
	_ = Rank(records, SortDesc)
	assert.Equal(t, []string{"a", "b"}, ids(records))
}
