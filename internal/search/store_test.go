package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDataset() []TradeRecord {
	return []TradeRecord{
		{ID: "1", Date: "2024-01-10", Importer: "Acme Corp", Exporter: "Shanghai Metals", HSCode: "7306.30", ProductName: "Steel Pipe", ValueUSD: 12000},
		{ID: "2", Date: "2024-02-20", Importer: "Globex", Exporter: "Hamburg Trading", HSCode: "8479.89", ProductName: "Acme Widget", ValueUSD: 8000},
		{ID: "3", Date: "2024-03-05", Importer: "Initech", Exporter: "Shanghai Metals", HSCode: "7306.30", ProductName: "Steel Tube", ValueUSD: 4500},
	}
}

func TestStoreSearch(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(testDataset())

	got := store.Search(Query{Category: CategoryExporter, Keyword: "shanghai"}, SortDesc)
	assert.Equal(t, []string{"3", "1"}, ids(got))

	got = store.Search(Query{Category: CategoryExporter, Keyword: "shanghai"}, SortAsc)
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestStoreSearchDateRange(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(testDataset())

	q := Query{Category: CategoryBL, Keyword: "steel", DateFrom: day("2024-02-01")}
	assert.Equal(t, []string{"3"}, ids(store.Search(q, SortDesc)))

	q = Query{Category: CategoryBL, Keyword: "steel", DateTo: day("2024-01-31")}
	assert.Equal(t, []string{"1"}, ids(store.Search(q, SortDesc)))

	// Bounds are inclusive.
	q = Query{Category: CategoryBL, Keyword: "steel", DateFrom: day("2024-01-10"), DateTo: day("2024-03-05")}
	assert.Equal(t, []string{"3", "1"}, ids(store.Search(q, SortDesc)))
}

func TestStoreSearchExcludesInvalidDatesWhenBounded(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]TradeRecord{
		{ID: "1", Date: "-", ProductName: "Steel"},
		{ID: "2", Date: "2024-01-01", ProductName: "Steel"},
	})

	q := Query{Category: CategoryProduct, Keyword: "steel", DateFrom: day("2023-01-01")}
	assert.Equal(t, []string{"2"}, ids(store.Search(q, SortDesc)))

	// Without bounds the sentinel date still matches.
	q = Query{Category: CategoryProduct, Keyword: "steel"}
	assert.Len(t, store.Search(q, SortDesc), 2)
}

func TestStoreReplaceAllSnapshotIsolation(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(testDataset())

	snapshot := store.Snapshot()
	store.ReplaceAll(nil)

	assert.Len(t, snapshot, 3, "a snapshot taken before reload stays intact")
	assert.Equal(t, 0, store.Len())
}

func TestStoreConcurrentSearchAndReload(t *testing.T) {
	store := NewStore()
	store.ReplaceAll(testDataset())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if n%2 == 0 {
					_ = store.Search(Query{Category: CategoryBL, Keyword: "steel"}, SortDesc)
				} else {
					records := testDataset()
					records[0].ID = fmt.Sprintf("1-%d-%d", n, j)
					store.ReplaceAll(records)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, store.Len())
}
