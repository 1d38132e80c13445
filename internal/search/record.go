package search

// AbsentText is the sentinel the dataset uses for missing text fields.
const AbsentText = "-"

// TradeRecord is one bill-of-lading / customs entry from the imported dataset.
type TradeRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Importer    string  `json:"importer"`
	Exporter    string  `json:"exporter"`
	HSCode      string  `json:"hs_code"`
	ProductName string  `json:"product_name"`
	ValueUSD    float64 `json:"value_usd"`
	Quantity    string  `json:"quantity"` // free text, may embed a unit
	Weight      string  `json:"weight"`   // free text, may embed a unit

	OriginCountry      string `json:"origin_country"`
	DestinationCountry string `json:"destination_country"`
	TransitCountry     string `json:"transit_country,omitempty"`
	ImportCountry      string `json:"import_country,omitempty"`

	// Detail-only fields, never consulted by matching.
	ImporterAddress string `json:"importer_address,omitempty"`
	ExporterAddress string `json:"exporter_address,omitempty"`
	LoadingPort     string `json:"loading_port,omitempty"`
	DischargePort   string `json:"discharge_port,omitempty"`
	Incoterm        string `json:"incoterm,omitempty"`
}

// Category selects the primary field a keyword is matched against.
type Category string

const (
	CategoryProduct  Category = "product"
	CategoryHSCode   Category = "hs_code"
	CategoryImporter Category = "importer"
	CategoryExporter Category = "exporter"
	CategoryBL       Category = "bl" // catch-all: OR over the four fields above
)

// ValidCategory reports whether c is one of the known search categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryProduct, CategoryHSCode, CategoryImporter, CategoryExporter, CategoryBL:
		return true
	}
	return false
}

// FilterType designates which record field an auxiliary filter constrains.
type FilterType string

const (
	FilterProductName FilterType = "product_name"
	FilterHSCode      FilterType = "hs_code"
	FilterImporter    FilterType = "importer"
	FilterExporter    FilterType = "exporter"
)

// ValidFilterType reports whether t is one of the known filter types.
func ValidFilterType(t FilterType) bool {
	switch t {
	case FilterProductName, FilterHSCode, FilterImporter, FilterExporter:
		return true
	}
	return false
}

// Filter is one auxiliary constraint. Filters combine with AND semantics;
// a filter whose value is empty after normalization never excludes a record.
type Filter struct {
	ID    string     `json:"id"` // opaque, client-generated
	Type  FilterType `json:"type"`
	Value string     `json:"value"`
}

// SortOrder controls date ranking of a result set.
type SortOrder string

const (
	SortDesc SortOrder = "desc" // newest first
	SortAsc  SortOrder = "asc"  // oldest first
)
