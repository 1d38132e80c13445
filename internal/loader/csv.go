package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tradescope/internal/search"
)

// Column headers recognized in the exported dataset, lower-cased.
var columnAliases = map[string]string{
	"id":                  "id",
	"date":                "date",
	"importer":            "importer",
	"exporter":            "exporter",
	"hs code":             "hs_code",
	"hs_code":             "hs_code",
	"product":             "product_name",
	"product name":        "product_name",
	"product_name":        "product_name",
	"value usd":           "value_usd",
	"value_usd":           "value_usd",
	"value":               "value_usd",
	"quantity":            "quantity",
	"weight":              "weight",
	"origin country":      "origin_country",
	"origin_country":      "origin_country",
	"destination country": "destination_country",
	"destination_country": "destination_country",
	"transit country":     "transit_country",
	"transit_country":     "transit_country",
	"import country":      "import_country",
	"import_country":      "import_country",
	"importer address":    "importer_address",
	"importer_address":    "importer_address",
	"exporter address":    "exporter_address",
	"exporter_address":    "exporter_address",
	"loading port":        "loading_port",
	"loading_port":        "loading_port",
	"discharge port":      "discharge_port",
	"discharge_port":      "discharge_port",
	"incoterm":            "incoterm",
}

// LoadFile reads a CSV export of trade records from path.
func LoadFile(path string) ([]search.TradeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses CSV trade records from r. The first row must be a header; the
// column order is free. Text fields keep the "-" absence sentinel verbatim;
// an absent or unparseable value column becomes 0. Rows missing an id get a
// generated sequential one so every record is addressable.
func Load(r io.Reader) ([]search.TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	fields := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name, ok := columnAliases[h]; ok {
			fields[name] = i
		}
	}
	if _, ok := fields["importer"]; !ok {
		return nil, fmt.Errorf("dataset is missing an importer column")
	}

	var records []search.TradeRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		cell := func(name string) string {
			i, ok := fields[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := search.TradeRecord{
			ID:                 cell("id"),
			Date:               cell("date"),
			Importer:           textOrSentinel(cell("importer")),
			Exporter:           textOrSentinel(cell("exporter")),
			HSCode:             textOrSentinel(cell("hs_code")),
			ProductName:        textOrSentinel(cell("product_name")),
			ValueUSD:           parseValue(cell("value_usd")),
			Quantity:           cell("quantity"),
			Weight:             cell("weight"),
			OriginCountry:      cell("origin_country"),
			DestinationCountry: cell("destination_country"),
			TransitCountry:     cell("transit_country"),
			ImportCountry:      cell("import_country"),
			ImporterAddress:    cell("importer_address"),
			ExporterAddress:    cell("exporter_address"),
			LoadingPort:        cell("loading_port"),
			DischargePort:      cell("discharge_port"),
			Incoterm:           cell("incoterm"),
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(line - 1)
		}
		records = append(records, rec)
	}

	return records, nil
}

func textOrSentinel(s string) string {
	if s == "" {
		return search.AbsentText
	}
	return s
}

// parseValue decodes the USD value column, tolerating thousands separators
// and a currency sign. Anything unparseable degrades to 0.
func parseValue(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == search.AbsentText {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
