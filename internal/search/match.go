package search

import "strings"

// fieldForCategory returns the record field a category keyword is tested
// against. CategoryBL is handled separately as an OR over all four fields.
func fieldForCategory(rec *TradeRecord, c Category) string {
	switch c {
	case CategoryProduct:
		return rec.ProductName
	case CategoryHSCode:
		return rec.HSCode
	case CategoryImporter:
		return rec.Importer
	case CategoryExporter:
		return rec.Exporter
	}
	return ""
}

func fieldForFilter(rec *TradeRecord, t FilterType) string {
	switch t {
	case FilterProductName:
		return rec.ProductName
	case FilterHSCode:
		return rec.HSCode
	case FilterImporter:
		return rec.Importer
	case FilterExporter:
		return rec.Exporter
	}
	return ""
}

func fieldContains(field, normalizedNeedle string) bool {
	return strings.Contains(Normalize(field), normalizedNeedle)
}

// Matches reports whether a record satisfies a category-scoped keyword plus a
// set of AND-combined auxiliary filters. An empty keyword (after
// normalization) skips the category test; filters with empty values are
// vacuously satisfied. Pure; no side effects.
func Matches(rec *TradeRecord, category Category, keyword string, filters []Filter) bool {
	needle := Normalize(keyword)

	if needle != "" {
		if category == CategoryBL {
			if !fieldContains(rec.ProductName, needle) &&
				!fieldContains(rec.HSCode, needle) &&
				!fieldContains(rec.Importer, needle) &&
				!fieldContains(rec.Exporter, needle) {
				return false
			}
		} else if !fieldContains(fieldForCategory(rec, category), needle) {
			return false
		}
	}

	for _, f := range filters {
		v := Normalize(f.Value)
		if v == "" {
			continue
		}
		if !fieldContains(fieldForFilter(rec, f.Type), v) {
			return false
		}
	}

	return true
}
