package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lower cases", "ACME Corp", "acme corp"},
		{"trims and collapses whitespace", "  Steel \t\n Pipe  ", "steel pipe"},
		{"strips zero width space", "Ac\u200bme", "acme"},
		{"strips zero width joiner", "Ac\u200dME", "acme"},
		{"strips BOM", "\ufeffAcme", "acme"},
		{"folds fullwidth via NFKC", "ＡＣＭＥ", "acme"},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "ACME Corp", "  Steel \t Pipe  ", "Ac\u200bme", "\ufeffＡＣＭＥ  widget",
		"1234.56", "café", "ＨＳ ｃｏｄｅ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestFingerprintNormalizerDivergence(t *testing.T) {
	// The fingerprint normalizer upper-cases and keeps zero-width noise; the
	// search normalizer lower-cases and strips it. Both behaviors are load
	// bearing for stored fingerprints and must not be unified silently.
	assert.Equal(t, "ACME", normalizeFingerprintText(" acme "))
	assert.Equal(t, "AC\u200bME", normalizeFingerprintText("ac\u200bme"))
	assert.Equal(t, "acme", Normalize("ac\u200bme"))
}
