package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func joinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlightNoTerms(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "Steel Pipe"}}, Highlight("Steel Pipe", nil))
	assert.Equal(t, []Segment{{Text: "Steel Pipe"}}, Highlight("Steel Pipe", []string{"", "  "}))
}

func TestHighlightEmptyText(t *testing.T) {
	assert.Equal(t, []Segment{{Text: ""}}, Highlight("", []string{"acme"}))
}

func TestHighlightSingleTerm(t *testing.T) {
	got := Highlight("Acme Corp imports", []string{"acme"})
	assert.Equal(t, []Segment{
		{Text: "Acme", Highlighted: true},
		{Text: " Corp imports"},
	}, got)
}

func TestHighlightCaseInsensitive(t *testing.T) {
	got := Highlight("ACME acme AcMe", []string{"acme"})
	assert.Equal(t, []Segment{
		{Text: "ACME", Highlighted: true},
		{Text: " "},
		{Text: "acme", Highlighted: true},
		{Text: " "},
		{Text: "AcMe", Highlighted: true},
	}, got)
}

func TestHighlightOverlapMerge(t *testing.T) {
	// Overlapping matches from different terms coalesce into one span.
	got := Highlight("abcdef", []string{"abc", "bcd"})
	assert.Equal(t, []Segment{
		{Text: "abcd", Highlighted: true},
		{Text: "ef"},
	}, got)
}

func TestHighlightAdjacentMerge(t *testing.T) {
	got := Highlight("abcd", []string{"ab", "cd"})
	assert.Equal(t, []Segment{{Text: "abcd", Highlighted: true}}, got)
}

func TestHighlightOverlappingOccurrencesOfOneTerm(t *testing.T) {
	// "aaaa" contains "aa" at offsets 0, 1, 2; all merge into one span.
	got := Highlight("aaaa", []string{"aa"})
	assert.Equal(t, []Segment{{Text: "aaaa", Highlighted: true}}, got)
}

func TestHighlightCaseChangesRuneLength(t *testing.T) {
	// Lower-casing the Kelvin sign shrinks it from three bytes to one; a
	// match after it must still slice the original text at the right place.
	got := Highlight("K 120 KG", []string{"120"})
	assert.Equal(t, []Segment{
		{Text: "K "},
		{Text: "120", Highlighted: true},
		{Text: " KG"},
	}, got)

	// Lower-casing Ⱥ grows it from two bytes to three, so a match near
	// the end would otherwise index past the input.
	got = Highlight("Ⱥbc", []string{"bc"})
	assert.Equal(t, []Segment{
		{Text: "Ⱥ"},
		{Text: "bc", Highlighted: true},
	}, got)
}

func TestHighlightRoundTripAndCoverage(t *testing.T) {
	cases := []struct {
		text  string
		terms []string
	}{
		{"Steel Pipe from Acme Corp", []string{"acme", "pipe"}},
		{"abcdef", []string{"abc", "bcd", "f"}},
		{"no matches here", []string{"zzz"}},
		{"boundary", []string{"boundary"}},
		{"aaaaaa", []string{"aa", "aaa"}},
		{"", []string{"x"}},
		// Runes whose case pair has a different encoded length.
		{"K 120 KG net", []string{"120", "kg"}},
		{"Ⱥbc Ⱥbc", []string{"bc", "ⱥbc"}},
		{"İstanbul Imports", []string{"istanbul"}},
		{"weight 5 kK", []string{"kk"}},
	}

	for _, tc := range cases {
		segments := Highlight(tc.text, tc.terms)
		assert.NotEmpty(t, segments)
		assert.Equal(t, tc.text, joinSegments(segments), "round trip for %q", tc.text)

		total := 0
		for _, s := range segments {
			total += len(s.Text)
		}
		assert.Equal(t, len(tc.text), total, "segments must cover %q exactly", tc.text)
	}
}

func TestHighlightAlternation(t *testing.T) {
	segments := Highlight("x acme y acme z", []string{"acme"})
	for i := 1; i < len(segments); i++ {
		assert.NotEqual(t, segments[i-1].Highlighted, segments[i].Highlighted,
			"adjacent segments must alternate")
	}
}
