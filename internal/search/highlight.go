package search

import (
	"bytes"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment is one run of a highlighted field.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

type span struct {
	start, end int // byte offsets, end exclusive
}

// Highlight splits text into alternating highlighted / plain runs for every
// occurrence of every term. Comparison is lower-cased substring search, not
// full normalization: highlighting operates on the text exactly as displayed.
// Overlapping or adjacent matches are merged into one span, so the output
// never nests highlight markers. Concatenating the segments in order always
// reproduces the input exactly.
func Highlight(text string, terms []string) []Segment {
	if text == "" {
		return []Segment{{Text: "", Highlighted: false}}
	}

	// Lower-cased copy for case-insensitive scanning, plus a map from every
	// lowered byte offset back to the originating offset in text. Lowering
	// can change a rune's encoded length (Kelvin sign K is three bytes, its
	// lowercase k is one), so offsets found in the lowered copy must be
	// translated before slicing text.
	lower := make([]byte, 0, len(text))
	back := make([]int, 0, len(text)+1)
	for i, r := range text {
		before := len(lower)
		lower = utf8.AppendRune(lower, unicode.ToLower(r))
		for j := before; j < len(lower); j++ {
			back = append(back, i)
		}
	}
	back = append(back, len(text))

	var spans []span
	for _, term := range terms {
		t := []byte(strings.ToLower(strings.TrimSpace(term)))
		if len(t) == 0 {
			continue
		}
		for from := 0; ; {
			i := bytes.Index(lower[from:], t)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, span{start: back[start], end: back[start+len(t)]})
			from = start + 1 // step one byte so repeated/overlapping hits are all recorded
		}
	}

	if len(spans) == 0 {
		return []Segment{{Text: text, Highlighted: false}}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	// Coalesce spans that overlap or touch.
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	segments := make([]Segment, 0, 2*len(merged)+1)
	pos := 0
	for _, s := range merged {
		if s.start > pos {
			segments = append(segments, Segment{Text: text[pos:s.start]})
		}
		segments = append(segments, Segment{Text: text[s.start:s.end], Highlighted: true})
		pos = s.end
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}

	return segments
}
