package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for matching: NFKC folding, zero-width and BOM
// characters stripped, lower-cased, whitespace runs collapsed to one ASCII
// space, trimmed. Idempotent; never fails.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r >= '\u200b' && r <= '\u200d', r == '\ufeff':
			// zero-width characters that survive spreadsheet export
		case unicode.IsSpace(r):
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// normalizeFingerprintText is the fingerprint-side normalizer: trim and
// upper-case only. It deliberately does not share the NFKC/zero-width
// handling above; stored fingerprints were computed under this rule, so the
// two functions must stay separate.
func normalizeFingerprintText(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// collapseWhitespace reduces internal whitespace runs to a single ASCII space
// and trims the ends. Used for keyword canonicalization in fingerprints.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
