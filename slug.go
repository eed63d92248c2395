package guard

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSlug turns arbitrary input into the canonical tenant identifier:
// lowercase, diacritics stripped, restricted to [a-z0-9-_], runs of hyphens
// collapsed, leading and trailing underscores removed. It is total and
// idempotent; the empty string is the "no slug" sentinel, never a tenant.
func NormalizeSlug(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			prevHyphen = false
		case r == '-':
			if !prevHyphen {
				b.WriteByte('-')
			}
			prevHyphen = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// stripDiacritics decomposes to NFD, drops combining marks, and recomposes.
// Transformers carry state, so the chain is built per call.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
