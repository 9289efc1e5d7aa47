package excel

import "strings"

// Trim normalizes a cell for display-preserving comparisons: surrounding
// whitespace is dropped, nothing else changes.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Key normalizes a cell for fuzzy equality: lowercase with every run of
// non-[a-z0-9] removed, so "Powerbank", "power bank" and "POWER-BANK" all
// collapse to "powerbank". An empty key must never be treated as a match.
func Key(s string) string {
	lowered := strings.ToLower(Trim(s))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
