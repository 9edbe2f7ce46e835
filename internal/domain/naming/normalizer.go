// Package naming maps free-form function labels to identifiers accepted by
// the remote assistant API: at most 64 lowercased characters drawn from
// [a-z0-9_-].
package naming

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MaxNameLength is the identifier length limit imposed by the remote tool API.
const MaxNameLength = 64

// Normalize converts a raw function name into its canonical form. It is pure
// and total: any input, including the empty string, yields a usable
// identifier. Distinct raw names may collapse to the same canonical name.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if mapped, ok := translitTable[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	// Whitespace runs become a single separator before filtering.
	var filtered strings.Builder
	filtered.Grow(b.Len())
	pendingSep := false
	for _, r := range b.String() {
		if unicode.IsSpace(r) {
			pendingSep = true
			continue
		}
		if !isAllowed(r) {
			continue
		}
		if pendingSep && filtered.Len() > 0 {
			filtered.WriteByte('_')
		}
		pendingSep = false
		filtered.WriteRune(r)
	}

	name := strings.ToLower(filtered.String())
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	name = strings.Trim(name, "_-")

	if name == "" {
		return fallbackName(time.Now())
	}
	return name
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// fallbackName produces a usable identifier when normalization strips the
// entire input away.
func fallbackName(now time.Time) string {
	return fmt.Sprintf("function_%d", now.Unix())
}
