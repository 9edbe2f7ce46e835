package resolve

import (
	"strings"
)

// candidate carries the names a link is matched under: the definition's raw
// label and its canonical form.
type candidate struct {
	raw       string
	canonical string
}

// matcher reports whether the candidate matches the invocation name at one
// tier. Matchers are tried in tierOrder; the first hit wins.
type matcher func(c candidate, invocation string) bool

var matchers = map[Tier]matcher{
	TierExact:           matchExact,
	TierCaseInsensitive: matchCaseInsensitive,
	TierContainment:     matchContainment,
	TierCategory:        matchCategory,
	TierTokenOverlap:    matchTokenOverlap,
}

func matchExact(c candidate, invocation string) bool {
	return c.canonical == invocation
}

func matchCaseInsensitive(c candidate, invocation string) bool {
	return strings.EqualFold(c.canonical, invocation)
}

func matchContainment(c candidate, invocation string) bool {
	a := strings.ToLower(c.canonical)
	b := strings.ToLower(invocation)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchCategory compares coarse keyword categories of the raw label and the
// invocation name.
func matchCategory(c candidate, invocation string) bool {
	invCategory := categoryOf(invocation)
	if invCategory == "" {
		return false
	}
	if categoryOf(c.raw) == invCategory {
		return true
	}
	return categoryOf(c.canonical) == invCategory
}

// matchTokenOverlap splits both names into tokens longer than two characters
// and looks for any pair that is equal or contains one another.
func matchTokenOverlap(c candidate, invocation string) bool {
	left := tokens(c.canonical)
	right := tokens(invocation)
	for _, lt := range left {
		for _, rt := range right {
			if lt == rt || strings.Contains(lt, rt) || strings.Contains(rt, lt) {
				return true
			}
		}
	}
	return false
}

func tokens(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}
