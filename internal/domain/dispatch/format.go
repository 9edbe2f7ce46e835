package dispatch

import (
	"fmt"
	"sort"
	"strings"
)

// EmptyPayloadText replaces an empty rendering; dispatch never sends an
// empty message.
const EmptyPayloadText = "no data"

// FormatArguments renders a call's arguments as one "key: value" line per
// top-level pair. Arrays of objects are flattened the same way per element.
// Keys are sorted so the rendering is stable.
func FormatArguments(args map[string]any) string {
	lines := renderMap(args)
	if len(lines) == 0 {
		return EmptyPayloadText
	}
	return strings.Join(lines, "\n")
}

func renderMap(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		lines = append(lines, renderValue(k, m[k])...)
	}
	return lines
}

func renderValue(key string, value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		return renderMap(v)
	case []any:
		var lines []string
		for _, item := range v {
			if nested, ok := item.(map[string]any); ok {
				lines = append(lines, renderMap(nested)...)
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %v", key, item))
		}
		return lines
	case string:
		if v == "" {
			return nil
		}
		return []string{fmt.Sprintf("%s: %s", key, v)}
	default:
		return []string{fmt.Sprintf("%s: %v", key, v)}
	}
}
