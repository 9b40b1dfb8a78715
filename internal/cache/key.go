package cache

import (
	"sort"
	"strings"
)

// Key derives a deterministic cache key from a logical resource name and its
// query parameters. Parameters are sorted by name so callers get the same key
// regardless of insertion order.
func Key(resource string, params map[string]string) string {
	if len(params) == 0 {
		return resource
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	var b strings.Builder

	b.WriteString(resource)

	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}

	return b.String()
}
