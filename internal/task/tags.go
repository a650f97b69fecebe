package task

import "strings"

// ParseTags splits a comma-separated tag string, trimming each tag and
// dropping empty ones. Duplicates are kept in input order.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatTags joins tags into the editable comma-separated form.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
