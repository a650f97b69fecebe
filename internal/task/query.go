package task

import "strings"

// All is the filter value that matches every status or priority.
const All = "all"

// Query narrows a task listing. Empty or "all" fields do not constrain.
type Query struct {
	Status   string
	Priority string
	Search   string
	// MatchTags extends Search to the task tags.
	MatchTags bool
}

// Matches reports whether t satisfies every constraint of q.
func (q Query) Matches(t Task) bool {
	if q.Status != "" && q.Status != All && string(t.Status) != q.Status {
		return false
	}
	if q.Priority != "" && q.Priority != All && string(t.Priority) != q.Priority {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	if q.MatchTags {
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
	}
	return false
}

// Filter returns the tasks of in matching q, keeping their order.
func Filter(in []Task, q Query) []Task {
	out := make([]Task, 0, len(in))
	for _, t := range in {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
