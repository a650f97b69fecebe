// Package view derives the visible task list from the raw collection and the
// active filters, and slices it into pages.
package view

import (
	"sort"
	"strings"
	"sync"

	"github.com/metalagman/taskdeck/internal/task"
)

// Filters is the client-held filter state.
type Filters struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Search   string `json:"search"`
}

// DefaultFilters matches every task.
func DefaultFilters() Filters {
	return Filters{Status: task.All, Priority: task.All}
}

// Active reports whether any filter narrows the list.
func (f Filters) Active() bool {
	return (f.Status != "" && f.Status != task.All) ||
		(f.Priority != "" && f.Priority != task.All) ||
		strings.TrimSpace(f.Search) != ""
}

// Merge returns f with the present fields of p applied.
func (f Filters) Merge(p FilterPatch) Filters {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	return f
}

// FilterPatch is a shallow update of Filters.
type FilterPatch struct {
	Status   *string
	Priority *string
	Search   *string
}

// Options tune the pipeline.
type Options struct {
	// MatchTags extends search to task tags.
	MatchTags bool
}

// Result is the derived list.
type Result struct {
	Tasks    []task.Task
	Total    int
	Filtered bool
}

// Derive filters tasks by status, priority and search text and sorts the
// survivors newest first. The input slice is not modified.
func Derive(tasks []task.Task, f Filters, opts Options) Result {
	q := task.Query{
		Status:    f.Status,
		Priority:  f.Priority,
		Search:    f.Search,
		MatchTags: opts.MatchTags,
	}
	out := task.Filter(tasks, q)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return Result{
		Tasks:    out,
		Total:    len(tasks),
		Filtered: f.Active(),
	}
}

// Selector memoizes Derive against the collection revision and the filters.
type Selector struct {
	Options Options

	mu       sync.Mutex
	valid    bool
	revision uint64
	filters  Filters
	result   Result
	runs     int
}

// Select returns the derived view, recomputing only when revision or
// filters differ from the previous call.
func (s *Selector) Select(revision uint64, tasks []task.Task, f Filters) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid && s.revision == revision && s.filters == f {
		return s.result
	}
	s.result = Derive(tasks, f, s.Options)
	s.revision = revision
	s.filters = f
	s.valid = true
	s.runs++
	return s.result
}

// Computations reports how many times the view was recomputed.
func (s *Selector) Computations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
