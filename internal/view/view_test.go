package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/metalagman/taskdeck/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func mk(id string, hours int, edit func(*task.Task)) task.Task {
	t := task.Task{
		ID:        id,
		Title:     "Task " + id,
		Priority:  task.PriorityMedium,
		Status:    task.StatusTodo,
		DueDate:   "2025-07-01",
		CreatedAt: base.Add(time.Duration(hours) * time.Hour),
		Tags:      []string{},
	}
	if edit != nil {
		edit(&t)
	}
	return t
}

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestDerive_DefaultFiltersSortsNewestFirst(t *testing.T) {
	tasks := []task.Task{mk("a", 1, nil), mk("b", 3, nil), mk("c", 2, nil)}

	res := Derive(tasks, DefaultFilters(), Options{})
	assert.Equal(t, []string{"b", "c", "a"}, ids(res.Tasks))
	assert.Equal(t, 3, res.Total)
	assert.False(t, res.Filtered)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tasks), "input must not be reordered")
}

func TestDerive_SearchIsCaseInsensitiveOverDescription(t *testing.T) {
	tasks := []task.Task{
		mk("a", 1, func(t *task.Task) { t.Description = "Buy MILK and eggs" }),
		mk("b", 2, func(t *task.Task) { t.Description = "walk the dog" }),
		mk("c", 3, func(t *task.Task) { t.Tags = []string{"milk"} }),
	}

	res := Derive(tasks, Filters{Status: task.All, Priority: task.All, Search: "milk"}, Options{})
	assert.Equal(t, []string{"a"}, ids(res.Tasks))
	assert.True(t, res.Filtered)

	res = Derive(tasks, Filters{Status: task.All, Priority: task.All, Search: "milk"}, Options{MatchTags: true})
	assert.Equal(t, []string{"c", "a"}, ids(res.Tasks))
}

func TestDerive_StatusAndPriority(t *testing.T) {
	tasks := []task.Task{
		mk("a", 1, func(t *task.Task) { t.Status = task.StatusDone; t.Priority = task.PriorityHigh }),
		mk("b", 2, func(t *task.Task) { t.Status = task.StatusDone }),
		mk("c", 3, func(t *task.Task) { t.Priority = task.PriorityHigh }),
	}

	res := Derive(tasks, Filters{Status: "done", Priority: task.All}, Options{})
	assert.Equal(t, []string{"b", "a"}, ids(res.Tasks))

	res = Derive(tasks, Filters{Status: "done", Priority: "high"}, Options{})
	assert.Equal(t, []string{"a"}, ids(res.Tasks))
	assert.Equal(t, 3, res.Total)
}

func TestFiltersActive(t *testing.T) {
	f := DefaultFilters()
	assert.False(t, f.Active())

	tests := []struct {
		name  string
		patch FilterPatch
		reset FilterPatch
	}{
		{name: "status", patch: FilterPatch{Status: ptr("todo")}, reset: FilterPatch{Status: ptr(task.All)}},
		{name: "priority", patch: FilterPatch{Priority: ptr("low")}, reset: FilterPatch{Priority: ptr(task.All)}},
		{name: "search", patch: FilterPatch{Search: ptr("x")}, reset: FilterPatch{Search: ptr("  ")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			on := f.Merge(tc.patch)
			assert.True(t, on.Active())
			assert.False(t, on.Merge(tc.reset).Active())
		})
	}
}

func TestSelector_Memoizes(t *testing.T) {
	tasks := []task.Task{mk("a", 1, nil), mk("b", 2, nil)}
	var s Selector

	first := s.Select(1, tasks, DefaultFilters())
	again := s.Select(1, tasks, DefaultFilters())
	assert.Equal(t, first, again)
	assert.Equal(t, 1, s.Computations())

	s.Select(1, tasks, Filters{Status: "done", Priority: task.All})
	assert.Equal(t, 2, s.Computations())

	s.Select(2, tasks, Filters{Status: "done", Priority: task.All})
	assert.Equal(t, 3, s.Computations())
}

func TestPaginator(t *testing.T) {
	items := make([]int, 13)
	for i := range items {
		items[i] = i
	}
	p := NewPaginator(6)
	p.SetTotal(len(items))

	require.Equal(t, 3, p.TotalPages())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, PageItems(p, items))

	p.GoTo(3)
	assert.Equal(t, []int{12}, PageItems(p, items))
	p.Next()
	assert.Equal(t, 3, p.Page())

	p.GoTo(99)
	assert.Equal(t, 3, p.Page())
	p.GoTo(-1)
	assert.Equal(t, 1, p.Page())
	p.Prev()
	assert.Equal(t, 1, p.Page())
}

func TestPaginator_EmptyHasOnePage(t *testing.T) {
	p := NewPaginator(5)
	assert.Equal(t, 1, p.TotalPages())
	assert.Empty(t, PageItems(p, []string{}))
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
}

func TestPaginator_StepBackAfterRemovingLastItemOfPage(t *testing.T) {
	p := NewPaginator(6)
	p.SetTotal(13)
	p.GoTo(3)

	p.SetTotal(12)
	p.StepBackIfEmpty(12)
	assert.Equal(t, 2, p.Page())

	p.StepBackIfEmpty(12)
	assert.Equal(t, 2, p.Page(), "non-empty page stays")
}

func ExamplePageItems() {
	p := NewPaginator(2)
	letters := []string{"a", "b", "c"}
	p.SetTotal(len(letters))
	p.Next()
	fmt.Println(PageItems(p, letters))
	// Output: [c]
}

func ptr(s string) *string { return &s }
