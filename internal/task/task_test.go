package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Title:    "Write report",
		Priority: PriorityMedium,
		Status:   StatusTodo,
		DueDate:  "2025-09-01",
	}
}

func TestDraftValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(d *Draft)
		field string
		want  string
	}{
		{name: "blank title", edit: func(d *Draft) { d.Title = "   " }, field: FieldTitle, want: "title is required and cannot be empty"},
		{name: "missing due date", edit: func(d *Draft) { d.DueDate = "" }, field: FieldDueDate, want: "dueDate is required"},
		{name: "bad due date", edit: func(d *Draft) { d.DueDate = "2025-02-30" }, field: FieldDueDate, want: "dueDate must be a valid date (YYYY-MM-DD)"},
		{name: "bad priority", edit: func(d *Draft) { d.Priority = "urgent" }, field: FieldPriority, want: "invalid priority: must be one of low, medium, high"},
		{name: "bad status", edit: func(d *Draft) { d.Status = "blocked" }, field: FieldStatus, want: "invalid status: must be one of todo, in-progress, done"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := validDraft()
			tc.edit(&d)
			err := d.Validate()
			verr, ok := AsValidationError(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Equal(t, tc.want, verr.Fields[tc.field])
		})
	}
}

func TestDraftValidate_AcceptsValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, validDraft().Validate())

	d := validDraft()
	d.DueDate = "2025-09-01T10:00:00Z"
	require.NoError(t, d.Validate())
}

func TestValidationError_FirstUsesFieldOrder(t *testing.T) {
	t.Parallel()

	d := Draft{}
	err := d.Validate()
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, "title is required and cannot be empty", verr.Error())
}

func TestPatchValidate(t *testing.T) {
	t.Parallel()

	empty := ""
	bad := "not a date"
	done := StatusDone
	require.NoError(t, Patch{Status: &done}.Validate())
	require.NoError(t, Patch{}.Validate())

	err := Patch{Title: &empty, DueDate: &bad}.Validate()
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, FieldTitle)
	assert.Contains(t, verr.Fields, FieldDueDate)

	wrong := Priority("urgent")
	err = Patch{Priority: &wrong}.Validate()
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid priority: must be one of low, medium, high", verr.Fields[FieldPriority])
}

func TestPatchApply_OnlyChangesPresentFields(t *testing.T) {
	t.Parallel()

	orig := Task{ID: "a", Title: "A", Description: "d", Priority: PriorityLow, Status: StatusTodo, DueDate: "2025-01-01", Tags: []string{"x"}}
	got := orig.Clone()
	done := StatusDone
	Patch{Status: &done}.Apply(&got)

	want := orig.Clone()
	want.Status = StatusDone
	assert.Equal(t, want, got)
}

func TestPatchFromDraft(t *testing.T) {
	t.Parallel()

	d := validDraft()
	d.Tags = []string{"a", "b"}
	p := PatchFromDraft(d)
	var got Task
	p.Apply(&got)
	assert.Equal(t, d.Title, got.Title)
	assert.Equal(t, d.DueDate, got.DueDate)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.False(t, p.Empty())
	assert.True(t, Patch{}.Empty())
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "a"}, ParseTags(" a, b ,, a ,"))
	assert.Empty(t, ParseTags(""))
	assert.Equal(t, "a, b", FormatTags([]string{"a", "b"}))
	assert.Equal(t, []string{"x", "y"}, ParseTags(FormatTags([]string{"x", "y"})))
}

func TestQueryMatches(t *testing.T) {
	t.Parallel()

	tk := Task{Title: "Deploy", Description: "Ship the Release", Status: StatusTodo, Priority: PriorityHigh, Tags: []string{"Ops"}}

	assert.True(t, Query{}.Matches(tk))
	assert.True(t, Query{Status: All, Priority: All}.Matches(tk))
	assert.True(t, Query{Status: "todo", Priority: "high"}.Matches(tk))
	assert.False(t, Query{Status: "done"}.Matches(tk))
	assert.False(t, Query{Priority: "low"}.Matches(tk))
	assert.True(t, Query{Search: "  release "}.Matches(tk))
	assert.False(t, Query{Search: "ops"}.Matches(tk))
	assert.True(t, Query{Search: "ops", MatchTags: true}.Matches(tk))
}

func TestSeedTasks(t *testing.T) {
	t.Parallel()

	tasks, err := SeedTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	ids := map[string]bool{}
	for _, tk := range tasks {
		assert.NotEmpty(t, tk.ID)
		assert.False(t, ids[tk.ID], "duplicate id %s", tk.ID)
		ids[tk.ID] = true
		assert.True(t, tk.Priority.Valid())
		assert.True(t, tk.Status.Valid())
		assert.False(t, tk.CreatedAt.IsZero())
		assert.NoError(t, Draft{Title: tk.Title, Priority: tk.Priority, Status: tk.Status, DueDate: tk.DueDate}.Validate())
	}
}
