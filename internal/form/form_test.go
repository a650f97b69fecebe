package form

import (
	"errors"
	"testing"
	"time"

	"github.com/metalagman/taskdeck/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreateDefaults(t *testing.T) {
	f := New(nil)
	assert.False(t, f.Editing())
	assert.Equal(t, "medium", f.Value(Priority))
	assert.Equal(t, "todo", f.Value(Status))
	assert.Empty(t, f.Value(Title))
	assert.False(t, f.Dirty())
}

func TestNew_EditFromTask(t *testing.T) {
	existing := task.Task{
		ID: "t1", Title: "Fix bug", Priority: task.PriorityHigh, Status: task.StatusInProgress,
		DueDate: "2025-08-01", CreatedAt: time.Now(), Tags: []string{"bug", "auth"},
	}
	f := New(&existing)
	assert.True(t, f.Editing())
	assert.Equal(t, "t1", f.EditID())
	assert.Equal(t, "bug, auth", f.Value(Tags))
	assert.Equal(t, "in-progress", f.Value(Status))
}

func TestValidate_RecordsFieldErrors(t *testing.T) {
	f := New(nil)
	require.NoError(t, f.SetField(Title, "   "))
	require.NoError(t, f.SetField(Priority, "urgent"))

	assert.False(t, f.Validate())
	errs := f.Errors()
	assert.Contains(t, errs, Title)
	assert.Contains(t, errs, DueDate)
	assert.Contains(t, errs, Priority)
	assert.NotContains(t, errs, Status)

	require.NoError(t, f.SetField(Title, "ok"))
	assert.Empty(t, f.Error(Title), "setting a field clears its error")
	assert.NotEmpty(t, f.Error(DueDate))
}

func TestSetField_Unknown(t *testing.T) {
	f := New(nil)
	assert.Error(t, f.SetField("color", "red"))
}

func TestSubmit(t *testing.T) {
	f := New(nil)
	called := false
	ok, err := f.Submit(func(task.Draft) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)
	assert.NotEmpty(t, f.Errors())

	require.NoError(t, f.SetField(Title, "  Ship it  "))
	require.NoError(t, f.SetField(DueDate, "2025-09-09"))
	require.NoError(t, f.SetField(Tags, "release, , ops,release"))

	var got task.Draft
	ok, err = f.Submit(func(d task.Draft) error {
		got = d
		return errors.New("network down")
	})
	assert.True(t, ok)
	assert.EqualError(t, err, "network down")
	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, []string{"release", "ops", "release"}, got.Tags)
	assert.Equal(t, task.PriorityMedium, got.Priority)
}

func TestReset(t *testing.T) {
	existing := task.Task{ID: "t1", Title: "Keep", Priority: task.PriorityLow, Status: task.StatusTodo, DueDate: "2025-01-01"}
	f := New(&existing)
	require.NoError(t, f.SetField(Title, ""))
	f.Validate()
	require.NotEmpty(t, f.Errors())
	assert.True(t, f.Dirty())

	f.Reset()
	assert.Equal(t, "Keep", f.Value(Title))
	assert.Empty(t, f.Errors())
	assert.False(t, f.Dirty())
}

func TestPatch_CoversEditableFields(t *testing.T) {
	existing := task.Task{ID: "t1", Title: "Old", Priority: task.PriorityLow, Status: task.StatusTodo, DueDate: "2025-01-01"}
	f := New(&existing)
	require.NoError(t, f.SetField(Status, "done"))

	p := f.Patch()
	require.NotNil(t, p.Status)
	assert.Equal(t, task.StatusDone, *p.Status)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Old", *p.Title)
}
