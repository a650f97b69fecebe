package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalagman/taskdeck/internal/form"
	"github.com/metalagman/taskdeck/internal/task"
	"github.com/metalagman/taskdeck/internal/view"
)

func newService(t *testing.T) *task.Service {
	t.Helper()
	seed, err := task.SeedTasks()
	require.NoError(t, err)
	return task.NewService(task.NewMemoryRepository(seed))
}

func TestListTasks_PaginatesDerivedView(t *testing.T) {
	svc := newService(t)
	var out bytes.Buffer

	err := listTasks(context.Background(), svc, &out, listOptions{
		status: task.All, priority: task.All, page: 3, pageSize: 2,
	}, view.Options{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Design landing page")
	assert.NotContains(t, out.String(), "Plan sprint retrospective")
	assert.Contains(t, out.String(), "page 3 of 3 (5 of 5 tasks)")
}

func TestListTasks_ClampsPageAndFilters(t *testing.T) {
	svc := newService(t)
	var out bytes.Buffer

	err := listTasks(context.Background(), svc, &out, listOptions{
		status: "todo", priority: task.All, page: 9, pageSize: 5,
	}, view.Options{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "page 1 of 1 (2 of 5 tasks)")

	out.Reset()
	err = listTasks(context.Background(), svc, &out, listOptions{
		status: task.All, priority: task.All, search: "devops", page: 1, pageSize: 5,
	}, view.Options{})
	require.NoError(t, err)
	assert.Equal(t, "no tasks match the filters\n", out.String())

	out.Reset()
	err = listTasks(context.Background(), svc, &out, listOptions{
		status: task.All, priority: task.All, search: "devops", page: 1, pageSize: 5,
	}, view.Options{MatchTags: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Set up CI pipeline")
}

func TestAddTask(t *testing.T) {
	svc := newService(t)

	created, err := addTask(context.Background(), svc, map[form.Field]string{
		form.Title:    "  Book venue ",
		form.Priority: "high",
		form.Status:   "todo",
		form.DueDate:  "2025-09-09",
		form.Tags:     "events, , events",
	})
	require.NoError(t, err)
	assert.Equal(t, "Book venue", created.Title)
	assert.Equal(t, []string{"events", "events"}, created.Tags)

	_, err = addTask(context.Background(), svc, map[form.Field]string{
		form.Priority: "urgent",
		form.Status:   "todo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title:")
	assert.Contains(t, err.Error(), "--priority:")
	assert.Contains(t, err.Error(), "--due:")

	all, err := svc.List(context.Background(), task.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestPatchFromFields(t *testing.T) {
	p := patchFromFields(map[form.Field]string{
		form.Status: "done",
		form.Tags:   "a, b",
	})
	require.NotNil(t, p.Status)
	assert.Equal(t, task.StatusDone, *p.Status)
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{"a", "b"}, *p.Tags)
	assert.Nil(t, p.Title)
	assert.Nil(t, p.DueDate)
}

func TestPrintTask(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printTask(&out, task.Task{ID: "t1", Title: "Ship", Description: "Soon", Tags: []string{"x"}}))
	assert.Contains(t, out.String(), "t1")
	assert.Contains(t, out.String(), "Soon")
}
