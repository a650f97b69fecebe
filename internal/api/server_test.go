package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalagman/taskdeck/internal/task"
)

func newTestServer(t *testing.T) (http.Handler, *task.MemoryRepository) {
	t.Helper()
	seed, err := task.SeedTasks()
	require.NoError(t, err)
	repo := task.NewMemoryRepository(seed)
	srv := NewServer(task.NewService(repo), zerolog.Nop())
	return srv.Routes(), repo
}

func jsonReq(method, path string, body any) *http.Request {
	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
	default:
		b, _ = json.Marshal(v)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func count(t *testing.T, repo *task.MemoryRepository) int {
	t.Helper()
	all, err := repo.All(context.Background())
	require.NoError(t, err)
	return len(all)
}

func validBody() map[string]any {
	return map[string]any{
		"title":       "Review PR",
		"description": "Check the new endpoint",
		"priority":    "high",
		"status":      "todo",
		"dueDate":     "2025-09-30",
		"tags":        []string{"review", "review"},
		"assignedTo":  "Kim",
	}
}

func TestList(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, jsonReq(http.MethodGet, "/tasks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Len(t, decode[[]task.Task](t, rec), 5)

	rec = do(t, h, jsonReq(http.MethodGet, "/tasks?status=todo&priority=medium", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	for _, tk := range decode[[]task.Task](t, rec) {
		assert.Equal(t, task.StatusTodo, tk.Status)
		assert.Equal(t, task.PriorityMedium, tk.Priority)
	}

	rec = do(t, h, jsonReq(http.MethodGet, "/tasks?search=AUTH", nil))
	got := decode[[]task.Task](t, rec)
	require.Len(t, got, 1, "search covers tags")
	assert.Equal(t, "Fix login redirect bug", got[0].Title)

	rec = do(t, h, jsonReq(http.MethodGet, "/tasks?search=nothing-matches", nil))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCreate(t *testing.T) {
	h, repo := newTestServer(t)

	rec := do(t, h, jsonReq(http.MethodPost, "/tasks", validBody()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[task.Task](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, []string{"review", "review"}, created.Tags)
	assert.Equal(t, 6, count(t, repo))

	rec = do(t, h, jsonReq(http.MethodGet, "/tasks/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[task.Task](t, rec)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
	fetched.CreatedAt = created.CreatedAt
	assert.Equal(t, created, fetched)
}

func TestCreate_IgnoresClientIDAndCreatedAt(t *testing.T) {
	h, _ := newTestServer(t)
	body := validBody()
	body["id"] = "client-chosen"
	body["createdAt"] = "2000-01-01T00:00:00Z"

	rec := do(t, h, jsonReq(http.MethodPost, "/tasks", body))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[task.Task](t, rec)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.NotEqual(t, 2000, created.CreatedAt.Year())
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		edit func(b map[string]any)
		want string
	}{
		{name: "empty title", edit: func(b map[string]any) { b["title"] = "" }, want: "title"},
		{name: "blank title", edit: func(b map[string]any) { b["title"] = "   " }, want: "title"},
		{name: "missing due date", edit: func(b map[string]any) { delete(b, "dueDate") }, want: "dueDate"},
		{name: "invalid due date", edit: func(b map[string]any) { b["dueDate"] = "tomorrow" }, want: "dueDate"},
		{name: "invalid priority", edit: func(b map[string]any) { b["priority"] = "urgent" }, want: "low, medium, high"},
		{name: "invalid status", edit: func(b map[string]any) { b["status"] = "blocked" }, want: "todo, in-progress, done"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, repo := newTestServer(t)
			body := validBody()
			tc.edit(body)

			rec := do(t, h, jsonReq(http.MethodPost, "/tasks", body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			msg := decode[map[string]string](t, rec)["error"]
			assert.Contains(t, msg, tc.want)
			assert.Equal(t, 5, count(t, repo))
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	h, repo := newTestServer(t)

	rec := do(t, h, jsonReq(http.MethodPost, "/tasks", "{not json"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, parseErrorMessage, decode[map[string]string](t, rec)["error"])
	assert.Equal(t, 5, count(t, repo))
}

func TestGet_NotFound(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, jsonReq(http.MethodGet, "/tasks/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "task not found", decode[map[string]string](t, rec)["error"])
}

func TestUpdate(t *testing.T) {
	h, repo := newTestServer(t)
	before, err := repo.All(context.Background())
	require.NoError(t, err)
	target := before[0]

	rec := do(t, h, jsonReq(http.MethodPut, "/tasks/"+target.ID, map[string]any{
		"status":    "done",
		"id":        "hijack",
		"createdAt": "2000-01-01T00:00:00Z",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[task.Task](t, rec)

	want := target
	want.Status = task.StatusDone
	assert.True(t, want.CreatedAt.Equal(updated.CreatedAt))
	updated.CreatedAt = want.CreatedAt
	assert.Equal(t, want, updated)
}

func TestUpdate_Errors(t *testing.T) {
	h, repo := newTestServer(t)
	before, err := repo.All(context.Background())
	require.NoError(t, err)
	id := before[0].ID

	rec := do(t, h, jsonReq(http.MethodPut, "/tasks/unknown", map[string]any{"status": "done"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, jsonReq(http.MethodPut, "/tasks/"+id, map[string]any{"title": " "}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, jsonReq(http.MethodPut, "/tasks/"+id, map[string]any{"dueDate": "31/12/2025"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, jsonReq(http.MethodPut, "/tasks/"+id, "nope"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	after, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	h, repo := newTestServer(t)
	before, err := repo.All(context.Background())
	require.NoError(t, err)
	id := before[2].ID

	rec := do(t, h, jsonReq(http.MethodDelete, "/tasks/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted", decode[map[string]string](t, rec)["message"])
	assert.Equal(t, 4, count(t, repo))

	rec = do(t, h, jsonReq(http.MethodGet, "/tasks/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, jsonReq(http.MethodDelete, "/tasks/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 4, count(t, repo))
}

func TestRequestIDEchoed(t *testing.T) {
	h, _ := newTestServer(t)
	req := jsonReq(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")

	rec := do(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
