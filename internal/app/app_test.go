package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/metalagman/taskdeck/internal/app"
	"github.com/metalagman/taskdeck/internal/config"
	"github.com/metalagman/taskdeck/internal/task"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestServer_ServesSeededTasks(t *testing.T) {
	var srv *app.HTTPServer
	a := fxtest.New(t, app.Server(testConfig()), fx.Populate(&srv))
	a.RequireStart()
	defer a.RequireStop()

	resp, err := http.Get("http://" + srv.Addr() + "/tasks")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []task.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	assert.Len(t, tasks, 5)
}

func TestEmbedded_SQLiteBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = filepath.Join(t.TempDir(), "tasks.db")

	var svc *task.Service
	a := fxtest.New(t, app.Embedded(cfg), fx.Populate(&svc))
	a.RequireStart()
	defer a.RequireStop()

	ctx := context.Background()
	all, err := svc.List(ctx, task.Query{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	created, err := svc.Create(ctx, task.Draft{
		Title:    "Persist me",
		Priority: task.PriorityLow,
		Status:   task.StatusTodo,
		DueDate:  "2025-12-01",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persist me", got.Title)
}

func TestEmbedded_WithoutSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Seed = false

	var repo task.Repository
	a := fxtest.New(t, app.Embedded(cfg), fx.Populate(&repo))
	a.RequireStart()
	defer a.RequireStop()

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "redis"

	_, err := app.NewRepository(fxtest.NewLifecycle(t), cfg)
	require.Error(t, err)
}
