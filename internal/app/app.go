// Package app wires the task service with fx.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/metalagman/taskdeck/internal/api"
	"github.com/metalagman/taskdeck/internal/config"
	"github.com/metalagman/taskdeck/internal/db"
	"github.com/metalagman/taskdeck/internal/task"
)

// StoreModule provides the repository and the task service.
var StoreModule = fx.Module("store",
	fx.Provide(
		NewRepository,
		newService,
		func(s *task.Service) api.Service { return s },
	),
)

// HTTPModule provides the API handler and starts the HTTP server.
var HTTPModule = fx.Module("http",
	fx.Provide(
		newAPI,
		NewHTTPServer,
	),
	fx.Invoke(func(*HTTPServer) {}),
)

// Server returns the options for a full API server.
func Server(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(newFxLogger),
		StoreModule,
		HTTPModule,
	)
}

// Embedded returns the options for an in-process task service without HTTP.
func Embedded(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(newFxLogger),
		StoreModule,
	)
}

// NewRepository opens the configured backend and loads seed data.
func NewRepository(lc fx.Lifecycle, cfg config.Config) (task.Repository, error) {
	var seed []task.Task
	if cfg.Store.Seed {
		var err error
		if seed, err = task.SeedTasks(); err != nil {
			return nil, err
		}
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Debug().Int("seed", len(seed)).Msg("using memory task store")
		return task.NewMemoryRepository(seed), nil
	case config.DriverSQLite:
		conn, err := db.Open(cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		store := task.NewSQLStore(conn)
		if err := store.Seed(context.Background(), seed); err != nil {
			_ = conn.Close()
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return conn.Close() },
		})
		log.Debug().Int("seed", len(seed)).Msg("using sqlite task store")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newService(repo task.Repository) *task.Service {
	return task.NewService(repo)
}

func newAPI(svc api.Service) http.Handler {
	logger := log.Logger.With().Str("component", "api").Logger()
	return api.NewServer(svc, logger).Routes()
}
