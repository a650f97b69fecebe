package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/metalagman/taskdeck/internal/app"
	"github.com/metalagman/taskdeck/internal/client"
	"github.com/metalagman/taskdeck/internal/config"
	"github.com/metalagman/taskdeck/internal/logging"
	"github.com/metalagman/taskdeck/internal/task"
)

// taskService is what every front end needs from the backend, remote or
// in-process.
type taskService interface {
	List(ctx context.Context, q task.Query) ([]task.Task, error)
	Get(ctx context.Context, id string) (task.Task, error)
	Create(ctx context.Context, d task.Draft) (task.Task, error)
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

// loadConfig reads the config selected by --config and applies the log format.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), viper.GetString("config"))
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(logging.Options{Debug: debug, Format: cfg.Log.Format})
	return cfg, nil
}

// openBackend returns an API client, or with embedded an in-process task
// service whose store lives as long as the returned close func is not called.
func openBackend(ctx context.Context, cfg config.Config, embedded bool) (taskService, func(), error) {
	if !embedded {
		c, err := client.NewClient(client.Config{
			BaseURL: cfg.Client.BaseURL,
			Timeout: cfg.Client.Timeout,
		}, nil)
		if err != nil {
			return nil, func() {}, err
		}
		return c, func() {}, nil
	}

	var svc *task.Service
	a := fx.New(app.Embedded(cfg), fx.Populate(&svc))
	if err := a.Err(); err != nil {
		return nil, func() {}, fmt.Errorf("build embedded store: %w", err)
	}
	if err := a.Start(ctx); err != nil {
		return nil, func() {}, fmt.Errorf("start embedded store: %w", err)
	}
	stop := func() { _ = a.Stop(context.Background()) }
	return svc, stop, nil
}
