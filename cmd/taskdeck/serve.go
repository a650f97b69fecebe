package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/metalagman/taskdeck/internal/app"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			a := fx.New(app.Server(cfg))
			if err := a.Err(); err != nil {
				return fmt.Errorf("build server: %w", err)
			}
			startCtx, cancel := context.WithTimeout(cmd.Context(), a.StartTimeout())
			defer cancel()
			if err := a.Start(startCtx); err != nil {
				return fmt.Errorf("start server: %w", err)
			}

			sig := <-a.Wait()
			log.Info().Int("exit_code", sig.ExitCode).Msg("shutting down")

			stopCtx, cancelStop := context.WithTimeout(context.Background(), a.StopTimeout())
			defer cancelStop()
			return a.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}
