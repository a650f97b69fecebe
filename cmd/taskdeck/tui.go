package main

import (
	"github.com/spf13/cobra"

	"github.com/metalagman/taskdeck/internal/logging"
	"github.com/metalagman/taskdeck/internal/state"
	"github.com/metalagman/taskdeck/internal/tui"
	"github.com/metalagman/taskdeck/internal/view"
)

func tuiCmd() *cobra.Command {
	var embedded bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			closeLog, err := logging.OpenFile(cfg.Log.File, logging.Options{Debug: debug, Format: cfg.Log.Format})
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			backend, closeFn, err := openBackend(cmd.Context(), cfg, embedded)
			if err != nil {
				return err
			}
			defer closeFn()

			store := state.New(backend, view.Options{MatchTags: cfg.UI.MatchTags})
			return tui.Run(cmd.Context(), store, tui.Options{
				PageSize: cfg.UI.PageSize,
				Theme:    cfg.UI.Theme,
			})
		},
	}
	cmd.Flags().BoolVar(&embedded, "embedded", false, "use an in-process store instead of the API")
	return cmd
}
