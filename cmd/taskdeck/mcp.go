package main

import (
	"github.com/spf13/cobra"

	"github.com/metalagman/taskdeck/internal/mcptools"
)

func mcpCmd() *cobra.Command {
	var embedded bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve task tools over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			backend, closeFn, err := openBackend(cmd.Context(), cfg, embedded)
			if err != nil {
				return err
			}
			defer closeFn()
			return mcptools.Serve(cmd.Context(), backend, version)
		},
	}
	cmd.Flags().BoolVar(&embedded, "embedded", false, "use an in-process store instead of the API")
	return cmd
}
