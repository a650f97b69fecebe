package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/metalagman/taskdeck/internal/config"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write the default configuration to the --config path (taskdeck.yaml unless set).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := viper.GetString("config")
			if path == "" {
				path = config.DefaultPath
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("config written")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}
