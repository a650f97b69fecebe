package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdeck.yaml")
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", path)

	cmd := initCmd()
	require.NoError(t, cmd.RunE(cmd, nil))
	require.Error(t, cmd.RunE(cmd, nil), "second run without --force")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}
