package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DVF_SNAPSHOT_FILE", "")
	t.Setenv("DVF_PORT", "")

	cfg := Load()
	require.Equal(t, DefaultSnapshotFile, cfg.SnapshotFile)
	require.Equal(t, DefaultPort, cfg.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DVF_SNAPSHOT_FILE", "/srv/dvf/gold.csv")
	t.Setenv("DVF_PORT", "9090")

	cfg := Load()
	require.Equal(t, "/srv/dvf/gold.csv", cfg.SnapshotFile)
	require.Equal(t, "9090", cfg.Port)
}
