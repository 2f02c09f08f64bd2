package runconfig_test

import (
	"testing"

	"github.com/nodeflowrun/automator/internal/runconfig"
	"github.com/stretchr/testify/require"
)

func TestFromEnvAndFlagsDefaultsToExplore(t *testing.T) {
	t.Setenv("AUTOMATOR_MODE", "")
	t.Setenv("AUTOMATOR_MOCK_IO", "")
	t.Setenv("AUTOMATOR_RUNS_DIR", "")
	t.Setenv("AUTOMATOR_DEBUG_REF", "")

	cfg, err := runconfig.FromEnvAndFlags("", false, false, false, "")
	require.NoError(t, err)
	require.Equal(t, runconfig.ModeExplore, cfg.Mode)
	require.False(t, cfg.Strict())
}

func TestFromEnvAndFlagsFlagOverridesEnv(t *testing.T) {
	t.Setenv("AUTOMATOR_MODE", "prod")

	cfg, err := runconfig.FromEnvAndFlags("verify", true, false, false, "")
	require.NoError(t, err)
	require.Equal(t, runconfig.ModeVerify, cfg.Mode)
}

func TestFromEnvAndFlagsUsesEnvWhenFlagUnset(t *testing.T) {
	t.Setenv("AUTOMATOR_MODE", "prod")

	cfg, err := runconfig.FromEnvAndFlags("", false, false, false, "")
	require.NoError(t, err)
	require.Equal(t, runconfig.ModeProd, cfg.Mode)
	require.True(t, cfg.Strict())
}

func TestFromEnvAndFlagsRejectsInvalidMode(t *testing.T) {
	_, err := runconfig.FromEnvAndFlags("bogus", true, false, false, "")
	require.Error(t, err)
}

func TestFromEnvAndFlagsMockIOFromVerifyEnv(t *testing.T) {
	t.Setenv("AUTOMATOR_MOCK_IO", "1")

	cfg, err := runconfig.FromEnvAndFlags("verify", true, false, false, "")
	require.NoError(t, err)
	require.True(t, cfg.MockIO)
}

func TestFromEnvAndFlagsMockIOFlagForced(t *testing.T) {
	cfg, err := runconfig.FromEnvAndFlags("explore", true, false, true, "")
	require.NoError(t, err)
	require.True(t, cfg.MockIO)
}
