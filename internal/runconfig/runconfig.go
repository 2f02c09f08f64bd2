// Package runconfig models the process-wide, startup-only configuration
// the spec calls out as something to thread explicitly rather than read
// from ambient globals (spec.md §9 Design Notes: "Global state").
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodeflowrun/automator/internal/resolver"
)

// Mode mirrors resolver.Mode as a string the CLI and environment speak.
type Mode = resolver.Mode

const (
	ModeExplore = resolver.Explore
	ModeVerify  = resolver.Verify
	ModeProd    = resolver.Prod
)

// Config is the immutable, startup-only configuration threaded through
// the driver. It is built once in cmd/automator and passed down — never
// read again from the environment after process start (spec.md §5).
type Config struct {
	Mode       Mode
	RunsDir    string
	Debug      bool
	MockIO     bool
	DryRun     bool
	Quarantine string
}

// FromEnvAndFlags merges the AUTOMATOR_* environment variables with CLI
// flag overrides. Flags win when explicitly set; otherwise the
// environment value applies, falling back to documented defaults
// (spec.md §5, §6.1).
func FromEnvAndFlags(modeFlag string, modeFlagSet bool, dryRun, mockIOFlag bool, quarantinePath string) (Config, error) {
	mode, err := resolveMode(modeFlag, modeFlagSet)
	if err != nil {
		return Config{}, err
	}

	runsDir := os.Getenv("AUTOMATOR_RUNS_DIR")
	if runsDir == "" {
		runsDir = filepath.Join(".", "runs")
	}

	mockIO := mockIOFlag || (mode == ModeVerify && os.Getenv("AUTOMATOR_MOCK_IO") == "1")
	debug := os.Getenv("AUTOMATOR_DEBUG_REF") == "1"

	return Config{
		Mode:       mode,
		RunsDir:    runsDir,
		Debug:      debug,
		MockIO:     mockIO,
		DryRun:     dryRun,
		Quarantine: quarantinePath,
	}, nil
}

func resolveMode(flagValue string, flagSet bool) (Mode, error) {
	raw := flagValue
	if !flagSet {
		if envMode := os.Getenv("AUTOMATOR_MODE"); envMode != "" {
			raw = envMode
		} else if raw == "" {
			raw = "explore"
		}
	}

	switch raw {
	case "explore":
		return ModeExplore, nil
	case "verify":
		return ModeVerify, nil
	case "prod":
		return ModeProd, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: must be explore, verify, or prod", raw)
	}
}

// Strict reports whether the configured mode enforces quarantine and
// rejects template literals (verify and prod both do; explore does not).
func (c Config) Strict() bool {
	return c.Mode == ModeVerify || c.Mode == ModeProd
}
