package main

// Blank imports ensure action and mock-IO init() registration runs for the
// CLI binary, the same way Streamy's cmd/streamy/plugins_import.go pulls in
// its step plugins.
import (
	_ "github.com/nodeflowrun/automator/internal/actions/core"
	_ "github.com/nodeflowrun/automator/internal/mockio"
)
