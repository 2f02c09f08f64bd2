package main

import (
	"fmt"
	"os"
)

// exitCode carries the process exit status set by runWorkflow out of
// cobra's RunE, since cobra's own error return only distinguishes success
// from failure and the CLI surface needs the full 0/2/3/4 range (spec.md
// §6.1).
var exitCode int

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
