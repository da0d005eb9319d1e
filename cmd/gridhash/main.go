package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gridhash/gridhash/internal/cli"
	"github.com/gridhash/gridhash/pkg/gridhash"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(gridhash.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(gridhash.ExitCodeForError(err))
	}
}
