package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/knotsanimation/kenvmanager/internal/ui"
)

// Set via -ldflags at build time.
var version = "dev"

// exitError carries the exit code of a launched environment.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("environment exited with code %d", e.code)
}

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	msg := "Error: " + err.Error()
	if ui.IsTerminal(os.Stderr) {
		msg = ui.ErrorStyle.Render(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
