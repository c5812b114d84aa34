package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/knotsanimation/kenvmanager/internal/config"
	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/testutil"
	"github.com/spf13/cobra"
)

// fakeRunner records launched commands instead of starting them.
type fakeRunner struct {
	commands []launch.Command
	codes    []int
}

func (f *fakeRunner) Run(_ context.Context, c launch.Command) (int, error) {
	f.commands = append(f.commands, c)
	if i := len(f.commands) - 1; i < len(f.codes) {
		return f.codes[i], nil
	}
	return 0, nil
}

func useFakeRunner(t *testing.T, codes ...int) *fakeRunner {
	t.Helper()
	f := &fakeRunner{codes: codes}
	orig := newRunner
	newRunner = func(*cobra.Command) launch.Runner { return f }
	t.Cleanup(func() { newRunner = orig })
	return f
}

// isolateEnv clears the kenv environment and points sessions to a temp dir.
// It returns the session root.
func isolateEnv(t *testing.T) string {
	t.Helper()
	sessions := t.TempDir()
	t.Setenv(config.PathEnv, "")
	t.Setenv(config.ProfilePathsEnv, "")
	for _, f := range config.Fields() {
		t.Setenv(f.Env, "")
	}
	t.Setenv("KENV_CONFIG_SESSION_ROOT", sessions)
	return sessions
}

// setupProfiles writes a studio profile and an lxm profile inheriting from
// it, and returns their directory.
func setupProfiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteProfile(t, dir, "studio", "1.0.0", "", `
rezenv:
  requires:
    python: "3.9"
  params: [--verbose]
  environ:
    LXMCUSTOM: "1"
`)
	testutil.WriteProfile(t, dir, "lxm", "0.1.0", "studio", `
rezenv:
  requires:
    maya: "2023"
  +=params: [--stats]
system:
  command: [bash]
`)
	return dir
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
