package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Var is one environment variable set on the launched process.
type Var struct {
	Name  string
	Value string
}

// Command describes a process to start.
type Command struct {
	Args []string
	Env  []Var
	Dir  string
}

// Environ overlays c.Env on base, a list of KEY=VALUE entries such as
// os.Environ(). Overridden variables keep their position in base; new ones
// are appended in declaration order.
func (c Command) Environ(base []string) []string {
	index := make(map[string]int, len(base))
	out := make([]string, 0, len(base)+len(c.Env))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if i, ok := index[name]; ok {
			out[i] = kv
			continue
		}
		index[name] = len(out)
		out = append(out, kv)
	}
	for _, v := range c.Env {
		kv := v.Name + "=" + v.Value
		if i, ok := index[v.Name]; ok {
			out[i] = kv
			continue
		}
		index[v.Name] = len(out)
		out = append(out, kv)
	}
	return out
}

// Lookup returns the value c.Env assigns to name.
func (c Command) Lookup(name string) (string, bool) {
	for i := len(c.Env) - 1; i >= 0; i-- {
		if c.Env[i].Name == name {
			return c.Env[i].Value, true
		}
	}
	return "", false
}

// String renders the argv the way a shell user would type it.
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = quote(a)
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Runner starts a Command and waits for it.
type Runner interface {
	Run(ctx context.Context, c Command) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec, inheriting the current environment.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command and returns its exit code. A non-zero exit is not
// an error; failing to start the process is.
func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	if len(c.Args) == 0 {
		return -1, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...) //nolint:gosec // argv comes from the user's profile
	cmd.Dir = c.Dir
	cmd.Env = c.Environ(os.Environ())
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitCode(exitErr.ProcessState), nil
	}
	if err != nil {
		return -1, fmt.Errorf("launching %s: %w", c.Args[0], err)
	}
	return 0, nil
}

// exitCode returns the code of an exited process. A process killed by a
// signal reports 128+signal, like a shell does.
func exitCode(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}

// Available returns true if the executable name is found on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
