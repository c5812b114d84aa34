package launch

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommand_Environ(t *testing.T) {
	c := Command{Env: []Var{
		{Name: "PATH", Value: "/opt/bin"},
		{Name: "NEW", Value: "1"},
	}}
	got := c.Environ([]string{"HOME=/home/u", "PATH=/usr/bin", "TERM=xterm"})
	want := []string{"HOME=/home/u", "PATH=/opt/bin", "TERM=xterm", "NEW=1"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Environ() = %v, want %v", got, want)
	}
}

func TestCommand_Environ_duplicateInBase(t *testing.T) {
	c := Command{}
	got := c.Environ([]string{"A=1", "A=2"})
	if len(got) != 1 || got[0] != "A=2" {
		t.Errorf("Environ() = %v, want [A=2]", got)
	}
}

func TestCommand_Lookup(t *testing.T) {
	c := Command{Env: []Var{{Name: "A", Value: "1"}, {Name: "A", Value: "2"}}}
	if v, ok := c.Lookup("A"); !ok || v != "2" {
		t.Errorf("Lookup(A) = %q, %v", v, ok)
	}
	if _, ok := c.Lookup("B"); ok {
		t.Error("B should be missing")
	}
}

func TestCommand_String(t *testing.T) {
	c := Command{Args: []string{"rez-env", "python-3.9", "--", "echo", "it's here", ""}}
	want := `rez-env python-3.9 -- echo 'it'\''s here' ''`
	if got := c.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestExecRunner_exitCode(t *testing.T) {
	var out bytes.Buffer
	r := ExecRunner{Stdout: &out}

	code, err := r.Run(context.Background(), Command{
		Args: []string{"sh", "-c", "echo $KENV_TEST_VAR; exit 3"},
		Env:  []Var{{Name: "KENV_TEST_VAR", Value: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if strings.TrimSpace(out.String()) != "hello" {
		t.Errorf("stdout = %q, want hello", out.String())
	}
}

func TestExecRunner_killedBySignal(t *testing.T) {
	code, err := ExecRunner{}.Run(context.Background(), Command{
		Args: []string{"sh", "-c", "kill -KILL $$"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 128+9 {
		t.Errorf("exit code = %d, want %d", code, 128+9)
	}
}

func TestExecRunner_dir(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	r := ExecRunner{Stdout: &out}

	code, err := r.Run(context.Background(), Command{Args: []string{"pwd"}, Dir: dir})
	if err != nil || code != 0 {
		t.Fatalf("pwd failed: code=%d err=%v", code, err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestExecRunner_missingExecutable(t *testing.T) {
	r := ExecRunner{}
	if _, err := r.Run(context.Background(), Command{Args: []string{"kenv-does-not-exist"}}); err == nil {
		t.Fatal("expected error for missing executable")
	}
}

func TestExecRunner_empty(t *testing.T) {
	if _, err := (ExecRunner{}).Run(context.Background(), Command{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestAvailable(t *testing.T) {
	if !Available("sh") {
		t.Error("sh should be on PATH")
	}
	if Available("kenv-does-not-exist") {
		t.Error("unexpected executable found")
	}
}
