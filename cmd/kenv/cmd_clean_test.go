package main

import (
	"strings"
	"testing"
	"time"

	"github.com/knotsanimation/kenvmanager/internal/session"
)

func TestRunClean(t *testing.T) {
	sessions := isolateEnv(t)
	for i := 0; i < 2; i++ {
		if _, err := session.Initialize(sessions); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(10 * time.Millisecond)

	out, err := execute(t, "clean", "--lifetime", "1")
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if !strings.Contains(out, "Removed 0 sessions") {
		t.Errorf("recent sessions must be kept:\n%s", out)
	}

	out, err = execute(t, "clean", "--lifetime", "0", "--dry-run")
	if err != nil {
		t.Fatalf("clean --dry-run failed: %v", err)
	}
	if strings.Count(out, "would remove") != 2 {
		t.Errorf("unexpected dry run output:\n%s", out)
	}
	if dirs, _ := session.List(sessions); len(dirs) != 2 {
		t.Fatalf("dry run removed sessions, %d left", len(dirs))
	}

	out, err = execute(t, "clean", "--lifetime", "0")
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if !strings.Contains(out, "Removed 2 sessions") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if dirs, _ := session.List(sessions); len(dirs) != 0 {
		t.Errorf("%d sessions left", len(dirs))
	}
}

func TestRunClean_negativeLifetime(t *testing.T) {
	isolateEnv(t)
	if _, err := execute(t, "clean", "--lifetime", "-2"); err == nil {
		t.Error("negative lifetime must be rejected")
	}
}
