package main

import (
	"strings"
	"testing"

	"github.com/knotsanimation/kenvmanager/internal/testutil"
)

func TestRunCheck(t *testing.T) {
	isolateEnv(t)
	dir := setupProfiles(t)

	out, err := execute(t, "--profile-paths", dir, "check")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[1/2] ok") || !strings.Contains(out, "[2/2] ok") {
		t.Errorf("unexpected progress:\n%s", out)
	}
	if !strings.Contains(out, "2 profiles checked") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestRunCheck_invalid(t *testing.T) {
	isolateEnv(t)
	dir := setupProfiles(t)
	testutil.WriteProfile(t, dir, "conda", "1", "", "conda:\n  env: base")
	testutil.WriteFile(t, dir, "future.yml", "__magic__: kenvmanager_profile:999\nidentifier: future\n")

	out, err := execute(t, "--profile-paths", dir, "check")
	if err == nil || !strings.Contains(err.Error(), "2 of 4 profiles are invalid") {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "no manager registered with the name <conda>") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
