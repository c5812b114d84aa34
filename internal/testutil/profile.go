package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProfileYAML builds the content of a profile file. managers is the YAML body
// of the managers mapping, written without indentation; an empty string
// yields an empty mapping.
func ProfileYAML(identifier, version, base, managers string) string {
	var b strings.Builder
	b.WriteString("__magic__: kenvmanager_profile:2\n")
	b.WriteString("identifier: " + identifier + "\n")
	b.WriteString("version: \"" + version + "\"\n")
	if base != "" {
		b.WriteString("base: " + base + "\n")
	}
	if strings.TrimSpace(managers) == "" {
		b.WriteString("managers: {}\n")
		return b.String()
	}
	b.WriteString("managers:\n")
	for _, line := range strings.Split(strings.Trim(managers, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// WriteFile writes content to dir/name, creating dir if needed, and returns
// the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// WriteProfile writes a profile file named <identifier>.yml into dir and
// returns its path.
func WriteProfile(t *testing.T, dir, identifier, version, base, managers string) string {
	t.Helper()
	return WriteFile(t, dir, identifier+".yml", ProfileYAML(identifier, version, base, managers))
}
