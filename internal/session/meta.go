package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MetaVersion is the version of the .session meta file format.
const MetaVersion = 1

// Meta represents the .session file of a session directory.
type Meta struct {
	Version     int      `yaml:"version"`
	CreatedAt   string   `yaml:"created_at"`
	ToolVersion string   `yaml:"tool_version,omitempty"`
	Profile     string   `yaml:"profile,omitempty"`
	Managers    []string `yaml:"managers,omitempty"`
}

// LoadMeta reads a .session file.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a session meta file
	if err != nil {
		return nil, fmt.Errorf("reading session meta: %w", err)
	}
	return ParseMeta(data)
}

// ParseMeta parses .session content.
func ParseMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing session meta YAML: %w", err)
	}
	if m.Version != MetaVersion {
		return nil, fmt.Errorf("unsupported session meta version: %d (expected %d)", m.Version, MetaVersion)
	}
	return &m, nil
}

// SaveMeta writes a .session file.
func SaveMeta(path string, m *Meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling session meta: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // session meta needs to be readable
		return fmt.Errorf("writing session meta: %w", err)
	}
	return nil
}
