package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "KENV_CONFIG"
	// PathEnv names a configuration file to load.
	PathEnv = EnvPrefix + "_PATH"
	// ProfilePathsEnv lists extra profile locations, separated by the OS
	// path list separator.
	ProfilePathsEnv = "KENV_PROFILE_PATHS"
	// SessionDirEnv is set in the environment of launched processes to the
	// session directory.
	SessionDirEnv = "KENV_SESSION_DIR"
)

// Config is the kenv runtime configuration.
type Config struct {
	ProfileRoots    []string `yaml:"profile_roots"`
	SessionRoot     string   `yaml:"session_root"`
	SessionLifetime float64  `yaml:"session_lifetime"`
	LogLevel        string   `yaml:"cli_logging_default_level"`
	LogFormat       string   `yaml:"cli_logging_format"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		SessionRoot:     defaultSessionRoot(),
		SessionLifetime: 24 * 7,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func defaultSessionRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "kenvmanager", "sessions")
	}
	return filepath.Join(os.TempDir(), "kenvmanager", "sessions")
}

// FromFile reads a YAML configuration file. Keys absent from the file keep
// their default; unknown keys are an error.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user configuration file
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration content over the defaults.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnvironment loads the file named by KENV_CONFIG_PATH, if set, then
// applies the KENV_CONFIG_<FIELD> overrides.
func FromEnvironment() (*Config, error) {
	return fromEnvironment(os.Getenv)
}

func fromEnvironment(getenv func(string) string) (*Config, error) {
	c := Default()
	if path := getenv(PathEnv); path != "" {
		var err error
		if c, err = FromFile(path); err != nil {
			return nil, err
		}
	}
	for _, f := range Fields() {
		v := getenv(f.Env)
		if v == "" {
			continue
		}
		if err := f.set(c, v); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Env, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.SessionLifetime < 0 {
		return fmt.Errorf("config: session_lifetime must not be negative: %v", c.SessionLifetime)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: cli_logging_default_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: cli_logging_format must be text or json: %q", c.LogFormat)
	}
	return nil
}

// Lifetime returns SessionLifetime as a duration.
func (c *Config) Lifetime() time.Duration {
	return time.Duration(c.SessionLifetime * float64(time.Hour))
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// Locations returns the profile locations to search: extra first, then
// KENV_PROFILE_PATHS, then ProfileRoots. Duplicates keep their first
// position.
func (c *Config) Locations(extra []string) []string {
	return c.locations(extra, os.Getenv)
}

func (c *Config) locations(extra []string, getenv func(string) string) []string {
	var all []string
	all = append(all, extra...)
	all = append(all, splitList(getenv(ProfilePathsEnv))...)
	all = append(all, c.ProfileRoots...)

	out := make([]string, 0, len(all))
	for _, loc := range all {
		if loc == "" {
			continue
		}
		loc = filepath.Clean(os.ExpandEnv(loc))
		if !slices.Contains(out, loc) {
			out = append(out, loc)
		}
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, string(os.PathListSeparator))
}

// ParseLevel parses a level name such as "debug" or "WARNING", or a numeric
// slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return slog.LevelWarn, nil
	case "critical", "fatal":
		return slog.LevelError, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
