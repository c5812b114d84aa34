// Package config loads the kenv runtime configuration from an optional YAML
// file and KENV_CONFIG_* environment overrides.
package config
