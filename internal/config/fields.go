package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Field documents one configuration key.
type Field struct {
	Name string // YAML key
	Env  string // environment variable overriding the key
	Doc  string

	set func(c *Config, v string) error
	get func(c *Config) string
}

// Value returns the value of the field in c, formatted for display.
func (f Field) Value(c *Config) string {
	return f.get(c)
}

func envName(name string) string {
	return EnvPrefix + "_" + strings.ToUpper(name)
}

// Fields returns the documented configuration fields, in file order.
func Fields() []Field {
	return []Field{
		{
			Name: "profile_roots",
			Env:  envName("profile_roots"),
			Doc: "Directories searched for profile files, after --profile-paths and " +
				ProfilePathsEnv + ". In the environment, a list separated by the OS path list separator.",
			set: func(c *Config, v string) error {
				c.ProfileRoots = splitList(v)
				return nil
			},
			get: func(c *Config) string {
				return strings.Join(c.ProfileRoots, ", ")
			},
		},
		{
			Name: "session_root",
			Env:  envName("session_root"),
			Doc:  "Directory in which a session directory is created for every launch.",
			set: func(c *Config, v string) error {
				c.SessionRoot = v
				return nil
			},
			get: func(c *Config) string { return c.SessionRoot },
		},
		{
			Name: "session_lifetime",
			Env:  envName("session_lifetime"),
			Doc:  "Hours after which a session directory is removed by `kenv clean`.",
			set: func(c *Config, v string) error {
				hours, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("session_lifetime must be a number of hours: %q", v)
				}
				c.SessionLifetime = hours
				return nil
			},
			get: func(c *Config) string {
				return strconv.FormatFloat(c.SessionLifetime, 'f', -1, 64)
			},
		},
		{
			Name: "cli_logging_default_level",
			Env:  envName("cli_logging_default_level"),
			Doc:  "Log level used when --debug is not given: debug, info, warning or error.",
			set: func(c *Config, v string) error {
				c.LogLevel = v
				return nil
			},
			get: func(c *Config) string { return c.LogLevel },
		},
		{
			Name: "cli_logging_format",
			Env:  envName("cli_logging_format"),
			Doc:  "Log output format: text or json.",
			set: func(c *Config, v string) error {
				c.LogFormat = v
				return nil
			},
			get: func(c *Config) string { return c.LogFormat },
		},
	}
}

// LookupField returns the field with the given YAML key.
func LookupField(name string) (Field, bool) {
	for _, f := range Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
