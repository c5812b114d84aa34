package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/knotsanimation/kenvmanager/internal/config"
	"github.com/knotsanimation/kenvmanager/internal/manager"
	"github.com/knotsanimation/kenvmanager/internal/profile"
)

// Options are the command line inputs to Load.
type Options struct {
	ProfilePaths []string
	Debug        bool
	LogOutput    io.Writer
}

// Context holds the loaded configuration and the services built from it.
type Context struct {
	Config     *config.Config
	Locations  []string
	Logger     *slog.Logger
	Repository *profile.Repository
	Registry   *manager.Registry
}

// Load reads the configuration from the environment and builds a Context.
func Load(opts Options) (*Context, error) {
	cfg, err := config.FromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return New(cfg, opts), nil
}

// New builds a Context from an already loaded configuration.
func New(cfg *config.Config, opts Options) *Context {
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := NewLogger(out, cfg, opts.Debug)
	locations := cfg.Locations(opts.ProfilePaths)
	logger.Debug("profile locations", "locations", strings.Join(locations, ", "))

	return &Context{
		Config:     cfg,
		Locations:  locations,
		Logger:     logger,
		Repository: profile.NewRepository(locations, profile.WithLogger(logger)),
		Registry:   manager.DefaultRegistry(),
	}
}

// NewLogger returns a text or JSON logger, depending on the configured
// format, at the configured level or at debug level when debug is set.
func NewLogger(w io.Writer, cfg *config.Config, debug bool) *slog.Logger {
	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// Resolve reads the profile declaring id and flattens its inheritance chain.
func (c *Context) Resolve(id string) (*profile.Profile, error) {
	p, err := c.Repository.ReadProfileByID(id)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("resolving profile", "identifier", id, "chain", strings.Join(p.Chain(), " <- "))
	return p.MergedProfile()
}

// Managers builds the managers of a resolved profile.
func (c *Context) Managers(p *profile.Profile) ([]manager.Manager, error) {
	return p.Managers.Unserialize(c.Registry)
}

// SelectManager narrows mgrs to the one named name. An empty name selects
// all of them.
func SelectManager(mgrs []manager.Manager, name string) ([]manager.Manager, error) {
	if name == "" {
		return mgrs, nil
	}
	names := make([]string, len(mgrs))
	for i, m := range mgrs {
		if m.Name() == name {
			return []manager.Manager{m}, nil
		}
		names[i] = m.Name()
	}
	return nil, fmt.Errorf("profile has no manager %q (available: %s): %w", name, strings.Join(names, ", "), manager.ErrLookup)
}
