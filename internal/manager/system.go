package manager

import (
	"fmt"
	"os"
	"slices"

	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/merge"
)

// SystemName is the registry name of the system manager.
const SystemName = "system"

// System runs a command directly, with an optional extra environment.
type System struct {
	cfg systemConfig
}

type systemConfig struct {
	Command []string   `yaml:"command"`
	Environ *merge.Map `yaml:"environ,omitempty"`
	Cwd     string     `yaml:"cwd,omitempty"`
}

// NewSystem builds a System manager. The command key is required.
func NewSystem(cfg *merge.Map) (Manager, error) {
	var c systemConfig
	if err := cfg.Decode(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", SystemName, err)
	}
	if len(c.Command) == 0 {
		return nil, fmt.Errorf("%s: command is required", SystemName)
	}
	return &System{cfg: c}, nil
}

func (s *System) Name() string { return SystemName }

// Command returns the configured command followed by extra.
func (s *System) Command(extra []string) (launch.Command, error) {
	env, err := buildEnv(s.cfg.Environ, os.Getenv)
	if err != nil {
		return launch.Command{}, fmt.Errorf("%s: %w", SystemName, err)
	}
	args := append(slices.Clone(s.cfg.Command), extra...)
	return launch.Command{
		Args: args,
		Env:  env,
		Dir:  os.ExpandEnv(s.cfg.Cwd),
	}, nil
}
