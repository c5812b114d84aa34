package manager

import (
	"fmt"
	"os"
	"slices"

	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/merge"
)

// RezEnvName is the registry name of the rez manager.
const RezEnvName = "rezenv"

// RezEnvExecutable is the program RezEnv launches.
const RezEnvExecutable = "rez-env"

// RezEnv resolves a rez environment with rez-env and runs a command inside
// it, or an interactive shell when no command is given.
type RezEnv struct {
	cfg rezEnvConfig
}

type rezEnvConfig struct {
	// Requires maps a package name to a version; an empty version requests
	// any version.
	Requires *merge.Map `yaml:"requires,omitempty"`
	Params   []string   `yaml:"params,omitempty"`
	Environ  *merge.Map `yaml:"environ,omitempty"`
	Command  []string   `yaml:"command,omitempty"`
	Cwd      string     `yaml:"cwd,omitempty"`
}

// NewRezEnv builds a RezEnv manager.
func NewRezEnv(cfg *merge.Map) (Manager, error) {
	var c rezEnvConfig
	if err := cfg.Decode(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", RezEnvName, err)
	}
	if _, err := requestList(c.Requires); err != nil {
		return nil, fmt.Errorf("%s: %w", RezEnvName, err)
	}
	return &RezEnv{cfg: c}, nil
}

func (r *RezEnv) Name() string { return RezEnvName }

// Command returns `rez-env <requests> <params> [-- <command> <extra>]`.
func (r *RezEnv) Command(extra []string) (launch.Command, error) {
	requests, err := requestList(r.cfg.Requires)
	if err != nil {
		return launch.Command{}, fmt.Errorf("%s: %w", RezEnvName, err)
	}
	env, err := buildEnv(r.cfg.Environ, os.Getenv)
	if err != nil {
		return launch.Command{}, fmt.Errorf("%s: %w", RezEnvName, err)
	}

	args := []string{RezEnvExecutable}
	args = append(args, requests...)
	args = append(args, r.cfg.Params...)
	if cmdline := append(slices.Clone(r.cfg.Command), extra...); len(cmdline) > 0 {
		args = append(args, "--")
		args = append(args, cmdline...)
	}

	return launch.Command{
		Args: args,
		Env:  env,
		Dir:  os.ExpandEnv(r.cfg.Cwd),
	}, nil
}

func requestList(requires *merge.Map) ([]string, error) {
	out := make([]string, 0, requires.Len())
	for _, name := range requires.Keys() {
		raw, _ := requires.Get(name)
		version, err := scalarString(raw)
		if err != nil {
			return nil, fmt.Errorf("requires.%s: %w", name, err)
		}
		if version == "" {
			out = append(out, name)
			continue
		}
		out = append(out, name+"-"+version)
	}
	return out, nil
}
