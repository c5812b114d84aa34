// Package manager defines the package managers a profile can configure and
// the registry used to build them by name.
package manager

import (
	"errors"
	"slices"

	"github.com/knotsanimation/kenvmanager/internal/launch"
	"github.com/knotsanimation/kenvmanager/internal/merge"
)

// ErrLookup is returned when a profile names a manager that no registry
// entry provides.
var ErrLookup = errors.New("manager not registered")

// Manager is a configured package manager, ready to produce the command that
// starts a process inside its environment.
type Manager interface {
	// Name is the registry name the manager was built from.
	Name() string
	// Command returns the invocation with extra appended to the launched
	// command line.
	Command(extra []string) (launch.Command, error)
}

// Factory builds a Manager from its resolved configuration block.
type Factory func(cfg *merge.Map) (Manager, error)

// Registry maps manager names to factories.
type Registry struct {
	factories map[string]Factory
	names     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in manager.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SystemName, NewSystem)
	r.Register(RezEnvName, NewRezEnv)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
