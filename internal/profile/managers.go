package profile

import (
	"fmt"

	"github.com/knotsanimation/kenvmanager/internal/manager"
	"github.com/knotsanimation/kenvmanager/internal/merge"
	"gopkg.in/yaml.v3"
)

// Managers is the serialized configuration of a profile's package managers:
// one mapping block per manager name, whose keys may carry append rules.
type Managers struct {
	content *merge.Map
}

// NewManagers wraps content. A nil content yields empty managers.
func NewManagers(content *merge.Map) Managers {
	if content == nil {
		content = merge.New()
	}
	return Managers{content: content}
}

// ParseManagers parses a YAML mapping of manager blocks.
func ParseManagers(data []byte) (Managers, error) {
	content, err := merge.FromYAML(data)
	if err != nil {
		return Managers{}, fmt.Errorf("parsing managers: %w", err)
	}
	m := NewManagers(content)
	if err := m.validate(); err != nil {
		return Managers{}, err
	}
	return m, nil
}

// Names returns the manager names in declaration order.
func (m Managers) Names() []string {
	return m.content.Keys()
}

// Map returns a copy of the tokenized content.
func (m Managers) Map() *merge.Map {
	return m.content.Clone()
}

// Equal reports whether both hold the same tokenized content.
func (m Managers) Equal(o Managers) bool {
	return m.content.Equal(o.content)
}

// Combine merges other on top of m. Blocks of other override or append to
// the blocks of m according to their rules.
func (m Managers) Combine(other Managers) (Managers, error) {
	if err := m.validate(); err != nil {
		return Managers{}, err
	}
	if err := other.validate(); err != nil {
		return Managers{}, err
	}
	return Managers{content: merge.DeepMerge(m.content, other.content)}, nil
}

// Resolved returns the content with every append rule dropped. The result is
// plain configuration, not Managers.
func (m Managers) Resolved() *merge.Map {
	return merge.Resolve(m.content)
}

// Unserialize builds one manager per block, in declaration order, using the
// factories of reg.
func (m Managers) Unserialize(reg *manager.Registry) ([]manager.Manager, error) {
	content := m.Resolved()
	out := make([]manager.Manager, 0, content.Len())
	for _, name := range content.Keys() {
		factory, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("no manager registered with the name <%s>: %w", name, manager.ErrLookup)
		}
		block, _ := content.Get(name)
		cfg, ok := block.(*merge.Map)
		if !ok {
			return nil, fmt.Errorf("%w: manager %q must be a mapping, got %T", ErrTypeMismatch, name, block)
		}
		mgr, err := factory(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, mgr)
	}
	return out, nil
}

// validate checks that every manager block is a mapping.
func (m Managers) validate() error {
	for _, name := range m.content.Keys() {
		block, _ := m.content.Get(name)
		if _, ok := block.(*merge.Map); !ok {
			return fmt.Errorf("%w: manager %q must be a mapping, got %T", ErrTypeMismatch, name, block)
		}
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Managers) MarshalYAML() (any, error) {
	return m.content.MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Managers) UnmarshalYAML(node *yaml.Node) error {
	content := merge.New()
	if err := content.UnmarshalYAML(node); err != nil {
		return err
	}
	m.content = content
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Managers) MarshalJSON() ([]byte, error) {
	return m.content.MarshalJSON()
}
