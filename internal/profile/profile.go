package profile

import "fmt"

// Profile is a named, versioned environment description, optionally
// inheriting from a base profile.
type Profile struct {
	Identifier string
	Version    string
	Base       *Profile // may be nil
	Managers   Managers
}

// MergedProfile flattens the inheritance chain. The result has no base, the
// identifier and version of p, and managers equal to the root ancestor's
// combined with each descendant's down to p. Profiles of the chain are not
// modified; a profile without base is returned as is.
func (p *Profile) MergedProfile() (*Profile, error) {
	return p.merged(make(map[*Profile]bool))
}

func (p *Profile) merged(seen map[*Profile]bool) (*Profile, error) {
	if p.Base == nil {
		return p, nil
	}
	if seen[p] {
		return nil, fmt.Errorf("%w: %q inherits from itself", ErrCycle, p.Identifier)
	}
	seen[p] = true

	base, err := p.Base.merged(seen)
	if err != nil {
		return nil, err
	}
	managers, err := base.Managers.Combine(p.Managers)
	if err != nil {
		return nil, fmt.Errorf("merging %q onto %q: %w", p.Identifier, p.Base.Identifier, err)
	}
	return &Profile{
		Identifier: p.Identifier,
		Version:    p.Version,
		Managers:   managers,
	}, nil
}

// Chain returns the identifiers from p up to its root ancestor.
func (p *Profile) Chain() []string {
	var ids []string
	seen := make(map[*Profile]bool)
	for cur := p; cur != nil && !seen[cur]; cur = cur.Base {
		seen[cur] = true
		ids = append(ids, cur.Identifier)
	}
	return ids
}

// Equal reports structural equality, bases included.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Identifier != o.Identifier || p.Version != o.Version {
		return false
	}
	if !p.Managers.Equal(o.Managers) {
		return false
	}
	return p.Base.Equal(o.Base)
}

func (p *Profile) validate() error {
	if p.Identifier == "" {
		return fmt.Errorf("%w: identifier is required", ErrFormat)
	}
	if p.Version == "" {
		return fmt.Errorf("%w: %s: version is required", ErrFormat, p.Identifier)
	}
	if err := p.Managers.validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFormat, p.Identifier, err)
	}
	return nil
}
