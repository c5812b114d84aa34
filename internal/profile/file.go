package profile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MagicToken starts the __magic__ header of every profile file.
	MagicToken = "kenvmanager_profile"
	// FormatVersion is the only file format version this package reads and
	// writes.
	FormatVersion = 2
)

// Magic returns the __magic__ header value written by this package.
func Magic() string {
	return MagicToken + ":" + strconv.Itoa(FormatVersion)
}

// fileProfile is the serialized form of a Profile. Field order is the order
// keys are written in.
type fileProfile struct {
	Magic      string   `yaml:"__magic__"`
	Identifier string   `yaml:"identifier"`
	Version    string   `yaml:"version"`
	Base       string   `yaml:"base,omitempty"`
	Managers   Managers `yaml:"managers"`
}

// header is the subset of a file read while scanning locations.
type header struct {
	Magic      string `yaml:"__magic__"`
	Identifier string `yaml:"identifier"`
}

func (h header) isProfile() bool {
	return strings.HasPrefix(h.Magic, MagicToken)
}

// parseMagic validates a __magic__ value and returns its version.
func parseMagic(magic string) (int, error) {
	token, version, ok := strings.Cut(magic, ":")
	if !ok || token != MagicToken {
		return 0, fmt.Errorf("%w: bad __magic__ header %q (expected %q)", ErrFormat, magic, Magic())
	}
	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, fmt.Errorf("%w: bad version in __magic__ header %q", ErrFormat, magic)
	}
	return v, nil
}

// Parse decodes profile file content. The base, if any, is returned as an
// identifier and is not resolved.
func Parse(data []byte) (p *Profile, base string, err error) {
	var raw struct {
		Magic      string    `yaml:"__magic__"`
		Identifier string    `yaml:"identifier"`
		Version    string    `yaml:"version"`
		Base       string    `yaml:"base"`
		Managers   yaml.Node `yaml:"managers"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("%w: parsing profile YAML: %w", ErrFormat, err)
	}
	if raw.Magic == "" {
		return nil, "", fmt.Errorf("%w: missing __magic__ header", ErrFormat)
	}
	version, err := parseMagic(raw.Magic)
	if err != nil {
		return nil, "", err
	}
	if version != FormatVersion {
		return nil, "", fmt.Errorf("%w: cannot read profile with version <%d> while supported version is <%d>",
			ErrFormat, version, FormatVersion)
	}
	if raw.Managers.Kind == 0 {
		return nil, "", fmt.Errorf("%w: %s: managers is required", ErrFormat, raw.Identifier)
	}

	var managers Managers
	if err := managers.UnmarshalYAML(&raw.Managers); err != nil {
		return nil, "", fmt.Errorf("%w: %s: managers: %w", ErrFormat, raw.Identifier, err)
	}

	p = &Profile{
		Identifier: raw.Identifier,
		Version:    raw.Version,
		Managers:   managers,
	}
	if err := p.validate(); err != nil {
		return nil, "", err
	}
	return p, raw.Base, nil
}

// Encode serializes p to the file format. The base is written as its
// identifier; managers keep their append tokens.
func Encode(p *Profile) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	fp := fileProfile{
		Magic:      Magic(),
		Identifier: p.Identifier,
		Version:    p.Version,
		Managers:   p.Managers,
	}
	if p.Base != nil {
		fp.Base = p.Base.Identifier
	}
	data, err := yaml.Marshal(&fp)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile: %w", err)
	}
	return data, nil
}
