package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/knotsanimation/kenvmanager/internal/merge"
)

const knotsYAML = `__magic__: kenvmanager_profile:2
identifier: knots
version: 0.1.0
base: studio
managers:
  rezenv:
    +=requires:
      maya: "2023"
    params: [--stats]
  system:
    command: [bash]
`

func TestParse(t *testing.T) {
	p, base, err := Parse([]byte(knotsYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Identifier != "knots" || p.Version != "0.1.0" {
		t.Errorf("got identifier=%q version=%q", p.Identifier, p.Version)
	}
	if base != "studio" {
		t.Errorf("base = %q, want studio", base)
	}
	if p.Base != nil {
		t.Error("Parse must not resolve the base")
	}
	names := p.Managers.Names()
	if len(names) != 2 || names[0] != "rezenv" || names[1] != "system" {
		t.Errorf("manager names = %v", names)
	}
	block, _ := p.Managers.Map().Get("rezenv")
	rez := block.(*merge.Map)
	if rez.Rule("requires") != merge.Append {
		t.Errorf("requires rule = %v, want append", rez.Rule("requires"))
	}
	if rez.Rule("params") != merge.Override {
		t.Errorf("params rule = %v, want override", rez.Rule("params"))
	}
}

func TestParse_numericVersion(t *testing.T) {
	src := "__magic__: kenvmanager_profile:2\nidentifier: n\nversion: 2\nmanagers: {}\n"
	p, _, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Version != "2" {
		t.Errorf("version = %q, want 2", p.Version)
	}
}

func TestParse_nullManagers(t *testing.T) {
	src := "__magic__: kenvmanager_profile:2\nidentifier: n\nversion: 1\nmanagers:\n"
	p, _, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Managers.Names()) != 0 {
		t.Errorf("expected no managers, got %v", p.Managers.Names())
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid yaml", "__magic__: [unclosed\n"},
		{"missing magic", "identifier: a\nversion: 1\nmanagers: {}\n"},
		{"wrong token", "__magic__: other_profile:2\nidentifier: a\nversion: 1\nmanagers: {}\n"},
		{"no version in magic", "__magic__: kenvmanager_profile\nidentifier: a\nversion: 1\nmanagers: {}\n"},
		{"non numeric version", "__magic__: kenvmanager_profile:two\nidentifier: a\nversion: 1\nmanagers: {}\n"},
		{"unsupported version", "__magic__: kenvmanager_profile:999\nidentifier: a\nversion: 1\nmanagers: {}\n"},
		{"older version", "__magic__: kenvmanager_profile:1\nidentifier: a\nversion: 1\nmanagers: {}\n"},
		{"missing identifier", "__magic__: kenvmanager_profile:2\nversion: 1\nmanagers: {}\n"},
		{"missing version", "__magic__: kenvmanager_profile:2\nidentifier: a\nmanagers: {}\n"},
		{"missing managers", "__magic__: kenvmanager_profile:2\nidentifier: a\nversion: 1\n"},
		{"managers not a mapping", "__magic__: kenvmanager_profile:2\nidentifier: a\nversion: 1\nmanagers: [a]\n"},
		{"manager block not a mapping", "__magic__: kenvmanager_profile:2\nidentifier: a\nversion: 1\nmanagers:\n  system: bash\n"},
		{"duplicate resolved key", "__magic__: kenvmanager_profile:2\nidentifier: a\nversion: 1\nmanagers:\n  system:\n    command: [a]\n    +=command: [b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.src))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Parse() error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestEncode_roundTrip(t *testing.T) {
	p, base, err := Parse([]byte(knotsYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p.Base = &Profile{Identifier: base, Version: "1", Managers: NewManagers(nil)}

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "__magic__: kenvmanager_profile:2\n") {
		t.Errorf("magic header must come first:\n%s", out)
	}
	for _, want := range []string{"identifier: knots", "base: studio", "+=requires:", "params:"} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded profile missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "rezenv:") > strings.Index(out, "system:") {
		t.Errorf("manager order not preserved:\n%s", out)
	}

	again, againBase, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode): %v", err)
	}
	if againBase != "studio" {
		t.Errorf("base = %q, want studio", againBase)
	}
	p.Base = nil
	if !p.Equal(again) {
		t.Errorf("round trip mismatch:\n%s", out)
	}
}

func TestEncode_noBase(t *testing.T) {
	p := &Profile{Identifier: "solo", Version: "1", Managers: NewManagers(nil)}
	data, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "base:") {
		t.Errorf("base must be omitted:\n%s", data)
	}
}

func TestEncode_invalid(t *testing.T) {
	_, err := Encode(&Profile{Version: "1"})
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Encode() error = %v, want ErrFormat", err)
	}
}

func TestMagic(t *testing.T) {
	if got := Magic(); got != "kenvmanager_profile:2" {
		t.Errorf("Magic() = %q", got)
	}
}
