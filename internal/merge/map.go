package merge

import (
	"reflect"
	"slices"
)

// Rule selects how a key is combined with an existing value during a merge.
type Rule int

const (
	// Override replaces the existing value.
	Override Rule = iota
	// Append concatenates sequences. Nested mappings are always merged
	// key-wise whatever the rule.
	Append
)

func (r Rule) String() string {
	if r == Append {
		return "append"
	}
	return "override"
}

// Map is an ordered mapping of string keys to values. Values are strings,
// numbers, booleans, nil, []any sequences or nested *Map.
//
// A nil *Map reads as an empty mapping.
type Map struct {
	keys   []string
	values map[string]any
	rules  map[string]Rule
}

// New returns an empty Map.
func New() *Map {
	return &Map{
		keys:   []string{},
		values: map[string]any{},
		rules:  map[string]Rule{},
	}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Rule returns the merge rule attached to key. Missing keys report Override.
func (m *Map) Rule(key string) Rule {
	if m == nil {
		return Override
	}
	return m.rules[key]
}

// Set stores value under key with the Override rule.
func (m *Map) Set(key string, value any) {
	m.Put(key, value, Override)
}

// Put stores value under key with the given rule. A new key is appended
// after the existing ones; an existing key keeps its position.
func (m *Map) Put(key string, value any, rule Rule) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	m.rules[key] = rule
}

// Clone returns a deep copy of m, rules included.
func (m *Map) Clone() *Map {
	out := New()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Put(k, cloneValue(m.values[k]), m.rules[k])
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case *Map:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether m and o hold the same keys in the same order, with
// the same rules and structurally equal values.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, k := range m.keys {
		if o.keys[i] != k || m.rules[k] != o.rules[k] {
			return false
		}
		if !equalValue(m.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch a := a.(type) {
	case *Map:
		bm, ok := b.(*Map)
		return ok && a.Equal(bm)
	case []any:
		bs, ok := b.([]any)
		if !ok || len(a) != len(bs) {
			return false
		}
		for i := range a {
			if !equalValue(a[i], bs[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
