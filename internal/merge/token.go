package merge

import (
	"fmt"
	"sort"
	"strings"
)

// AppendToken is the key prefix marking the Append rule in serialized form.
const AppendToken = "+="

// SplitKey strips the append token from a serialized key and returns the
// resolved key with its rule.
func SplitKey(key string) (string, Rule) {
	if resolved, ok := strings.CutPrefix(key, AppendToken); ok {
		return resolved, Append
	}
	return key, Override
}

// JoinKey returns the serialized form of key under rule.
func JoinKey(key string, rule Rule) string {
	if rule == Append {
		return AppendToken + key
	}
	return key
}

// FromTokens builds a Map from a plain nested map whose keys may carry the
// append token. Go maps are unordered, so keys are sorted by their
// serialized form. Nested map[string]any values, including those inside
// []any sequences, are converted as well.
func FromTokens(raw map[string]any) (*Map, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := New()
	for _, k := range keys {
		resolved, rule := SplitKey(k)
		if _, dup := m.values[resolved]; dup {
			return nil, fmt.Errorf("duplicate key %q (from %q)", resolved, k)
		}
		v, err := fromTokensValue(raw[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", resolved, err)
		}
		m.Put(resolved, v, rule)
	}
	return m, nil
}

func fromTokensValue(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		return FromTokens(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			c, err := fromTokensValue(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}
