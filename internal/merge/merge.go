package merge

// DeepMerge combines over on top of base and returns a new Map. Neither input
// is modified.
//
// For each key of over, in order:
//   - a key missing from base is appended with over's value;
//   - two mappings are merged recursively, whatever the rule;
//   - two sequences under an Append key are concatenated, base first;
//   - anything else is replaced by over's value.
//
// Keys only present in base keep their position. The result carries no
// Append rule: it is already resolved.
func DeepMerge(base, over *Map) *Map {
	out := Resolve(base)
	if over == nil {
		return out
	}
	for _, k := range over.keys {
		ov := over.values[k]
		bv, ok := out.values[k]
		if !ok {
			out.Put(k, resolveValue(ov), Override)
			continue
		}
		out.values[k] = mergeValue(bv, ov, over.rules[k])
	}
	return out
}

func mergeValue(base, over any, rule Rule) any {
	bm, baseIsMap := base.(*Map)
	om, overIsMap := over.(*Map)
	if baseIsMap && overIsMap {
		return DeepMerge(bm, om)
	}
	if rule == Append {
		bs, baseIsSeq := base.([]any)
		ovs, overIsSeq := over.([]any)
		if baseIsSeq && overIsSeq {
			out := make([]any, 0, len(bs)+len(ovs))
			for _, v := range bs {
				out = append(out, resolveValue(v))
			}
			for _, v := range ovs {
				out = append(out, resolveValue(v))
			}
			return out
		}
	}
	return resolveValue(over)
}

// Resolve returns a deep copy of m with every rule reset to Override,
// including mappings nested inside sequences. Resolve is idempotent.
func Resolve(m *Map) *Map {
	out := New()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Put(k, resolveValue(m.values[k]), Override)
	}
	return out
}

func resolveValue(v any) any {
	switch v := v.(type) {
	case *Map:
		return Resolve(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = resolveValue(e)
		}
		return out
	default:
		return v
	}
}

// isResolved reports whether no key of m, at any depth, carries the Append
// rule.
func isResolved(m *Map) bool {
	if m == nil {
		return true
	}
	for _, k := range m.keys {
		if m.rules[k] == Append || !isResolvedValue(m.values[k]) {
			return false
		}
	}
	return true
}

func isResolvedValue(v any) bool {
	switch v := v.(type) {
	case *Map:
		return isResolved(v)
	case []any:
		for _, e := range v {
			if !isResolvedValue(e) {
				return false
			}
		}
	}
	return true
}
