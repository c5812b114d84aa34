package merge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a YAML mapping document, keeping key order and turning
// "+=" prefixed keys into Append rules.
func FromYAML(data []byte) (*Map, error) {
	m := New()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if m.values == nil {
		*m = *New()
	}
	node = unalias(node)
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = unalias(node.Content[0])
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, kindName(node))
	}
	explicit := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if keyNode := unalias(node.Content[i]); !isMergeKey(keyNode) {
			key, _ := SplitKey(keyNode.Value)
			explicit[key] = true
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := unalias(node.Content[i]), node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		if isMergeKey(keyNode) {
			if err := m.mergeFrom(valueNode, explicit); err != nil {
				return err
			}
			continue
		}
		key, rule := SplitKey(keyNode.Value)
		if _, dup := m.values[key]; dup {
			return fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		v, err := decodeNode(valueNode)
		if err != nil {
			return err
		}
		m.Put(key, v, rule)
	}
	return nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// mergeFrom inserts the keys of a "<<" value that the mapping does not define
// itself. The value is a mapping or a sequence of mappings; earlier mappings
// win.
func (m *Map) mergeFrom(valueNode *yaml.Node, explicit map[string]bool) error {
	valueNode = unalias(valueNode)
	sources := []*yaml.Node{valueNode}
	if valueNode.Kind == yaml.SequenceNode {
		sources = valueNode.Content
	}
	for _, src := range sources {
		src = unalias(src)
		if src.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge key expects a mapping or a sequence of mappings, got %s",
				src.Line, kindName(src))
		}
		sub := New()
		if err := sub.UnmarshalYAML(src); err != nil {
			return err
		}
		for _, k := range sub.keys {
			if explicit[k] {
				continue
			}
			if _, ok := m.values[k]; ok {
				continue
			}
			m.Put(k, sub.values[k], sub.rules[k])
		}
	}
	return nil
}

func decodeNode(node *yaml.Node) (any, error) {
	node = unalias(node)
	switch node.Kind {
	case yaml.MappingNode:
		sub := New()
		if err := sub.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return sub, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node %s", node.Line, kindName(node))
	}
}

func unalias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar " + node.Tag
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

// MarshalYAML implements yaml.Marshaler. Append keys are written with the
// "+=" prefix.
func (m *Map) MarshalYAML() (any, error) {
	return m.node()
}

func (m *Map) node() (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return out, nil
	}
	for _, k := range m.keys {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: JoinKey(k, m.rules[k])}
		value, err := encodeValue(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out.Content = append(out.Content, key, value)
	}
	return out, nil
}

func encodeValue(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *Map:
		return v.node()
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v {
			n, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// MarshalJSON implements json.Marshaler, keeping key order. Append keys are
// written with the "+=" prefix, so a resolved Map yields plain keys.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(JoinKey(k, m.rules[k]))
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(m.values[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode resolves m and strictly decodes it into v, which is usually a
// pointer to a struct with yaml tags. Keys that v does not declare are an
// error.
func (m *Map) Decode(v any) error {
	data, err := yaml.Marshal(Resolve(m))
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
