package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tree is a mapping that remembers the order keys were inserted in, so a
// saved settings file keeps the layout the user (or the defaults) gave it.
//
// Values are scalars (string, int, float64, bool), []any, or *Tree.
type Tree struct {
	keys []string
	vals map[string]any
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{vals: make(map[string]any)}
}

// treeOf builds a tree from alternating key/value pairs.
func treeOf(kv ...any) *Tree {
	t := NewTree()
	for i := 0; i+1 < len(kv); i += 2 {
		t.Put(kv[i].(string), kv[i+1])
	}
	return t
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Lookup returns the value stored under key.
func (t *Tree) Lookup(key string) (any, bool) {
	v, ok := t.vals[key]
	return v, ok
}

// Put stores value under key. New keys are appended; existing keys keep
// their position.
func (t *Tree) Put(key string, value any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = value
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	for _, k := range t.keys {
		out.Put(k, cloneValue(t.vals[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x.Clone()
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = cloneValue(x[i])
		}
		return out
	default:
		return v
	}
}

// normalize converts decoded JSON/YAML containers into tree values. Plain
// maps have no order, so their keys are sorted.
func normalize(v any) any {
	switch x := v.(type) {
	case *Tree:
		return x
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t := NewTree()
		for _, k := range keys {
			t.Put(k, normalize(x[k]))
		}
		return t
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = normalize(x[i])
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out
	default:
		return v
	}
}

// merge fills keys missing from loaded with values from defaults. Nested
// mappings are merged recursively; loaded values always win.
func merge(loaded, defaults *Tree) *Tree {
	out := loaded.Clone()
	for _, k := range defaults.keys {
		dv := defaults.vals[k]
		cur, ok := out.vals[k]
		if !ok {
			out.Put(k, cloneValue(dv))
			continue
		}
		dt, dIsTree := dv.(*Tree)
		ct, cIsTree := cur.(*Tree)
		if dIsTree && cIsTree {
			out.vals[k] = merge(ct, dt)
		}
	}
	return out
}

// MarshalJSON writes the tree as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(t.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so key order survives encoding.
func (t *Tree) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(t.vals[k]); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node, keeping document order.
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("settings: expected mapping, got yaml kind %d at line %d", node.Kind, node.Line)
	}
	t.keys = nil
	t.vals = make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		val, err := decodeNode(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		t.Put(key, val)
	}
	return nil
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		sub := NewTree()
		if err := sub.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return sub, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
