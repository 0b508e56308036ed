package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// Data is the initial data mapping. Unlike a Go map it keeps the order
// the keys appear in the file, which decides registration order.
type Data reactive.Entries

// Entries returns a copy as reactive entries.
func (d Data) Entries() reactive.Entries {
	out := make(reactive.Entries, len(d))
	copy(out, d)
	return out
}

// UnmarshalYAML decodes a mapping node pair by pair.
func (d *Data) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*d = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: data must be a mapping", node.Line)
	}
	out := make(Data, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var value any
		if err := valNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: data %q: %w", valNode.Line, keyNode.Value, err)
		}
		out = append(out, reactive.Entry{Key: keyNode.Value, Value: value})
	}
	*d = out
	return nil
}

// MarshalYAML encodes the entries as an ordered mapping.
func (d Data) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d {
		var val yaml.Node
		if err := val.Encode(e.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key},
			&val,
		)
	}
	return node, nil
}

// UnmarshalJSON decodes an object token by token. Whole numbers decode
// as int to match YAML.
func (d *Data) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("data must be an object")
	}

	out := Data{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("data: unexpected token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("data %q: %w", key, err)
		}
		out = append(out, reactive.Entry{Key: key, Value: normalizeNumbers(value)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalJSON encodes the entries as an object in order.
func (d Data) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("data %q: %w", e.Key, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	default:
		return v
	}
}
