package config

import (
	"fmt"
	"sort"
)

// Op names what a declarative method does.
type Op string

// Method operations.
const (
	// OpSet writes Value to Key.
	OpSet Op = "set"

	// OpAdd adds Value (default 1) to the number in Key.
	OpAdd Op = "add"

	// OpToggle flips the boolean in Key.
	OpToggle Op = "toggle"

	// OpAppend appends Value, formatted, to the string in Key.
	OpAppend Op = "append"

	// OpCopy writes the value of From to Key.
	OpCopy Op = "copy"
)

var ops = map[Op]bool{OpSet: true, OpAdd: true, OpToggle: true, OpAppend: true, OpCopy: true}

// MethodSpec declares a click handler without Go code.
type MethodSpec struct {
	Op    Op     `json:"op" yaml:"op"`
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	From  string `json:"from,omitempty" yaml:"from,omitempty"`
}

func (m MethodSpec) validate() error {
	if !ops[m.Op] {
		return fmt.Errorf("unknown op %q", m.Op)
	}
	if m.Key == "" {
		return fmt.Errorf("op %s needs a key", m.Op)
	}
	switch m.Op {
	case OpAdd:
		if m.Value != nil {
			if _, ok := Number(m.Value); !ok {
				return fmt.Errorf("add value %v is not a number", m.Value)
			}
		}
	case OpCopy:
		if m.From == "" {
			return fmt.Errorf("copy needs from")
		}
	}
	return nil
}

// Number converts the numeric types YAML and JSON decode to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func opNames() []string {
	names := make([]string, 0, len(ops))
	for op := range ops {
		names = append(names, string(op))
	}
	sort.Strings(names)
	return names
}
