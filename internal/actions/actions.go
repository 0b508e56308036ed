// Package actions turns declarative method specs into binding methods.
package actions

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Compile builds a method table from specs.
func Compile(specs map[string]config.MethodSpec) (map[string]binding.Method, error) {
	methods := make(map[string]binding.Method, len(specs))
	for name, spec := range specs {
		fn, err := compile(spec)
		if err != nil {
			return nil, errors.New("E202").WithDetailf("method %q: %v", name, err)
		}
		methods[name] = fn
	}
	return methods, nil
}

func compile(spec config.MethodSpec) (binding.Method, error) {
	key := spec.Key
	if key == "" {
		return nil, fmt.Errorf("op %s needs a key", spec.Op)
	}

	switch spec.Op {
	case config.OpSet:
		value := spec.Value
		return func(vm *binding.Instance) {
			vm.Set(key, value)
		}, nil

	case config.OpAdd:
		step := 1.0
		if spec.Value != nil {
			n, ok := config.Number(spec.Value)
			if !ok {
				return nil, fmt.Errorf("add value %v is not a number", spec.Value)
			}
			step = n
		}
		return func(vm *binding.Instance) {
			vm.Set(key, Add(vm.Get(key), step))
		}, nil

	case config.OpToggle:
		return func(vm *binding.Instance) {
			vm.Set(key, !Truthy(vm.Get(key)))
		}, nil

	case config.OpAppend:
		suffix := reactive.Format(spec.Value)
		if spec.Value == nil {
			suffix = ""
		}
		return func(vm *binding.Instance) {
			vm.Set(key, Text(vm.Get(key))+suffix)
		}, nil

	case config.OpCopy:
		if spec.From == "" {
			return nil, fmt.Errorf("copy needs from")
		}
		from := spec.From
		return func(vm *binding.Instance) {
			vm.Set(key, vm.Get(from))
		}, nil

	default:
		return nil, fmt.Errorf("unknown op %q", spec.Op)
	}
}

// Add adds step to current. Integers stay integers when step is whole;
// numeric strings (as written by a text input) are parsed first, and
// anything else counts as zero.
func Add(current any, step float64) any {
	if s, ok := current.(string); ok {
		current = parseNumber(s)
	}
	whole := step == float64(int(step))
	switch n := current.(type) {
	case int:
		if whole {
			return n + int(step)
		}
		return float64(n) + step
	case float64:
		return n + step
	default:
		if f, ok := config.Number(current); ok {
			return f + step
		}
		if whole {
			return int(step)
		}
		return step
	}
}

// Truthy reports whether v counts as true: non-zero numbers, non-empty
// strings, true, and any other non-nil value.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case float64:
		return x != 0
	default:
		return !reactive.IsUndefined(v)
	}
}

// Text returns v as a string; nil and undefined read as empty.
func Text(v any) string {
	if v == nil || reactive.IsUndefined(v) {
		return ""
	}
	return reactive.Format(v)
}

func parseNumber(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return nil
}
