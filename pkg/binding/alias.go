package binding

import (
	"sort"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/reactive"
)

type linkSource int

const (
	linkData linkSource = iota + 1
	linkMethod
)

// link projects names onto the instance. A later source wins, so a method
// named like a data key shadows the data alias.
func (vm *Instance) link(src linkSource, names []string) {
	for _, name := range names {
		vm.links[name] = src
	}
}

// Get reads name through the instance.
//
// Data keys forward to the data object, method names return the Method.
// Other names return whatever was last Set on the instance, or
// reactive.Undefined.
func (vm *Instance) Get(name string) any {
	switch vm.links[name] {
	case linkData:
		return vm.data.Get(name)
	case linkMethod:
		return vm.methods[name]
	}
	if v, ok := vm.own[name]; ok {
		return v
	}
	return reactive.Undefined
}

// Set writes name through the instance and reports whether anything
// changed.
//
// For a data key the value is compared with the current data value and
// forwarded only when different; the forwarded write notifies the key's
// watchers exactly once. For a method name, v must be a Method (or a
// func(*Instance)) and replaces the table entry. Other names are stored on
// the instance itself and never reach the data.
func (vm *Instance) Set(name string, v any) bool {
	switch vm.links[name] {
	case linkData:
		if reactive.Equal(vm.data.Get(name), v) {
			return false
		}
		return vm.data.Set(name, v)
	case linkMethod:
		fn, ok := asMethod(v)
		if !ok {
			return false
		}
		vm.methods[name] = fn
		return true
	}
	if old, ok := vm.own[name]; ok && reactive.Equal(old, v) {
		return false
	}
	vm.own[name] = v
	return true
}

// Has reports whether name is linked to the data or the method table.
func (vm *Instance) Has(name string) bool {
	_, ok := vm.links[name]
	return ok
}

// Keys returns the data keys in declaration order.
func (vm *Instance) Keys() []string {
	return vm.data.Keys()
}

// Method returns the method table entry for name.
func (vm *Instance) Method(name string) (Method, bool) {
	fn, ok := vm.methods[name]
	return fn, ok && fn != nil
}

// MethodNames returns the method names, sorted.
func (vm *Instance) MethodNames() []string {
	return sortedKeys(vm.methods)
}

// SetMethod replaces or adds a method. Click handlers wired during
// compilation keep the function they captured.
func (vm *Instance) SetMethod(name string, fn Method) {
	vm.methods[name] = fn
	vm.links[name] = linkMethod
}

// Call invokes a method with the instance as receiver.
func (vm *Instance) Call(name string) error {
	fn, ok := vm.Method(name)
	if !ok {
		return errors.New("E101").WithDetailf("no method %q", name)
	}
	fn(vm)
	return nil
}

func asMethod(v any) (Method, bool) {
	switch fn := v.(type) {
	case Method:
		return fn, fn != nil
	case func(*Instance):
		return fn, fn != nil
	}
	return nil, false
}

func sortedKeys(m map[string]Method) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
