package reactive

import "sort"

// cell holds the current value of one observed key.
// The registry reference is captured explicitly so a cell never needs to
// reach back through its owner.
type cell struct {
	key   string
	value any
	reg   *Registry
}

func (c *cell) read() any {
	return c.value
}

// write stores v and reports whether it changed anything.
func (c *cell) write(v any) bool {
	if Equal(c.value, v) {
		return false
	}
	c.value = v
	return true
}

// Data is the observed data object.
//
// Declared keys are intercepted: Set on them notifies the key's subscribers
// when the value actually changes. Keys that were not declared are plain
// storage: they can be read and written but never notify anyone.
type Data struct {
	order    []string
	cells    map[string]*cell
	plain    map[string]any
	reg      *Registry
	observer Observer
}

// NewData observes entries, notifying through reg.
// When a key is declared more than once its first position and last value
// are kept.
func NewData(entries Entries, reg *Registry) *Data {
	if reg == nil {
		reg = NewRegistry()
	}
	d := &Data{
		cells: make(map[string]*cell, len(entries)),
		plain: make(map[string]any),
		reg:   reg,
	}
	for _, e := range entries {
		if c, ok := d.cells[e.Key]; ok {
			c.value = e.Value
			continue
		}
		d.order = append(d.order, e.Key)
		d.cells[e.Key] = &cell{key: e.Key, value: e.Value, reg: reg}
	}
	return d
}

// Observe installs an observer for write events. A nil observer removes it.
func (d *Data) Observe(o Observer) {
	d.observer = o
}

// Registry returns the registry this data notifies through.
func (d *Data) Registry() *Registry {
	return d.reg
}

// Get returns the current value of key, or Undefined.
func (d *Data) Get(key string) any {
	if c, ok := d.cells[key]; ok {
		return c.read()
	}
	if v, ok := d.plain[key]; ok {
		return v
	}
	return Undefined
}

// Set writes v to key.
//
// For a declared key, a value equal to the current one is a no-op.
// Otherwise the value is stored and every subscriber of key is updated in
// registration order before Set returns. It reports whether the write
// changed the stored value.
func (d *Data) Set(key string, v any) bool {
	c, ok := d.cells[key]
	if !ok {
		if old, had := d.plain[key]; had && Equal(old, v) {
			return false
		}
		d.plain[key] = v
		return true
	}

	if !c.write(v) {
		if d.observer != nil {
			d.observer.WriteSkipped(key)
		}
		return false
	}

	if d.observer != nil {
		if done := d.observer.NotifyStarted(key, c.reg.Len(key)); done != nil {
			defer done()
		}
	}
	c.reg.Notify(key)
	return true
}

// Has reports whether key is declared or was set as a plain value.
func (d *Data) Has(key string) bool {
	if _, ok := d.cells[key]; ok {
		return true
	}
	_, ok := d.plain[key]
	return ok
}

// Observed reports whether key is a declared, intercepted key.
func (d *Data) Observed(key string) bool {
	_, ok := d.cells[key]
	return ok
}

// Keys returns the declared keys in declaration order.
func (d *Data) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Snapshot returns the declared keys in order followed by plain keys,
// sorted, each with its current value.
func (d *Data) Snapshot() Entries {
	out := make(Entries, 0, len(d.order)+len(d.plain))
	for _, k := range d.order {
		out = append(out, Entry{Key: k, Value: d.cells[k].value})
	}
	plain := make([]string, 0, len(d.plain))
	for k := range d.plain {
		plain = append(plain, k)
	}
	sort.Strings(plain)
	for _, k := range plain {
		out = append(out, Entry{Key: k, Value: d.plain[k]})
	}
	return out
}
