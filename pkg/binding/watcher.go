package binding

import (
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Watcher binds one node target to one data key.
//
// A Watcher renders once when it is created and again every time its key
// changes. Its fields never change after construction.
type Watcher struct {
	id   uint64
	vm   *Instance
	node dom.Node
	prop string
	key  string
	tpl  *template
}

// newWatcher creates a watcher, registers it under key and renders it.
// With a non-nil tpl it renders the whole template into prop.
func newWatcher(vm *Instance, node dom.Node, prop, key string, tpl *template) *Watcher {
	w := &Watcher{
		id:   reactive.NextID(),
		vm:   vm,
		node: node,
		prop: prop,
		key:  key,
		tpl:  tpl,
	}
	vm.registry.Subscribe(key, w)
	vm.watchers = append(vm.watchers, w)
	w.Update()
	return w
}

// Update refreshes the node from the current data.
func (w *Watcher) Update() {
	if w.tpl != nil {
		w.node.SetProperty(w.prop, w.tpl.render(w.vm.data.Get))
		w.vm.observer.Rendered(KindMustache, w.key)
		return
	}
	w.node.SetProperty(w.prop, reactive.Format(w.vm.data.Get(w.key)))
	w.vm.observer.Rendered(KindProperty, w.key)
}

// ID returns the watcher's unique identifier.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Key returns the data key the watcher depends on.
func (w *Watcher) Key() string {
	return w.key
}

// Node returns the bound node.
func (w *Watcher) Node() dom.Node {
	return w.node
}

// Prop returns the node property the watcher writes.
func (w *Watcher) Prop() string {
	return w.prop
}

// Kind reports whether the watcher renders a property or a template.
func (w *Watcher) Kind() Kind {
	if w.tpl != nil {
		return KindMustache
	}
	return KindProperty
}

// Template returns the captured interpolation template, or "".
func (w *Watcher) Template() string {
	if w.tpl == nil {
		return ""
	}
	return w.tpl.source
}
