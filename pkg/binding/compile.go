package binding

import (
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

// compile binds every node under and including node. Each child's subtree
// is compiled before the child itself, and node is bound last.
func (vm *Instance) compile(node dom.Node) error {
	for _, child := range node.Children() {
		if err := vm.compile(child); err != nil {
			return err
		}
	}
	return vm.bind(node)
}

// bind evaluates every directive on a single node.
func (vm *Instance) bind(node dom.Node) error {
	d := vm.directives

	// Captured before any watcher renders into the node.
	runs := textRuns(node)

	if node.HasAttribute(d.Model) {
		key, err := directiveValue(node, d.Model)
		if err != nil {
			return err
		}
		vm.bindModel(node, key)
	}

	if node.HasAttribute(d.Click) {
		name, err := directiveValue(node, d.Click)
		if err != nil {
			return err
		}
		if err := vm.bindClick(node, name); err != nil {
			return err
		}
	}

	if node.HasAttribute(d.Text) {
		key, err := directiveValue(node, d.Text)
		if err != nil {
			return err
		}
		vm.checkKey(DirectiveText, key)
		newWatcher(vm, node, dom.PropText, key, nil)
		vm.observer.Bound(DirectiveText, key)
	}

	for _, run := range runs {
		if run.text == "" {
			continue
		}
		tpl := vm.mustache.parse(run.text)
		if tpl == nil {
			continue
		}
		for _, key := range tpl.keys {
			vm.checkKey(DirectiveMustache, key)
			newWatcher(vm, node, run.prop, key, tpl)
			vm.observer.Bound(DirectiveMustache, key)
		}
	}

	return nil
}

// textRun is one stretch of literal text and the property that writes it.
type textRun struct {
	prop string
	text string
}

// textRuns splits the node's own text into its direct text children when
// the host exposes them, so text around child elements stays in place.
// Other hosts get a single run over the whole own text.
func textRuns(node dom.Node) []textRun {
	tn, ok := node.(dom.TextNodes)
	if !ok {
		return []textRun{{prop: dom.PropText, text: node.Property(dom.PropText)}}
	}
	texts := tn.Texts()
	runs := make([]textRun, len(texts))
	for i, text := range texts {
		runs[i] = textRun{prop: dom.TextNodeProp(i), text: text}
	}
	return runs
}

func (vm *Instance) bindModel(node dom.Node, key string) {
	vm.checkKey(DirectiveModel, key)
	newWatcher(vm, node, dom.PropValue, key, nil)
	node.AddEventListener(dom.EventInput, func() {
		vm.data.Set(key, node.Property(dom.PropValue))
	})
	vm.observer.Bound(DirectiveModel, key)
}

func (vm *Instance) bindClick(node dom.Node, name string) error {
	fn, ok := vm.Method(name)
	if !ok {
		return errors.New("E101").
			WithDetailf("%s=%q but no method %q is defined", vm.directives.Click, name, name).
			WithSuggestion("Add \"" + name + "\" to Options.Methods")
	}
	node.AddEventListener(dom.EventClick, func() {
		fn(vm)
	})
	vm.observer.Bound(DirectiveClick, name)
	return nil
}

// checkKey logs bindings to keys the data never declared. They still bind
// and render "undefined".
func (vm *Instance) checkKey(d Directive, key string) {
	if vm.data.Observed(key) {
		return
	}
	vm.logger.Debug("binding undeclared key", "directive", string(d), "key", key)
}

func directiveValue(node dom.Node, attr string) (string, error) {
	v := node.Attribute(attr)
	if v == "" {
		return "", errors.New("E102").WithDetailf("%s has no value", attr)
	}
	return v, nil
}
