package binding

import (
	"log/slog"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Instance is a compiled view bound to its data.
type Instance struct {
	root       dom.Node
	data       *reactive.Data
	methods    map[string]Method
	registry   *reactive.Registry
	directives Directives
	mustache   *scanner
	logger     *slog.Logger
	observer   Observer

	// links records which names are projected onto the instance and
	// where they forward to.
	links map[string]linkSource
	// own holds values written to names that are not linked.
	own map[string]any

	watchers []*Watcher
}

// New observes the data, links aliases and compiles the root.
func New(opts Options) (*Instance, error) {
	if opts.Data == nil {
		return nil, errors.New("E104")
	}

	directives := opts.Directives.WithDefaults()
	if err := directives.Validate(); err != nil {
		return nil, err
	}

	root := opts.Root
	if root == nil {
		if opts.Document == nil {
			return nil, errors.New("E100").
				WithDetail("neither Root nor Document was provided").
				WithSuggestion("Set Options.Root, or Options.El together with Options.Document")
		}
		node, ok := opts.Document.Select(opts.El)
		if !ok {
			return nil, errors.New("E100").
				WithDetailf("selector %q matched nothing", opts.El)
		}
		root = node
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var observer Observer = nopObserver{}
	if opts.Observer != nil {
		observer = opts.Observer
	}

	vm := &Instance{
		root:       root,
		registry:   reactive.NewRegistry(),
		methods:    make(map[string]Method, len(opts.Methods)),
		directives: directives,
		mustache:   newScanner(directives.Open, directives.Close),
		logger:     logger,
		observer:   observer,
		links:      make(map[string]linkSource),
		own:        make(map[string]any),
	}
	for name, fn := range opts.Methods {
		vm.methods[name] = fn
	}

	vm.data = reactive.NewData(opts.Data(), vm.registry)
	if opts.Observer != nil {
		vm.data.Observe(observer)
	}

	vm.link(linkData, vm.data.Keys())
	vm.link(linkMethod, sortedKeys(vm.methods))

	if err := vm.compile(root); err != nil {
		return nil, err
	}

	logger.Debug("instance mounted",
		"keys", len(vm.data.Keys()),
		"methods", len(vm.methods),
		"watchers", len(vm.watchers))
	return vm, nil
}

// Root returns the compiled root node.
func (vm *Instance) Root() dom.Node {
	return vm.root
}

// Data returns the observed data object.
func (vm *Instance) Data() *reactive.Data {
	return vm.data
}

// Registry returns the dependency registry.
func (vm *Instance) Registry() *reactive.Registry {
	return vm.registry
}

// Directives returns the vocabulary the instance was compiled with.
func (vm *Instance) Directives() Directives {
	return vm.directives
}

// Watchers returns every watcher in creation order.
func (vm *Instance) Watchers() []*Watcher {
	out := make([]*Watcher, len(vm.watchers))
	copy(out, vm.watchers)
	return out
}
