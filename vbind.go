// Package vbind is a small reactive data-binding engine.
//
// A template is compiled once against a root element: v-model, @click and
// v-text attributes and {{ }} placeholders become watchers subscribed to
// data keys. Writing a key re-renders exactly the nodes that read it,
// synchronously and in registration order, and only when the value
// actually changed.
//
//	doc, vm, err := vbind.Mount(`<div id="app"><input v-model="msg"><p>{{msg}}</p></div>`, vbind.Options{
//	    El:   "#app",
//	    Data: func() vbind.Entries { return vbind.Fields("msg", "hello") },
//	})
//	vm.Set("msg", "bye")  // <p> now reads "bye"
//
// The engine packages live under pkg/: reactive (data and registry),
// binding (compiler, watchers and the instance), dom (the HTML host) and
// server (live pages over WebSocket).
package vbind

import (
	"context"
	"fmt"

	"github.com/vango-dev/vbind/internal/actions"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/server"
	"github.com/vango-dev/vbind/pkg/source"
)

// Core types, re-exported for convenience.
type (
	Instance   = binding.Instance
	Options    = binding.Options
	Method     = binding.Method
	Directives = binding.Directives
	Observer   = binding.Observer
	Entries    = reactive.Entries
	Entry      = reactive.Entry
	Document   = dom.Document
)

// Undefined is what reading an unknown key returns.
var Undefined = reactive.Undefined

// Fields builds ordered data entries from alternating keys and values.
func Fields(kv ...any) Entries {
	return reactive.Fields(kv...)
}

// Mount parses markup and compiles an Instance against it. When opts has
// no Root, El is resolved against the parsed document.
func Mount(markup string, opts Options) (*Document, *Instance, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, nil, err
	}
	if opts.Root == nil {
		opts.Document = doc
	}
	vm, err := binding.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return doc, vm, nil
}

// Project is a loaded vbind.yaml with its template and compiled methods.
type Project struct {
	Config   *config.Config
	Template []byte
	Methods  map[string]Method
}

// LoadProject reads the config in dir, validates it, compiles its
// methods and loads the template. A nil loader reads local files and,
// for s3:// templates, uses the default AWS configuration.
func LoadProject(ctx context.Context, dir string, loader source.Loader) (*Project, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return NewProject(ctx, cfg, loader)
}

// NewProject builds a Project from an already loaded config.
func NewProject(ctx context.Context, cfg *config.Config, loader source.Loader) (*Project, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	methods, err := actions.Compile(cfg.Methods)
	if err != nil {
		return nil, err
	}

	uri := cfg.TemplatePath()
	if loader == nil {
		loader, err = defaultLoader(ctx, uri)
		if err != nil {
			return nil, errors.New("E105").WithDetail("Cannot load " + uri).Wrap(err)
		}
	}
	markup, err := loader.Load(ctx, uri)
	if err != nil {
		return nil, errors.New("E105").
			WithDetail("Cannot load " + uri).
			WithSuggestion("Check the template setting in " + cfg.Path()).
			Wrap(err)
	}

	return &Project{Config: cfg, Template: markup, Methods: methods}, nil
}

func defaultLoader(ctx context.Context, uri string) (source.Loader, error) {
	if !source.IsS3(uri) {
		return source.NewMux(source.FileLoader{}, nil), nil
	}
	s3, err := source.NewDefaultS3Loader(ctx)
	if err != nil {
		return nil, err
	}
	return source.NewMux(source.FileLoader{}, s3), nil
}

// Options returns binding options for a new Instance. Every call hands
// out a fresh copy of the configured data.
func (p *Project) Options() Options {
	entries := p.Config.Data.Entries()
	methods := make(map[string]Method, len(p.Methods))
	for name, fn := range p.Methods {
		methods[name] = fn
	}
	return Options{
		El:         p.Config.El,
		Data:       func() Entries { return append(Entries(nil), entries...) },
		Methods:    methods,
		Directives: p.Config.Directives(),
	}
}

// Mount compiles a new Instance against a fresh parse of the template.
func (p *Project) Mount() (*Document, *Instance, error) {
	return Mount(string(p.Template), p.Options())
}

// Page returns a factory the live server uses for every page and session.
func (p *Project) Page() *server.PageFactory {
	return &server.PageFactory{
		Template: p.Template,
		Options:  p.Options,
	}
}

// String describes the project for logs.
func (p *Project) String() string {
	name := p.Config.Name
	if name == "" {
		name = "vbind"
	}
	return fmt.Sprintf("%s (%d keys, %d methods)", name, len(p.Config.Data), len(p.Methods))
}
