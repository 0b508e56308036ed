package vtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// PageBuilder allows fluent construction of test pages.
type PageBuilder struct {
	markup     string
	el         string
	data       reactive.Entries
	methods    map[string]binding.Method
	directives binding.Directives
	observer   binding.Observer
	logger     *slog.Logger
}

// NewPage creates a builder for markup. The root selector defaults to
// "#app".
//
// Example:
//
//	page := vtest.NewPage(`<div id="app">{{msg}}</div>`).
//	    WithData("msg", "hello").
//	    Build(t)
func NewPage(markup string) *PageBuilder {
	return &PageBuilder{
		markup:  markup,
		el:      "#app",
		methods: make(map[string]binding.Method),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithEl sets the root selector.
func (b *PageBuilder) WithEl(selector string) *PageBuilder {
	b.el = selector
	return b
}

// WithData declares a data key. Keys are registered in call order.
func (b *PageBuilder) WithData(key string, val any) *PageBuilder {
	b.data = append(b.data, reactive.Entry{Key: key, Value: val})
	return b
}

// WithMethod adds a method.
func (b *PageBuilder) WithMethod(name string, fn binding.Method) *PageBuilder {
	b.methods[name] = fn
	return b
}

// WithDirectives overrides the directive vocabulary.
func (b *PageBuilder) WithDirectives(d binding.Directives) *PageBuilder {
	b.directives = d
	return b
}

// WithObserver attaches an observer.
func (b *PageBuilder) WithObserver(o binding.Observer) *PageBuilder {
	b.observer = o
	return b
}

// WithLogger replaces the default discarding logger.
func (b *PageBuilder) WithLogger(l *slog.Logger) *PageBuilder {
	b.logger = l
	return b
}

// Mount parses the markup and compiles an Instance, returning any error.
func (b *PageBuilder) Mount() (*Page, error) {
	doc, err := dom.ParseString(b.markup)
	if err != nil {
		return nil, err
	}
	data := append(reactive.Entries(nil), b.data...)
	vm, err := binding.New(binding.Options{
		El:         b.el,
		Document:   doc,
		Data:       func() reactive.Entries { return data },
		Methods:    b.methods,
		Directives: b.directives,
		Logger:     b.logger,
		Observer:   b.observer,
	})
	if err != nil {
		return nil, err
	}

	p := &Page{Doc: doc, VM: vm}
	doc.OnMutation(func(m dom.Mutation) {
		p.mutations = append(p.mutations, m)
	})
	return p, nil
}

// Build mounts the page and fails the test on error.
func (b *PageBuilder) Build(t testing.TB) *Page {
	t.Helper()
	p, err := b.Mount()
	if err != nil {
		t.Fatalf("vtest: mount failed: %v", err)
	}
	p.t = t
	return p
}

// Page is a mounted document with helpers for driving it.
type Page struct {
	Doc *dom.Document
	VM  *binding.Instance

	t         testing.TB
	mutations []dom.Mutation
}

// Find returns the first element matching selector and fails the test
// when there is none.
func (p *Page) Find(selector string) *dom.Element {
	p.t.Helper()
	el, err := p.Doc.QuerySelector(selector)
	if err != nil {
		p.t.Fatalf("vtest: bad selector %q: %v", selector, err)
	}
	if el == nil {
		p.t.Fatalf("vtest: no element matches %q", selector)
	}
	return el
}

// Input types value into the element matching selector.
func (p *Page) Input(selector, value string) {
	p.t.Helper()
	p.Doc.Input(p.Find(selector), value)
}

// Click clicks the element matching selector.
func (p *Page) Click(selector string) {
	p.t.Helper()
	p.Doc.Click(p.Find(selector))
}

// Text returns the own text of the element matching selector.
func (p *Page) Text(selector string) string {
	p.t.Helper()
	return p.Find(selector).Property(dom.PropText)
}

// Value returns the value of the element matching selector.
func (p *Page) Value(selector string) string {
	p.t.Helper()
	return p.Find(selector).Property(dom.PropValue)
}

// HTML renders the document.
func (p *Page) HTML() string {
	return p.Doc.HTML()
}

// Mutations returns the property changes recorded since Build or the
// last ResetMutations.
func (p *Page) Mutations() []dom.Mutation {
	return append([]dom.Mutation(nil), p.mutations...)
}

// ResetMutations clears the recorded changes.
func (p *Page) ResetMutations() {
	p.mutations = nil
}

// ExpectText asserts the own text of the element matching selector.
func (p *Page) ExpectText(selector, want string) {
	p.t.Helper()
	if got := p.Text(selector); got != want {
		p.t.Errorf("expected text of %s to be %q, got %q", selector, want, got)
	}
}

// ExpectValue asserts the value of the element matching selector.
func (p *Page) ExpectValue(selector, want string) {
	p.t.Helper()
	if got := p.Value(selector); got != want {
		p.t.Errorf("expected value of %s to be %q, got %q", selector, want, got)
	}
}

// ExpectContains asserts that the rendered document contains expected.
func (p *Page) ExpectContains(expected string) {
	p.t.Helper()
	html := p.HTML()
	if !strings.Contains(html, expected) {
		p.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered document does not contain
// unexpected.
func (p *Page) ExpectNotContains(unexpected string) {
	p.t.Helper()
	html := p.HTML()
	if strings.Contains(html, unexpected) {
		p.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
