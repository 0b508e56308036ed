package binding

import (
	"log/slog"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Method is a handler in the method table. It is called with the Instance
// as its receiver.
type Method func(vm *Instance)

// Options configures an Instance.
type Options struct {
	// Root is the node to compile. When nil, El is resolved against Document.
	Root dom.Node

	// El is the root selector, e.g. "#app".
	El string

	// Document resolves El.
	Document dom.Selector

	// Data returns the initial data entries. Required.
	Data func() reactive.Entries

	// Methods is the method table, keyed by name.
	Methods map[string]Method

	// Directives overrides the directive vocabulary. Empty fields keep
	// their defaults.
	Directives Directives

	// Logger receives debug output about bindings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Observer receives write, notify and render events.
	Observer Observer
}

// Directives names the attributes and delimiters the compiler looks for.
type Directives struct {
	// Model is the two-way binding attribute.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Click is the click handler attribute.
	Click string `json:"click,omitempty" yaml:"click,omitempty"`

	// Text is the text binding attribute.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Open and Close delimit interpolation placeholders.
	Open  string `json:"open,omitempty" yaml:"open,omitempty"`
	Close string `json:"close,omitempty" yaml:"close,omitempty"`
}

// Default directive vocabulary.
const (
	DefaultModel = "v-model"
	DefaultClick = "@click"
	DefaultText  = "v-text"
	DefaultOpen  = "{{"
	DefaultClose = "}}"
)

// DefaultDirectives returns the default vocabulary.
func DefaultDirectives() Directives {
	return Directives{
		Model: DefaultModel,
		Click: DefaultClick,
		Text:  DefaultText,
		Open:  DefaultOpen,
		Close: DefaultClose,
	}
}

// WithDefaults fills empty fields from DefaultDirectives.
func (d Directives) WithDefaults() Directives {
	def := DefaultDirectives()
	if d.Model == "" {
		d.Model = def.Model
	}
	if d.Click == "" {
		d.Click = def.Click
	}
	if d.Text == "" {
		d.Text = def.Text
	}
	if d.Open == "" {
		d.Open = def.Open
	}
	if d.Close == "" {
		d.Close = def.Close
	}
	return d
}

// Validate checks that the attribute names are distinct.
// Call it on a value returned by WithDefaults.
func (d Directives) Validate() error {
	if d.Model == "" || d.Click == "" || d.Text == "" || d.Open == "" || d.Close == "" {
		return errors.New("E203").WithDetail("directive names and delimiters must not be empty")
	}
	if d.Model == d.Click || d.Model == d.Text || d.Click == d.Text {
		return errors.New("E203").WithDetailf("model %q, click %q and text %q must differ", d.Model, d.Click, d.Text)
	}
	return nil
}

// Directive identifies a kind of binding.
type Directive string

const (
	DirectiveModel    Directive = "model"
	DirectiveClick    Directive = "click"
	DirectiveText     Directive = "text"
	DirectiveMustache Directive = "mustache"
)

// Kind identifies what a Watcher renders into.
type Kind string

const (
	// KindProperty renders a value into a node property.
	KindProperty Kind = "property"

	// KindMustache renders an interpolation template into the node's text.
	KindMustache Kind = "mustache"
)

// Observer receives engine events. Hooks run synchronously on the
// instance's event loop and must not write to the instance.
type Observer interface {
	reactive.Observer

	// Rendered is called after a Watcher refreshed its node.
	Rendered(kind Kind, key string)

	// Bound is called for every directive wired during compilation.
	Bound(directive Directive, key string)
}

type nopObserver struct{}

func (nopObserver) WriteSkipped(string)              {}
func (nopObserver) NotifyStarted(string, int) func() { return nil }
func (nopObserver) Rendered(Kind, string)            {}
func (nopObserver) Bound(Directive, string)          {}
