package dom

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vbind/internal/errors"
)

// RefAttr is the attribute AnnotateRefs writes element references to.
const RefAttr = "data-vb-ref"

// Document is a parsed HTML tree with event and mutation support.
// It is not safe for concurrent use.
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	refs      map[string]*Element
	order     []*Element
	observers []func(Mutation)
}

// Parse reads an HTML document from r.
// Fragments are accepted and placed inside <body>, as browsers do.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.New("E103").Wrap(err)
	}

	d := &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
		refs:     make(map[string]*Element),
	}
	d.index(root)
	return d, nil
}

// ParseString parses markup from a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// index wraps every element in document order and assigns references.
func (d *Document) index(n *html.Node) {
	if n.Type == html.ElementNode {
		el := &Element{doc: d, n: n, ref: strconv.Itoa(len(d.order))}
		d.elements[n] = el
		d.refs[el.ref] = el
		d.order = append(d.order, el)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c)
	}
}

func (d *Document) wrap(n *html.Node) *Element {
	return d.elements[n]
}

// Elements returns every element in document order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, len(d.order))
	copy(out, d.order)
	return out
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	for _, el := range d.order {
		if el.n.DataAtom == atom.Body {
			return el
		}
	}
	return nil
}

// ByRef returns the element with the given reference.
func (d *Document) ByRef(ref string) (*Element, bool) {
	el, ok := d.refs[ref]
	return el, ok
}

// AnnotateRefs writes every element's reference to its RefAttr attribute so
// rendered markup can be mapped back to elements.
func (d *Document) AnnotateRefs() {
	for _, el := range d.order {
		el.setAttr(RefAttr, el.ref)
	}
}

// OnMutation registers fn to be called after every property change.
func (d *Document) OnMutation(fn func(Mutation)) {
	if fn != nil {
		d.observers = append(d.observers, fn)
	}
}

func (d *Document) emit(m Mutation) {
	for _, fn := range d.observers {
		fn(m)
	}
}

// Dispatch fires event on node. It returns how many listeners ran.
func (d *Document) Dispatch(node Node, event string) int {
	el, ok := node.(*Element)
	if !ok || el == nil {
		return 0
	}
	return el.Dispatch(event)
}

// Input sets node's value and dispatches an input event, as typing would.
func (d *Document) Input(node Node, value string) int {
	if node == nil {
		return 0
	}
	node.SetProperty(PropValue, value)
	return d.Dispatch(node, EventInput)
}

// Click dispatches a click event on node.
func (d *Document) Click(node Node) int {
	return d.Dispatch(node, EventClick)
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the whole document as HTML.
func (d *Document) HTML() string {
	var b bytes.Buffer
	_ = d.Render(&b)
	return b.String()
}
