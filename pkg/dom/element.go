package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is an element node of a Document.
type Element struct {
	doc       *Document
	n         *html.Node
	ref       string
	listeners map[string][]func()
}

// Ref returns the element's stable reference.
func (e *Element) Ref() string {
	return e.ref
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return e.n.Data
}

// Children returns the element children in document order.
func (e *Element) Children() []Node {
	var out []Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if el := e.doc.wrap(c); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attr(name)
	return ok
}

// Attribute returns the attribute value, or "" when absent.
func (e *Element) Attribute(name string) string {
	v, _ := e.attr(name)
	return v
}

func (e *Element) attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) setAttr(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// SetAttribute sets an attribute without reporting a mutation.
func (e *Element) SetAttribute(name, value string) {
	e.setAttr(name, value)
}

// AddEventListener subscribes fn to event.
func (e *Element) AddEventListener(event string, fn func()) {
	if fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]func())
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Listeners returns how many listeners are subscribed to event.
func (e *Element) Listeners(event string) int {
	return len(e.listeners[event])
}

// Dispatch runs the listeners for event in subscription order and
// returns how many ran.
func (e *Element) Dispatch(event string) int {
	fns := e.listeners[event]
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Property reads a property.
//
// PropText (and textContent) is the element's own literal text: its direct
// text children joined. TextNodeProp(i) is the i-th of those children. PropValue is the value attribute, or the own text
// for a <textarea>. Any other name reads the attribute of that name.
func (e *Element) Property(name string) string {
	if i, ok := textNodeIndex(name); ok {
		if n := e.textNode(i); n != nil {
			return n.Data
		}
		return ""
	}
	switch name {
	case PropText, "textContent":
		return e.ownText()
	case PropValue:
		if e.n.DataAtom == atom.Textarea {
			return e.ownText()
		}
		return e.Attribute("value")
	default:
		return e.Attribute(name)
	}
}

// SetProperty writes a property and reports a Mutation when the value
// actually changed.
//
// Setting PropText replaces the element's direct text children with a
// single text node at the position of the first one; element children are
// left in place. Setting TextNodeProp(i) rewrites only that text node and
// does nothing when the element has no such child.
func (e *Element) SetProperty(name, value string) {
	if e.Property(name) == value {
		return
	}

	if i, ok := textNodeIndex(name); ok {
		n := e.textNode(i)
		if n == nil {
			return
		}
		n.Data = value
		e.doc.emit(Mutation{Ref: e.ref, Prop: name, Value: value})
		return
	}

	switch name {
	case PropText, "textContent":
		e.setOwnText(value)
	case PropValue:
		if e.n.DataAtom == atom.Textarea {
			e.setOwnText(value)
		} else {
			e.setAttr("value", value)
		}
	default:
		e.setAttr(name, value)
	}

	e.doc.emit(Mutation{Ref: e.ref, Prop: name, Value: value})
}

// Texts returns the element's direct text children in document order.
func (e *Element) Texts() []string {
	var out []string
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			out = append(out, c.Data)
		}
	}
	return out
}

func (e *Element) textNode(i int) *html.Node {
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

func (e *Element) ownText() string {
	var b strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func (e *Element) setOwnText(value string) {
	var first *html.Node
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			if first == nil {
				first = c
			} else {
				e.n.RemoveChild(c)
			}
		}
		c = next
	}
	if first == nil {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		return
	}
	first.Data = value
}

// TextContent returns the concatenated text of the element and all of its
// descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

// OuterHTML renders the element and its subtree.
func (e *Element) OuterHTML() string {
	var b bytes.Buffer
	_ = html.Render(&b, e.n)
	return b.String()
}
