package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// compound is one simple selector sequence such as div#app.main[v-text].
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []string
}

func (c compound) matches(e *Element) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, e.Tag()) {
		return false
	}
	if c.id != "" && e.Attribute("id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(e.Attribute("class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		if !e.HasAttribute(a) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// selector is a chain of compounds joined by descendant combinators.
type selector []compound

func (s selector) matches(e *Element) bool {
	if len(s) == 0 || !s[len(s)-1].matches(e) {
		return false
	}
	i := len(s) - 2
	for p := e.n.Parent; p != nil && i >= 0; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if s[i].matches(e.doc.wrap(p)) {
			i--
		}
	}
	return i < 0
}

// parseSelector parses tag, #id, .class, [attr] and descendant
// combinators.
func parseSelector(src string) (selector, error) {
	parts := strings.Fields(src)
	if len(parts) == 0 {
		return nil, fmt.Errorf("dom: empty selector")
	}

	sel := make(selector, 0, len(parts))
	for _, part := range parts {
		c, err := parseCompound(part)
		if err != nil {
			return nil, err
		}
		sel = append(sel, c)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	c.tag = readName()
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			c.id = readName()
			if c.id == "" {
				return c, fmt.Errorf("dom: empty id in selector %q", s)
			}
		case '.':
			i++
			class := readName()
			if class == "" {
				return c, fmt.Errorf("dom: empty class in selector %q", s)
			}
			c.classes = append(c.classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("dom: unterminated attribute in selector %q", s)
			}
			name := strings.TrimSpace(s[i+1 : i+end])
			if name == "" {
				return c, fmt.Errorf("dom: empty attribute in selector %q", s)
			}
			c.attrs = append(c.attrs, name)
			i += end + 1
		}
	}
	return c, nil
}

// QuerySelectorAll returns every element matching selector, in document
// order.
func (d *Document) QuerySelectorAll(selector string) ([]*Element, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, el := range d.order {
		if sel.matches(el) {
			out = append(out, el)
		}
	}
	return out, nil
}

// QuerySelector returns the first element matching selector, or nil.
func (d *Document) QuerySelector(selector string) (*Element, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	for _, el := range d.order {
		if sel.matches(el) {
			return el, nil
		}
	}
	return nil, nil
}

// Select implements Selector. Invalid selectors match nothing.
func (d *Document) Select(selector string) (Node, bool) {
	el, err := d.QuerySelector(selector)
	if err != nil || el == nil {
		return nil, false
	}
	return el, true
}
