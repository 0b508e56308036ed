package dom

import (
	"strconv"
	"strings"
)

// Property names understood by every host.
const (
	// PropText is the node's own literal text.
	PropText = "innerText"

	// PropValue is the current value of a form control.
	PropValue = "value"
)

// TextNodeProp names the i-th direct text child of an element, counting
// only text children. Writing it changes that text node alone.
func TextNodeProp(i int) string {
	return PropText + "#" + strconv.Itoa(i)
}

func textNodeIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, PropText+"#")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Event kinds the binding engine subscribes to.
const (
	EventInput = "input"
	EventClick = "click"
)

// Node is a view node as seen by the binding engine.
type Node interface {
	// Children returns the element children in document order.
	Children() []Node

	// HasAttribute reports whether the attribute is present.
	HasAttribute(name string) bool

	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) string

	// AddEventListener subscribes fn to the named event. Listeners run in
	// subscription order.
	AddEventListener(event string, fn func())

	// Property reads a settable property such as PropText or PropValue.
	Property(name string) string

	// SetProperty writes a property.
	SetProperty(name, value string)
}

// TextNodes is implemented by hosts that expose an element's direct text
// children one by one. Each run is addressed with TextNodeProp.
type TextNodes interface {
	Texts() []string
}

// Selector resolves a selector string to a node.
type Selector interface {
	Select(selector string) (Node, bool)
}

// Mutation describes one property change on an element.
type Mutation struct {
	Ref   string `json:"ref"`
	Prop  string `json:"prop"`
	Value string `json:"value"`
}
