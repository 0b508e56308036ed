// Package dom defines the host tree vbind binds against and provides an
// in-memory HTML implementation of it.
//
// The binding engine only needs four things from a host: the ordered
// element children of a node, attribute lookup, event subscription, and
// settable properties. Node captures exactly that.
//
// Document implements Node over golang.org/x/net/html:
//
//	doc, err := dom.ParseString(`<div id="app"><p v-text="msg"></p></div>`)
//	app, _ := doc.Select("#app")
//	...
//	doc.Input(field, "hello") // sets value and dispatches "input"
//	doc.Click(button)
//	fmt.Println(doc.HTML())
//
// Every element gets a stable reference string in document order, used by
// the live server to address nodes from the browser. Property changes are
// reported to OnMutation callbacks so a remote host can mirror them.
package dom
