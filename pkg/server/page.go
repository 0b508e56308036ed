package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
)

// ListenAttr lists the events an element handles, space separated, so
// the client only forwards events somebody listens for.
const ListenAttr = "data-vb-on"

// PageFactory builds a fresh bound page from a template.
type PageFactory struct {
	// Template is the page markup.
	Template []byte

	// Options returns the binding options for a new page. Root and
	// Document are replaced with the freshly parsed document; a nil
	// Logger or Observer is filled in by the server.
	Options func() binding.Options
}

// Page is a parsed document and the Instance bound to it.
type Page struct {
	Doc *dom.Document
	VM  *binding.Instance
}

// Mount parses the template and compiles a new Instance against it.
func (f *PageFactory) Mount(logger *slog.Logger, observer binding.Observer) (*Page, error) {
	if f == nil {
		return nil, ErrNoPage
	}
	doc, err := dom.Parse(bytes.NewReader(f.Template))
	if err != nil {
		return nil, err
	}
	doc.AnnotateRefs()

	var opts binding.Options
	if f.Options != nil {
		opts = f.Options()
	}
	opts.Root = nil
	opts.Document = doc
	if opts.El == "" {
		opts.El = "#app"
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	if opts.Observer == nil && observer != nil {
		opts.Observer = observer
	}

	vm, err := binding.New(opts)
	if err != nil {
		return nil, fmt.Errorf("server: mount page: %w", err)
	}
	markListeners(doc)
	return &Page{Doc: doc, VM: vm}, nil
}

func markListeners(doc *dom.Document) {
	for _, el := range doc.Elements() {
		var events []string
		for _, ev := range []string{dom.EventClick, dom.EventInput} {
			if el.Listeners(ev) > 0 {
				events = append(events, ev)
			}
		}
		if len(events) > 0 {
			el.SetAttribute(ListenAttr, strings.Join(events, " "))
		}
	}
}

// HTML renders the page with the client script injected before </body>.
func (p *Page) HTML() string {
	markup := p.Doc.HTML()
	script := "<script>" + clientScript + "</script>"
	if i := strings.LastIndex(markup, "</body>"); i >= 0 {
		return markup[:i] + script + markup[i:]
	}
	return markup + script
}
