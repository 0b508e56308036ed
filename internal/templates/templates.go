package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/vbind/internal/errors"
)

// DefaultName is the template used when none is given.
const DefaultName = "counter"

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Title is the page title. Defaults to ProjectName.
	Title string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"counter": counterTemplate(),
	"minimal": minimalTemplate(),
	"form":    formTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E400").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: counter, form, minimal")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the relative paths Create writes, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create generates a project from the template.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = cfg.ProjectName
	}
	for _, relPath := range t.Paths() {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}
	return nil
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>[[.Title]]</title>
</head>
<body>
`

func counterTemplate() *Template {
	return &Template{
		Name:        "counter",
		Description: "A message, a counter and two buttons",
		Files: map[string]string{
			"vbind.yaml": `name: [[.ProjectName]]
el: "#app"
template: index.html
data:
  message: Hello vbind
  count: 0
methods:
  increment: {op: add, key: count, value: 1}
  reset: {op: set, key: count, value: 0}
server:
  port: 3000
`,
			"index.html": pageHead + `  <div id="app">
    <h1>{{ message }}</h1>
    <input v-model="message">
    <p>Clicked <span v-text="count"></span> times</p>
    <button @click="increment">Click me</button>
    <button @click="reset">Reset</button>
  </div>
</body>
</html>
`,
		},
	}
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "One input mirrored into a heading",
		Files: map[string]string{
			"vbind.yaml": `name: [[.ProjectName]]
data:
  name: world
`,
			"index.html": pageHead + `  <div id="app">
    <h1>Hello {{ name }}!</h1>
    <input v-model="name">
  </div>
</body>
</html>
`,
		},
	}
}

func formTemplate() *Template {
	return &Template{
		Name:        "form",
		Description: "A sign-up form with a subscription toggle",
		Files: map[string]string{
			"vbind.yaml": `name: [[.ProjectName]]
data:
  name: ""
  email: ""
  subscribed: false
  summary: ""
methods:
  toggle: {op: toggle, key: subscribed}
  preview: {op: copy, key: summary, from: email}
  clear: {op: set, key: email, value: ""}
`,
			"index.html": pageHead + `  <div id="app">
    <label>Name <input v-model="name"></label>
    <label>Email <input v-model="email"></label>
    <p>{{ name }} &lt;{{ email }}&gt; subscribed: {{ subscribed }}</p>
    <button @click="toggle">Toggle subscription</button>
    <button @click="preview">Preview</button>
    <button @click="clear">Clear email</button>
    <pre v-text="summary"></pre>
  </div>
</body>
</html>
`,
		},
	}
}
