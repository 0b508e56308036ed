package vbind

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
)

func TestMount(t *testing.T) {
	doc, vm, err := Mount(`<div id="app"><input v-model="msg"><p>{{msg}}</p></div>`, Options{
		El:   "#app",
		Data: func() Entries { return Fields("msg", "hello") },
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	p, _ := doc.QuerySelector("p")
	if got := p.Property(dom.PropText); got != "hello" {
		t.Errorf("initial text = %q", got)
	}
	vm.Set("msg", "bye")
	if got := p.Property(dom.PropText); got != "bye" {
		t.Errorf("text after Set = %q", got)
	}
	if vm.Get("nope") != Undefined {
		t.Error("unknown key should read Undefined")
	}
}

func TestMountErrors(t *testing.T) {
	_, _, err := Mount(`<div></div>`, Options{El: "#app", Data: func() Entries { return nil }})
	if !errors.HasCode(err, "E100") {
		t.Errorf("got %v, want E100", err)
	}
	_, _, err = Mount(`<div id="app"></div>`, Options{El: "#app"})
	if !errors.HasCode(err, "E104") {
		t.Errorf("got %v, want E104", err)
	}
}

func writeProject(t *testing.T, dir, config, template string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "vbind.yaml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	if template != "" {
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(template), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, `
data:
  count: 0
methods:
  inc: {op: add, key: count}
`, `<div id="app"><span v-text="count"></span><button @click="inc">+</button></div>`)

	project, err := LoadProject(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	doc, vm, err := project.Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	button, _ := doc.QuerySelector("button")
	doc.Click(button)
	doc.Click(button)
	if vm.Get("count") != 2 {
		t.Errorf("count = %v, want 2", vm.Get("count"))
	}

	// A second instance starts from the configured data again.
	_, vm2, err := project.Mount()
	if err != nil {
		t.Fatal(err)
	}
	if vm2.Get("count") != 0 {
		t.Errorf("second instance count = %v, want 0", vm2.Get("count"))
	}

	page := project.Page()
	if string(page.Template) != string(project.Template) || page.Options == nil {
		t.Error("Page() should carry the template and options")
	}
	if project.String() == "" {
		t.Error("String() should describe the project")
	}
}

func TestLoadProjectErrors(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	writeProject(t, dir, "name: nothing\n", "")
	if _, err := LoadProject(ctx, dir, nil); !errors.HasCode(err, "E105") {
		t.Errorf("missing template: got %v, want E105", err)
	}

	dir = t.TempDir()
	writeProject(t, dir, "methods:\n  bad: {op: explode, key: x}\n", "<div id=app></div>")
	if _, err := LoadProject(ctx, dir, nil); !errors.HasCode(err, "E202") {
		t.Errorf("bad method: got %v, want E202", err)
	}

	if _, err := LoadProject(ctx, t.TempDir(), nil); !errors.HasCode(err, "E200") {
		t.Errorf("no config: got %v, want E200", err)
	}
}
