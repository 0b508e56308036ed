package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
)

func TestGet(t *testing.T) {
	for _, name := range List() {
		tmpl, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if tmpl.Name != name {
			t.Errorf("Name = %q, want %q", tmpl.Name, name)
		}
	}

	if _, err := Get("nope"); !errors.HasCode(err, "E400") {
		t.Errorf("Get(nope) = %v, want E400", err)
	}
	if strings.Join(List(), ",") != "counter,form,minimal" {
		t.Errorf("List() = %v", List())
	}
}

func TestCreateProducesValidProjects(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tmpl, _ := Get(name)
			if err := tmpl.Create(dir, Config{ProjectName: "demo"}); err != nil {
				t.Fatalf("Create: %v", err)
			}

			cfg, err := config.Load(dir)
			if err != nil {
				t.Fatalf("config.Load: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.Name != "demo" {
				t.Errorf("Name = %q, want demo", cfg.Name)
			}

			page, err := os.ReadFile(filepath.Join(dir, "index.html"))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(page), "<title>demo</title>") {
				t.Error("title not substituted")
			}
			if !strings.Contains(string(page), "{{ ") {
				t.Error("binding placeholders should pass through")
			}
		})
	}
}
