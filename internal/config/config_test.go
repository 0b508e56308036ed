package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.El != DefaultEl {
		t.Errorf("El = %q, want %q", cfg.El, DefaultEl)
	}
	if cfg.Template != DefaultTemplate {
		t.Errorf("Template = %q, want %q", cfg.Template, DefaultTemplate)
	}
	if cfg.Server.Port != DefaultPort || cfg.Server.Host != DefaultHost {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

const yamlConfig = `name: demo
el: "#root"
data:
  zeta: 1
  alpha: hello
  mid: true
  ratio: 0.5
methods:
  bump: {op: add, key: zeta, value: 2}
  greet: {op: set, key: alpha, value: hi}
directives:
  click: v-on:click
server:
  port: 8080
  metricsPath: /metrics
log:
  level: debug
`

func TestLoadYAMLKeepsDataOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vbind.yaml"), []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	got := strings.Join(cfg.Data.Entries().Keys(), ",")
	if got != "zeta,alpha,mid,ratio" {
		t.Errorf("data keys = %s, want file order", got)
	}
	if v, _ := cfg.Data.Entries().Lookup("zeta"); v != 1 {
		t.Errorf("zeta = %#v, want int 1", v)
	}
	if v, _ := cfg.Data.Entries().Lookup("ratio"); v != 0.5 {
		t.Errorf("ratio = %#v", v)
	}
	if cfg.Name != "demo" || cfg.El != "#root" {
		t.Errorf("name/el = %q/%q", cfg.Name, cfg.El)
	}
	if cfg.Methods["bump"].Op != OpAdd || cfg.Methods["bump"].Value != 2 {
		t.Errorf("bump = %+v", cfg.Methods["bump"])
	}
	if d := cfg.Directives(); d.Click != "v-on:click" || d.Model != binding.DefaultModel {
		t.Errorf("Directives() = %+v", d)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != DefaultHost {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.TemplatePath() != filepath.Join(dir, DefaultTemplate) {
		t.Errorf("TemplatePath() = %q", cfg.TemplatePath())
	}
	if got := strings.Join(cfg.MethodNames(), ","); got != "bump,greet" {
		t.Errorf("MethodNames() = %s", got)
	}
}

func TestLoadJSONKeepsDataOrder(t *testing.T) {
	dir := t.TempDir()
	content := `{"data": {"b": 1, "a": 2.5, "c": {"n": 3}, "d": null}, "template": "s3://bucket/page.html"}`
	if err := os.WriteFile(filepath.Join(dir, "vbind.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entries := cfg.Data.Entries()
	if got := strings.Join(entries.Keys(), ","); got != "b,a,c,d" {
		t.Errorf("data keys = %s", got)
	}
	if v, _ := entries.Lookup("b"); v != 1 {
		t.Errorf("b = %#v, want int 1", v)
	}
	if v, _ := entries.Lookup("a"); v != 2.5 {
		t.Errorf("a = %#v", v)
	}
	if v, _ := entries.Lookup("c"); v.(map[string]any)["n"] != 3 {
		t.Errorf("c = %#v", v)
	}
	if v, ok := entries.Lookup("d"); !ok || v != nil {
		t.Errorf("d = %#v, %v", v, ok)
	}
	if cfg.TemplatePath() != "s3://bucket/page.html" {
		t.Errorf("TemplatePath() = %q", cfg.TemplatePath())
	}
}

func TestLoadPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "vbind.yaml"), []byte("name: yaml\n"), 0644)
	os.WriteFile(filepath.Join(dir, "vbind.json"), []byte(`{"name":"json"}`), 0644)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "yaml" {
		t.Errorf("Name = %q, want yaml", cfg.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	if !errors.HasCode(err, "E200") {
		t.Errorf("missing config: got %v, want E200", err)
	}

	path := filepath.Join(dir, "vbind.yaml")
	os.WriteFile(path, []byte("data:\n  - not\n  - a map\n"), 0644)
	_, err = LoadFile(path)
	if !errors.HasCode(err, "E201") {
		t.Errorf("bad data: got %v, want E201", err)
	}

	os.WriteFile(path, []byte("name: [unclosed\n"), 0644)
	_, err = LoadFile(path)
	if !errors.HasCode(err, "E201") {
		t.Errorf("bad yaml: got %v, want E201", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"empty el", func(c *Config) { c.El = " " }, "E201"},
		{"unknown op", func(c *Config) { c.Methods = map[string]MethodSpec{"m": {Op: "explode", Key: "k"}} }, "E202"},
		{"missing key", func(c *Config) { c.Methods = map[string]MethodSpec{"m": {Op: OpSet}} }, "E202"},
		{"add non-number", func(c *Config) { c.Methods = map[string]MethodSpec{"m": {Op: OpAdd, Key: "k", Value: "x"}} }, "E202"},
		{"copy without from", func(c *Config) { c.Methods = map[string]MethodSpec{"m": {Op: OpCopy, Key: "k"}} }, "E202"},
		{"clashing directives", func(c *Config) { c.DirectiveNames.Click = binding.DefaultModel }, "E203"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "E204"},
		{"bad metrics path", func(c *Config) { c.Server.MetricsPath = "metrics" }, "E204"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "E201"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "E201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"vbind.yaml", "vbind.json"} {
		cfg := New()
		cfg.Name = "round"
		cfg.Data = Data{{Key: "z", Value: "last"}, {Key: "a", Value: 1}}
		cfg.Methods = map[string]MethodSpec{"inc": {Op: OpAdd, Key: "a"}}

		path := filepath.Join(dir, name)
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("SaveTo(%s): %v", name, err)
		}
		if cfg.Path() != path || cfg.Dir() != dir {
			t.Errorf("Path()/Dir() = %q/%q", cfg.Path(), cfg.Dir())
		}

		loaded, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if got := strings.Join(loaded.Data.Entries().Keys(), ","); got != "z,a" {
			t.Errorf("%s: keys = %s", name, got)
		}
		if loaded.Methods["inc"].Op != OpAdd {
			t.Errorf("%s: methods = %+v", name, loaded.Methods)
		}
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("expected error without a config path")
	}
}

func TestNumber(t *testing.T) {
	for _, v := range []any{1, int64(2), uint64(3), 1.5, float32(2)} {
		if _, ok := Number(v); !ok {
			t.Errorf("Number(%#v) not ok", v)
		}
	}
	if _, ok := Number("1"); ok {
		t.Error("Number(string) should fail")
	}
}
