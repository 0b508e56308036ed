package binding

import (
	"fmt"
	"testing"

	"github.com/vango-dev/vbind/pkg/reactive"
)

func TestScannerParse(t *testing.T) {
	s := newScanner(DefaultOpen, DefaultClose)

	tests := []struct {
		text string
		keys []string
		nil  bool
	}{
		{text: "no placeholders", nil: true},
		{text: "{{a}}", keys: []string{"a"}},
		{text: "x {{ a }} y {{b}} z {{a}}", keys: []string{"a", "b"}},
		{text: "{{ }} {{c}}", keys: []string{"c"}},
		{text: "{{a}}}}", keys: []string{"a"}},
		{text: "{{{a}}", keys: []string{"{a"}},
		{text: "{{}}", nil: true},
	}
	for _, tt := range tests {
		tpl := s.parse(tt.text)
		if tt.nil {
			if tpl != nil {
				t.Errorf("parse(%q) = %v, want nil", tt.text, tpl.keys)
			}
			continue
		}
		if tpl == nil {
			t.Errorf("parse(%q) = nil", tt.text)
			continue
		}
		if fmt.Sprint(tpl.keys) != fmt.Sprint(tt.keys) {
			t.Errorf("parse(%q) keys = %v, want %v", tt.text, tpl.keys, tt.keys)
		}
	}
}

func TestTemplateRender(t *testing.T) {
	s := newScanner(DefaultOpen, DefaultClose)
	tpl := s.parse("Hello {{name}}, you are {{ age }}{{ }}!")
	data := reactive.NewData(reactive.Fields("name", "Ann", "age", 30), nil)

	if got := tpl.render(data.Get); got != "Hello Ann, you are 30undefined!" {
		t.Errorf("render = %q", got)
	}
}

func TestScannerCustomDelimiters(t *testing.T) {
	s := newScanner("${", "}")
	tpl := s.parse("a ${x} b ${ y }")
	if tpl == nil || fmt.Sprint(tpl.keys) != "[x y]" {
		t.Fatalf("unexpected parse %+v", tpl)
	}
}
