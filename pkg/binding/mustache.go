package binding

import (
	"regexp"
	"strings"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// scanner finds interpolation placeholders for one pair of delimiters.
type scanner struct {
	re *regexp.Regexp
}

func newScanner(open, close string) *scanner {
	return &scanner{
		re: regexp.MustCompile(regexp.QuoteMeta(open) + `(.+?)` + regexp.QuoteMeta(close)),
	}
}

// template is literal text with placeholders, captured once at compile
// time. Rendering always starts from the captured text, never from what
// the node currently shows.
type template struct {
	source string
	parts  []part
	keys   []string
}

// part is a literal run, or a placeholder when key is set.
type part struct {
	text        string
	key         string
	placeholder bool
}

// parse splits text into parts. It returns nil when text holds no
// placeholder. keys lists each distinct, non-empty key in order of first
// occurrence.
func (s *scanner) parse(text string) *template {
	matches := s.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	t := &template{source: text}
	seen := make(map[string]bool)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			t.parts = append(t.parts, part{text: text[last:m[0]]})
		}
		key := strings.TrimSpace(text[m[2]:m[3]])
		t.parts = append(t.parts, part{key: key, placeholder: true})
		if key != "" && !seen[key] {
			seen[key] = true
			t.keys = append(t.keys, key)
		}
		last = m[1]
	}
	if last < len(text) {
		t.parts = append(t.parts, part{text: text[last:]})
	}
	return t
}

// render substitutes every placeholder with the current value of its key.
func (t *template) render(get func(string) any) string {
	var b strings.Builder
	b.Grow(len(t.source))
	for _, p := range t.parts {
		if !p.placeholder {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(reactive.Format(get(p.key)))
	}
	return b.String()
}
