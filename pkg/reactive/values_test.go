package reactive

import (
	"errors"
	"math"
	"testing"
)

func TestEqual(t *testing.T) {
	m := map[string]int{"a": 1}
	s := []int{1, 2}
	p := &struct{}{}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 1, 1, true},
		{"different int", 1, 2, false},
		{"int vs float", 30, 30.0, false},
		{"int vs string", 1, "1", false},
		{"strings", "x", "x", true},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"same map", m, m, true},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"same pointer", p, p, true},
		{"structs", struct{ A int }{1}, struct{ A int }{1}, true},
		{"undefined", Undefined, Undefined, true},
		{"NaN", math.NaN(), math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqualUncomparableStruct(t *testing.T) {
	type holder struct{ V any }
	a := holder{V: []int{1}}
	if Equal(a, a) {
		t.Error("struct holding a slice cannot be compared, expected false")
	}
}

type named struct{}

func (named) String() string { return "named" }

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"Ann", "Ann"},
		{30, "30"},
		{int64(-4), "-4"},
		{uint8(7), "7"},
		{30.0, "30"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{true, "true"},
		{nil, "null"},
		{Undefined, "undefined"},
		{named{}, "named"},
		{errors.New("boom"), "boom"},
		{math.Inf(1), "Infinity"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
