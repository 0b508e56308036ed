package reactive

import (
	"strconv"
	"testing"
)

func benchData(subscribers int) *Data {
	d := NewData(Fields("n", 0), nil)
	for i := 0; i < subscribers; i++ {
		d.Registry().Subscribe("n", NewSubscriberFunc(func() { _ = d.Get("n") }))
	}
	return d
}

func BenchmarkGet(b *testing.B) {
	d := benchData(0)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = d.Get("n")
	}
}

func BenchmarkSetUnchanged(b *testing.B) {
	d := benchData(10)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Set("n", 0)
	}
}

func BenchmarkSetNoSubscribers(b *testing.B) {
	d := benchData(0)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Set("n", i+1)
	}
}

func BenchmarkSet10Subscribers(b *testing.B) {
	d := benchData(10)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Set("n", i+1)
	}
}

func BenchmarkSet100Subscribers(b *testing.B) {
	d := benchData(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Set("n", i+1)
	}
}

func BenchmarkFormat(b *testing.B) {
	values := []any{42, 3.5, "text", true, nil, Undefined}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Format(values[i%len(values)])
	}
}

func BenchmarkSubscribeMany(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := NewRegistry()
		for k := 0; k < 100; k++ {
			r.Subscribe("k"+strconv.Itoa(k%10), NewSubscriberFunc(func() {}))
		}
	}
}
