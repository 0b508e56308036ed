package middleware

import "github.com/vango-dev/vbind/pkg/binding"

type chain []binding.Observer

// Chain returns an observer that forwards every event to each observer in
// order. Nil observers are skipped.
func Chain(observers ...binding.Observer) binding.Observer {
	var c chain
	for _, o := range observers {
		if o != nil {
			c = append(c, o)
		}
	}
	return c
}

func (c chain) WriteSkipped(key string) {
	for _, o := range c {
		o.WriteSkipped(key)
	}
}

// NotifyStarted finishes observers in reverse order.
func (c chain) NotifyStarted(key string, subscribers int) func() {
	var dones []func()
	for _, o := range c {
		if done := o.NotifyStarted(key, subscribers); done != nil {
			dones = append(dones, done)
		}
	}
	if len(dones) == 0 {
		return nil
	}
	return func() {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i]()
		}
	}
}

func (c chain) Rendered(kind binding.Kind, key string) {
	for _, o := range c {
		o.Rendered(kind, key)
	}
}

func (c chain) Bound(d binding.Directive, key string) {
	for _, o := range c {
		o.Bound(d, key)
	}
}
