package reactive

import "sort"

// Registry maps data keys to the ordered list of subscribers bound to them.
//
// Entries are created lazily on first subscription, so keys that no view
// node binds never get an entry. The registry only grows: there is no
// unsubscribe path.
type Registry struct {
	subs map[string][]Subscriber
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[string][]Subscriber)}
}

// Subscribe appends sub to the list for key.
// Registering the same subscriber twice under one key is ignored.
func (r *Registry) Subscribe(key string, sub Subscriber) {
	if sub == nil {
		return
	}

	id := sub.ID()
	for _, existing := range r.subs[key] {
		if existing.ID() == id {
			return
		}
	}
	r.subs[key] = append(r.subs[key], sub)
}

// Subscribers returns a copy of the subscribers registered for key,
// in registration order.
func (r *Registry) Subscribers(key string) []Subscriber {
	list := r.subs[key]
	if len(list) == 0 {
		return nil
	}
	out := make([]Subscriber, len(list))
	copy(out, list)
	return out
}

// Len returns how many subscribers are registered for key.
func (r *Registry) Len(key string) int {
	return len(r.subs[key])
}

// Has reports whether key has an entry.
func (r *Registry) Has(key string) bool {
	_, ok := r.subs[key]
	return ok
}

// Keys returns the keys that have entries, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.subs))
	for k := range r.subs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Notify calls Update on every subscriber for key, in registration order.
// The list is copied first, so a subscriber added during the cascade is
// not called for the change in flight. It returns the number notified.
func (r *Registry) Notify(key string) int {
	subs := r.Subscribers(key)
	for _, sub := range subs {
		sub.Update()
	}
	return len(subs)
}
