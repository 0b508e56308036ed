package reactive

import "sync/atomic"

// Subscriber is anything that re-renders when a key it depends on changes.
type Subscriber interface {
	// Update re-reads the current data and refreshes whatever the
	// subscriber is bound to.
	Update()

	// ID returns a unique identifier for this subscriber.
	// Used to deduplicate registrations under the same key.
	ID() uint64
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc struct {
	id uint64
	fn func()
}

// NewSubscriberFunc wraps fn as a Subscriber with a fresh ID.
func NewSubscriberFunc(fn func()) *SubscriberFunc {
	return &SubscriberFunc{id: NextID(), fn: fn}
}

// Update calls the wrapped function.
func (s *SubscriberFunc) Update() {
	if s.fn != nil {
		s.fn()
	}
}

// ID returns the subscriber's identifier.
func (s *SubscriberFunc) ID() uint64 {
	return s.id
}

var idCounter uint64

// NextID returns the next unique subscriber ID.
// IDs are monotonically increasing and never reused.
func NextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
