package reactive

// Observer receives write events from a Data object.
// Implementations must not write to the Data they observe.
type Observer interface {
	// WriteSkipped is called when a write to a declared key carried the
	// value the key already held.
	WriteSkipped(key string)

	// NotifyStarted is called after a changing write stored its value and
	// before subscribers are updated. The returned func, if non-nil, runs
	// once every subscriber has been updated.
	NotifyStarted(key string, subscribers int) (done func())
}
