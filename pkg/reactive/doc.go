// Package reactive provides the observation layer and dependency registry
// for vbind.
//
// A Data object holds one observable cell per declared key. Writing a new
// value through Data.Set notifies every Subscriber registered for that key,
// in registration order. Writing a value equal to the current one is a no-op,
// which is what stops re-entrant writes from recursing.
//
// # Core Types
//
// Registry maps a key to the ordered subscribers that depend on it:
//
//	reg := reactive.NewRegistry()
//	data := reactive.NewData(reactive.Entries{{Key: "count", Value: 0}}, reg)
//	reg.Subscribe("count", sub)
//	data.Set("count", 1) // sub.Update() runs once
//	data.Set("count", 1) // no-op
//
// Entries keeps the declared key order explicit:
//
//	reactive.Fields("name", "Ann", "age", 30)
//
// # Thread Safety
//
// None of the types in this package are safe for concurrent use. A Data and
// its Registry belong to a single event loop.
package reactive
