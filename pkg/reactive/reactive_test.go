package reactive

import (
	"fmt"
	"testing"
)

// testSubscriber counts updates and appends its name to a shared log.
type testSubscriber struct {
	id      uint64
	name    string
	updates int
	log     *[]string
	onRun   func()
}

func newTestSubscriber(name string, log *[]string) *testSubscriber {
	return &testSubscriber{id: NextID(), name: name, log: log}
}

func (s *testSubscriber) Update() {
	s.updates++
	if s.log != nil {
		*s.log = append(*s.log, s.name)
	}
	if s.onRun != nil {
		s.onRun()
	}
}

func (s *testSubscriber) ID() uint64 { return s.id }

func TestSetUnchangedIsNoop(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("count", 1), reg)
	sub := newTestSubscriber("a", nil)
	reg.Subscribe("count", sub)

	if data.Set("count", 1) {
		t.Error("expected Set with the same value to report no change")
	}
	if sub.updates != 0 {
		t.Errorf("expected 0 updates, got %d", sub.updates)
	}
}

func TestSetNotifiesInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("name", "Ann"), reg)

	var log []string
	a := newTestSubscriber("a", &log)
	b := newTestSubscriber("b", &log)
	c := newTestSubscriber("c", &log)
	reg.Subscribe("name", a)
	reg.Subscribe("name", b)
	reg.Subscribe("name", c)

	data.Set("name", "Bob")
	if got := fmt.Sprint(log); got != "[a b c]" {
		t.Errorf("expected [a b c], got %s", got)
	}

	data.Set("name", "Cid")
	if a.updates != 2 || b.updates != 2 || c.updates != 2 {
		t.Errorf("expected each subscriber updated twice, got %d %d %d", a.updates, b.updates, c.updates)
	}
}

func TestGetReturnsLastSetValue(t *testing.T) {
	data := NewData(Fields("count", 0), nil)
	data.Set("count", 5)
	if got := data.Get("count"); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestUnboundKeyIsSilent(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("bound", 1, "free", 1), reg)
	sub := newTestSubscriber("a", nil)
	reg.Subscribe("bound", sub)

	for i := 2; i < 10; i++ {
		data.Set("free", i)
	}
	if sub.updates != 0 {
		t.Errorf("expected 0 updates, got %d", sub.updates)
	}
	if reg.Has("free") {
		t.Error("expected no registry entry for an unbound key")
	}
}

func TestUndeclaredKey(t *testing.T) {
	reg := NewRegistry()
	data := NewData(nil, reg)
	sub := newTestSubscriber("a", nil)
	reg.Subscribe("ghost", sub)

	if !IsUndefined(data.Get("ghost")) {
		t.Errorf("expected Undefined, got %v", data.Get("ghost"))
	}

	data.Set("ghost", "boo")
	if sub.updates != 0 {
		t.Errorf("undeclared keys must not notify, got %d updates", sub.updates)
	}
	if got := data.Get("ghost"); got != "boo" {
		t.Errorf("expected plain value boo, got %v", got)
	}
	if data.Observed("ghost") {
		t.Error("plain key must not be observed")
	}
}

func TestReentrantWritesReachFixpoint(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("a", 0, "b", 0), reg)

	// a -> b and b -> a mirror each other; the equality check must stop the loop.
	toB := newTestSubscriber("toB", nil)
	toB.onRun = func() { data.Set("b", data.Get("a")) }
	toA := newTestSubscriber("toA", nil)
	toA.onRun = func() { data.Set("a", data.Get("b")) }
	reg.Subscribe("a", toB)
	reg.Subscribe("b", toA)

	data.Set("a", 7)
	if data.Get("b") != 7 {
		t.Errorf("expected b mirrored to 7, got %v", data.Get("b"))
	}
	if toB.updates != 1 || toA.updates != 1 {
		t.Errorf("expected one update each, got toB=%d toA=%d", toB.updates, toA.updates)
	}
}

func TestSubscriberAddedDuringCascadeNotCalled(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("k", 0), reg)

	late := newTestSubscriber("late", nil)
	first := newTestSubscriber("first", nil)
	first.onRun = func() { reg.Subscribe("k", late) }
	reg.Subscribe("k", first)

	data.Set("k", 1)
	if late.updates != 0 {
		t.Errorf("expected late subscriber skipped for in-flight change, got %d", late.updates)
	}
	data.Set("k", 2)
	if late.updates != 1 {
		t.Errorf("expected late subscriber on next change, got %d", late.updates)
	}
}

func TestRegistryDeduplicates(t *testing.T) {
	reg := NewRegistry()
	sub := newTestSubscriber("a", nil)
	reg.Subscribe("k", sub)
	reg.Subscribe("k", sub)
	reg.Subscribe("k", nil)
	if reg.Len("k") != 1 {
		t.Errorf("expected 1 subscriber, got %d", reg.Len("k"))
	}
	if n := reg.Notify("k"); n != 1 {
		t.Errorf("expected Notify to report 1, got %d", n)
	}
}

func TestDataKeysAndSnapshot(t *testing.T) {
	data := NewData(Fields("z", 1, "a", 2, "z", 3), nil)
	data.Set("extra", true)

	if got := fmt.Sprint(data.Keys()); got != "[z a]" {
		t.Errorf("expected [z a], got %s", got)
	}
	if data.Get("z") != 3 {
		t.Errorf("expected last declared value 3, got %v", data.Get("z"))
	}

	snap := data.Snapshot()
	if got := fmt.Sprint(snap.Keys()); got != "[z a extra]" {
		t.Errorf("expected [z a extra], got %s", got)
	}
}

type recordingObserver struct {
	skipped  []string
	started  []string
	finished int
}

func (o *recordingObserver) WriteSkipped(key string) { o.skipped = append(o.skipped, key) }

func (o *recordingObserver) NotifyStarted(key string, n int) func() {
	o.started = append(o.started, fmt.Sprintf("%s:%d", key, n))
	return func() { o.finished++ }
}

func TestDataObserver(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("k", 0), reg)
	reg.Subscribe("k", newTestSubscriber("a", nil))

	obs := &recordingObserver{}
	data.Observe(obs)

	data.Set("k", 0)
	data.Set("k", 1)

	if fmt.Sprint(obs.skipped) != "[k]" {
		t.Errorf("expected skipped [k], got %v", obs.skipped)
	}
	if fmt.Sprint(obs.started) != "[k:1]" {
		t.Errorf("expected started [k:1], got %v", obs.started)
	}
	if obs.finished != 1 {
		t.Errorf("expected done called once, got %d", obs.finished)
	}
}

func TestFieldsPanicsOnOddArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Fields("a")
}

func TestFromMapSortsKeys(t *testing.T) {
	e := FromMap(map[string]any{"b": 1, "a": 2})
	if got := fmt.Sprint(e.Keys()); got != "[a b]" {
		t.Errorf("expected [a b], got %s", got)
	}
	if v, ok := e.Lookup("b"); !ok || v != 1 {
		t.Errorf("expected b=1, got %v %v", v, ok)
	}
}

func TestDataObserverFinishesWhenSubscriberPanics(t *testing.T) {
	reg := NewRegistry()
	data := NewData(Fields("k", 0), reg)
	sub := newTestSubscriber("a", nil)
	sub.onRun = func() { panic("render failed") }
	reg.Subscribe("k", sub)

	obs := &recordingObserver{}
	data.Observe(obs)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the subscriber panic to propagate")
			}
		}()
		data.Set("k", 1)
	}()

	if obs.finished != 1 {
		t.Errorf("expected done called once after panic, got %d", obs.finished)
	}
}
