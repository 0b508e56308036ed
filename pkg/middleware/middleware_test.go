package middleware

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

const counterPage = `<div id="app">
	<input v-model="count">
	<p>{{count}}</p>
	<button @click="inc">+</button>
</div>`

func mountCounter(t *testing.T, obs binding.Observer) (*dom.Document, *binding.Instance) {
	t.Helper()
	doc, err := dom.ParseString(counterPage)
	if err != nil {
		t.Fatal(err)
	}
	vm, err := binding.New(binding.Options{
		El:       "#app",
		Document: doc,
		Data:     func() reactive.Entries { return reactive.Fields("count", 0) },
		Methods: map[string]binding.Method{
			"inc": func(vm *binding.Instance) { vm.Set("count", vm.Get("count").(int)+1) },
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Observer: obs,
	})
	if err != nil {
		t.Fatal(err)
	}
	return doc, vm
}

func TestPrometheusObserver(t *testing.T) {
	resetGlobalMetricsForTest()
	obs := Prometheus(WithRegistry(prometheus.NewRegistry()))
	_, vm := mountCounter(t, obs)
	m := obs.m

	if got := metricCounterValue(t, m.bindingsTotal.WithLabelValues("model")); got != 1 {
		t.Errorf("bindings(model) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.bindingsTotal.WithLabelValues("click")); got != 1 {
		t.Errorf("bindings(click) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("mustache")); got != 1 {
		t.Errorf("initial mustache renders = %v, want 1", got)
	}

	vm.Data().Set("count", 0)
	vm.Data().Set("count", 1)

	if got := metricCounterValue(t, m.writesTotal.WithLabelValues("count", "skipped")); got != 1 {
		t.Errorf("writes(skipped) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.writesTotal.WithLabelValues("count", "changed")); got != 1 {
		t.Errorf("writes(changed) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("property")); got != 2 {
		t.Errorf("property renders = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.notifyDuration); got != 1 {
		t.Errorf("notify duration samples = %d, want 1", got)
	}
	if got := metricHistogramCount(t, m.notifyFanout); got != 1 {
		t.Errorf("fanout samples = %d, want 1", got)
	}
}

func TestPrometheusSharesCollectors(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	a := Prometheus(WithRegistry(reg), WithNamespace("one"))
	b := Prometheus(WithRegistry(reg), WithNamespace("two"))
	if a.m != b.m {
		t.Error("expected collectors to be shared")
	}
}

func TestServerRecordFunctions(t *testing.T) {
	resetGlobalMetricsForTest()
	// Must not panic before initialization.
	RecordSessionStart()
	RecordPatches(3)

	obs := Prometheus(WithRegistry(prometheus.NewRegistry()))
	m := obs.m

	RecordSessionStart()
	RecordSessionStart()
	RecordSessionEnd()
	RecordEvent("input")
	RecordPatches(4)
	RecordProtocolError("unknown_ref")

	if got := metricGaugeValue(t, m.sessionsActive); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.sessionsTotal); got != 2 {
		t.Errorf("sessions total = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.eventsTotal.WithLabelValues("input")); got != 1 {
		t.Errorf("events(input) = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.patchesSent); got != 4 {
		t.Errorf("patches = %v, want 4", got)
	}
	if got := metricCounterValue(t, m.protocolErrors.WithLabelValues("unknown_ref")); got != 1 {
		t.Errorf("protocol errors = %v, want 1", got)
	}
}

// fakeSpan records what the observer does with it.
type fakeSpan struct {
	noop.Span
	name   string
	parent *fakeSpan
	attrs  []attribute.KeyValue
	events []string
	ended  bool
}

func (s *fakeSpan) End(...trace.SpanEndOption) { s.ended = true }

func (s *fakeSpan) AddEvent(name string, _ ...trace.EventOption) {
	s.events = append(s.events, name)
}

func (s *fakeSpan) IsRecording() bool { return true }

type fakeTracer struct {
	noop.Tracer
	spans []*fakeSpan
}

func (t *fakeTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &fakeSpan{name: name, attrs: cfg.Attributes()}
	if p, ok := trace.SpanFromContext(ctx).(*fakeSpan); ok {
		s.parent = p
	}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type fakeProvider struct {
	noop.TracerProvider
	tracer *fakeTracer
}

func (p *fakeProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingObserverSpans(t *testing.T) {
	tracer := &fakeTracer{}
	root := &fakeSpan{name: "session"}
	obs := OpenTelemetry(
		WithTracerProvider(&fakeProvider{tracer: tracer}),
		WithParentContext(trace.ContextWithSpan(context.Background(), root)),
		WithSpanAttributes(attribute.String("vbind.session", "s1")),
	)

	doc, vm := mountCounter(t, obs)
	binds := 0
	for _, e := range root.events {
		if e == "vbind.bind" {
			binds++
		}
	}
	if binds != 3 {
		t.Errorf("expected 3 bind events on the parent span, got %v", root.events)
	}

	btn, _ := doc.QuerySelector("button")
	doc.Click(btn)

	if len(tracer.spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(tracer.spans))
	}
	span := tracer.spans[0]
	if span.name != "vbind.notify" || !span.ended || span.parent != root {
		t.Errorf("unexpected span %+v", span)
	}
	if v, ok := attrValue(span.attrs, "vbind.key"); !ok || v.AsString() != "count" {
		t.Errorf("vbind.key = %v", v)
	}
	if v, ok := attrValue(span.attrs, "vbind.subscribers"); !ok || v.AsInt64() != 2 {
		t.Errorf("vbind.subscribers = %v", v)
	}
	if _, ok := attrValue(span.attrs, "vbind.session"); !ok {
		t.Error("expected configured attribute on span")
	}
	if len(span.events) != 2 {
		t.Errorf("expected 2 render events, got %v", span.events)
	}

	vm.Data().Set("count", 1)
	if last := root.events[len(root.events)-1]; last != "vbind.write_skipped" {
		t.Errorf("expected skipped write recorded on parent, got %s", last)
	}
}

func TestTracingObserverNestsCascades(t *testing.T) {
	tracer := &fakeTracer{}
	obs := OpenTelemetry(WithTracerProvider(&fakeProvider{tracer: tracer}))

	reg := reactive.NewRegistry()
	data := reactive.NewData(reactive.Fields("a", 0, "b", 0), reg)
	data.Observe(obs)
	reg.Subscribe("a", reactive.NewSubscriberFunc(func() { data.Set("b", data.Get("a")) }))

	data.Set("a", 1)

	if len(tracer.spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(tracer.spans))
	}
	if tracer.spans[1].parent != tracer.spans[0] {
		t.Error("expected the b cascade to be a child of the a cascade")
	}
	if len(obs.stack) != 0 {
		t.Errorf("expected empty stack, got %d", len(obs.stack))
	}
}

func TestTracingObserverEndsSpanOnPanic(t *testing.T) {
	tracer := &fakeTracer{}
	obs := OpenTelemetry(WithTracerProvider(&fakeProvider{tracer: tracer}))

	reg := reactive.NewRegistry()
	data := reactive.NewData(reactive.Fields("a", 0, "b", 0), reg)
	data.Observe(obs)
	reg.Subscribe("a", reactive.NewSubscriberFunc(func() { panic("render failed") }))

	func() {
		defer func() { _ = recover() }()
		data.Set("a", 1)
	}()

	if len(obs.stack) != 0 {
		t.Fatalf("expected empty stack after panic, got %d", len(obs.stack))
	}
	if !tracer.spans[0].ended {
		t.Error("expected the panicking cascade span to end")
	}

	data.Set("b", 1)
	if len(tracer.spans) != 2 || tracer.spans[1].parent != nil {
		t.Error("expected the next cascade to start a root span")
	}
}

type countingObserver struct {
	order *[]string
	name  string
}

func (c countingObserver) WriteSkipped(string) { *c.order = append(*c.order, c.name+":skip") }
func (c countingObserver) NotifyStarted(string, int) func() {
	*c.order = append(*c.order, c.name+":start")
	return func() { *c.order = append(*c.order, c.name+":done") }
}
func (c countingObserver) Rendered(binding.Kind, string) {
	*c.order = append(*c.order, c.name+":render")
}
func (c countingObserver) Bound(binding.Directive, string) {
	*c.order = append(*c.order, c.name+":bind")
}

func TestChain(t *testing.T) {
	var order []string
	obs := Chain(countingObserver{&order, "a"}, nil, countingObserver{&order, "b"})

	done := obs.NotifyStarted("k", 1)
	obs.Rendered(binding.KindProperty, "k")
	done()
	obs.WriteSkipped("k")
	obs.Bound(binding.DirectiveText, "k")

	want := "[a:start b:start a:render b:render b:done a:done a:skip b:skip a:bind b:bind]"
	if got := fmtSlice(order); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}

	if Chain().NotifyStarted("k", 0) != nil {
		t.Error("expected nil done for an empty chain")
	}
}

func fmtSlice(s []string) string {
	out := "["
	for i, v := range s {
		if i > 0 {
			out += " "
		}
		out += v
	}
	return out + "]"
}
