package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/binding"
)

// Default tracer name for vbind instances.
const defaultTracerName = "vbind"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vbind").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider

	// Context is the parent of top-level cascade spans.
	Context context.Context

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the context top-level spans are started from.
func WithParentContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = ctx
	}
}

// WithSpanAttributes adds attributes to every span.
func WithSpanAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// TracingObserver opens a span per notification cascade.
//
// A write made while another cascade is running gets a child span, so a
// trace shows which change caused which. It keeps a stack of open spans
// and must not be shared between instances.
type TracingObserver struct {
	tracer trace.Tracer
	base   context.Context
	attrs  []attribute.KeyValue
	stack  []context.Context
}

// OpenTelemetry returns a tracing observer for one instance.
func OpenTelemetry(opts ...OTelOption) *TracingObserver {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	base := config.Context
	if base == nil {
		base = context.Background()
	}

	return &TracingObserver{
		tracer: tp.Tracer(config.TracerName),
		base:   base,
		attrs:  config.Attributes,
	}
}

// current returns the innermost open cascade context.
func (o *TracingObserver) current() context.Context {
	if n := len(o.stack); n > 0 {
		return o.stack[n-1]
	}
	return o.base
}

// WriteSkipped records a skipped write on the open span, if any.
func (o *TracingObserver) WriteSkipped(key string) {
	trace.SpanFromContext(o.current()).AddEvent("vbind.write_skipped",
		trace.WithAttributes(attribute.String("vbind.key", key)))
}

// NotifyStarted opens a vbind.notify span that ends with the cascade.
func (o *TracingObserver) NotifyStarted(key string, subscribers int) func() {
	attrs := append([]attribute.KeyValue{
		attribute.String("vbind.key", key),
		attribute.Int("vbind.subscribers", subscribers),
	}, o.attrs...)

	ctx, span := o.tracer.Start(o.current(), "vbind.notify",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	o.stack = append(o.stack, ctx)

	return func() {
		span.End()
		o.stack = o.stack[:len(o.stack)-1]
	}
}

// Rendered records a render as an event on the open span.
func (o *TracingObserver) Rendered(kind binding.Kind, key string) {
	trace.SpanFromContext(o.current()).AddEvent("vbind.render", trace.WithAttributes(
		attribute.String("vbind.kind", string(kind)),
		attribute.String("vbind.key", key),
	))
}

// Bound records a wired directive on the parent span, if any.
func (o *TracingObserver) Bound(d binding.Directive, key string) {
	trace.SpanFromContext(o.base).AddEvent("vbind.bind", trace.WithAttributes(
		attribute.String("vbind.directive", string(d)),
		attribute.String("vbind.key", key),
	))
}
