// Package middleware provides observability for vbind instances.
//
// Observers plug into binding.Options.Observer and see every write,
// notification cascade, render and binding of an instance.
//
// # Prometheus
//
// Prometheus returns a shared, concurrency-safe observer:
//
//	obs := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	vm, _ := binding.New(binding.Options{..., Observer: obs})
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry returns an observer that opens a span for every changing
// write and records renders as span events. It keeps per-instance state,
// so create one per instance:
//
//	obs := middleware.OpenTelemetry(middleware.WithTracerName("myapp"))
//
// # Combining
//
//	binding.Options{Observer: middleware.Chain(prom, tracing)}
package middleware
