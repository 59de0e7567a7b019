// Package telemetry wires OTLP tracing for the level generator and the
// leaderboard's submission replay. Until Setup has run, every tracer it
// hands out is a no-op, so instrumented code pays nothing when tracing
// is off.
package telemetry

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "minedelve"
	serviceVersion = "0.1.0"
)

// active flips once Setup has installed a real provider. Tracer keys
// off it instead of the global provider so disabled builds never touch
// the otel globals.
var active atomic.Bool

// Setup installs an OTLP HTTP exporter as the global trace provider.
// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_*
// environment variables. The returned shutdown function flushes and
// deactivates tracing; call it on exit.
func Setup(ctx context.Context) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// A fresh resource, not merged with resource.Default, so the schema
	// URL stays under our control.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("telemetry.sdk.name", "opentelemetry"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	active.Store(true)

	return func(ctx context.Context) error {
		active.Store(false)
		return tp.Shutdown(ctx)
	}, nil
}

// Tracer returns a named tracer for one component. Before Setup (or
// after shutdown) it is the no-op tracer.
func Tracer(name string) trace.Tracer {
	if !active.Load() {
		return NoopTracer()
	}
	return otel.GetTracerProvider().Tracer("minedelve/" + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("minedelve/noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
