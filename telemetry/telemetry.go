// Copyright (c) Microsoft. All rights reserved.

// Package telemetry wires OpenTelemetry tracing around agent runs and
// tool invocations: a console span exporter for the demos, a span
// processor that stamps session attributes, and a tool wrapper that
// records function-call spans.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	initOnce sync.Once
	initErr  error
)

// Config controls [Init].
type Config struct {
	// ServiceName names the traced service in exported spans.
	ServiceName string

	// SessionID is stamped on every span by the session processor.
	// Empty means no session attribute.
	SessionID string

	// PrettyPrint emits indented span JSON on stdout.
	PrettyPrint bool

	// Processors are additional span processors registered alongside
	// the session processor.
	Processors []sdktrace.SpanProcessor
}

// Init installs a global TracerProvider exporting spans to stdout, with
// the session-attribute processor registered. Subsequent calls are
// no-ops returning the first result.
func Init(ctx context.Context, cfg Config) error {
	initOnce.Do(func() {
		initErr = initProvider(ctx, cfg)
		if initErr == nil {
			slog.InfoContext(ctx, "tracing initialized", "service", cfg.ServiceName)
		}
	})
	return initErr
}

func initProvider(ctx context.Context, cfg Config) error {
	var expOpts []stdouttrace.Option
	if cfg.PrettyPrint {
		expOpts = append(expOpts, stdouttrace.WithPrettyPrint())
	}
	exp, err := stdouttrace.New(expOpts...)
	if err != nil {
		return err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(NewSessionSpanProcessor(cfg.SessionID)),
	}
	for _, sp := range cfg.Processors {
		opts = append(opts, sdktrace.WithSpanProcessor(sp))
	}
	opts = append(opts, sdktrace.WithBatcher(exp))

	otel.SetTracerProvider(sdktrace.NewTracerProvider(opts...))
	return nil
}

// Shutdown flushes and shuts down the global TracerProvider if it is an
// SDK provider.
func Shutdown(ctx context.Context) error {
	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	if !ok {
		return nil
	}
	return errors.Join(tp.ForceFlush(ctx), tp.Shutdown(ctx))
}

// Tracer returns a tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
