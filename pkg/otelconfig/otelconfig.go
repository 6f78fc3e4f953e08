// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelconfig initializes OpenTelemetry tracer providers.
package otelconfig

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Initializer creates a trace.TracerProvider.
type Initializer interface {
	Init(context.Context) (trace.TracerProvider, error)
}

// Noop returns the globally registered trace.TracerProvider as is.
var Noop = noopInitializer{}

type noopInitializer struct{}

func (noopInitializer) Init(_ context.Context) (trace.TracerProvider, error) {
	return otel.GetTracerProvider(), nil
}

// LocalConfig configures the Local Initializer.
type LocalConfig struct {
	ServiceName string
	Out         io.Writer
	Pretty      bool
}

// LocalOption configures the Local Initializer.
type LocalOption func(*LocalConfig)

// ServiceName sets the service.name resource attribute.
func ServiceName(name string) LocalOption {
	return func(lc *LocalConfig) {
		lc.ServiceName = name
	}
}

// Out sets where spans are written to. The default is os.Stdout.
func Out(w io.Writer) LocalOption {
	return func(lc *LocalConfig) {
		lc.Out = w
	}
}

// PrettyPrint indents the exported spans.
func PrettyPrint() LocalOption {
	return func(lc *LocalConfig) {
		lc.Pretty = true
	}
}

// Local returns an Initializer which writes spans as JSON.
func Local(opts ...LocalOption) Initializer {
	cfg := LocalConfig{
		Out: os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Init implements the Initializer interface. The returned provider
// is a *sdktrace.TracerProvider which must be shut down to flush spans.
func (cfg LocalConfig) Init(ctx context.Context) (trace.TracerProvider, error) {
	exporterOpts := []stdouttrace.Option{
		stdouttrace.WithWriter(cfg.Out),
	}
	if cfg.Pretty {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}

// Shutdown flushes and stops tp if it supports being shut down.
func Shutdown(ctx context.Context, tp trace.TracerProvider) error {
	s, ok := tp.(interface {
		Shutdown(context.Context) error
	})
	if !ok {
		return nil
	}
	return s.Shutdown(ctx)
}
