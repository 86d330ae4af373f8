// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "icmptrace"
	// tracerName is the instrumentation scope of the command spans.
	tracerName = "github.com/telekom/icmptrace"
	// commandKey is the resource attribute naming the command that runs the traces.
	commandKey = attribute.Key("icmptrace.command")
)

var _ Provider = (*manager)(nil)

// Provider owns the prometheus registry and the OpenTelemetry tracer provider.
type Provider interface {
	// GetRegistry returns the prometheus registry instance
	// containing the registered prometheus collectors
	GetRegistry() *prometheus.Registry
	// InitTracing initializes the OpenTelemetry tracing
	InitTracing(ctx context.Context) error
	// Tracer returns the tracer for the spans of a command.
	// Spans started before InitTracing are not exported.
	Tracer() trace.Tracer
	// Shutdown flushes the pending spans and closes the tracing
	Shutdown(ctx context.Context) error
}

// Service identifies the running icmptrace instance in the exported traces.
type Service struct {
	Version string
	// Command is the command running the traces, "trace" or "watch".
	Command string
}

type manager struct {
	config   Config
	service  Service
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
}

// New initializes the prometheus registry and returns the telemetry provider.
func New(config Config, svc Service) Provider {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &manager{
		config:   config,
		service:  svc,
		registry: registry,
	}
}

// GetRegistry returns the registry to register prometheus metrics
func (m *manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// InitTracing creates the exporter and installs the tracer provider globally.
// The resource carries the process id, which the probes derive their ICMP
// identifier from.
func (m *manager) InitTracing(ctx context.Context) error {
	log := logger.FromContext(ctx).With("exporter", m.config.Exporter, "command", m.service.Command)
	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithProcessPID(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(m.service.Version),
			commandKey.String(m.service.Command),
		),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create trace resource", "error", err)
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := m.config.Exporter.Create(ctx, &m.config)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create span exporter", "error", err)
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	// A trace of 30 hops with 3 queries each emits about a hundred events,
	// one batch holds the spans of a few runs.
	const (
		batchTimeout = 5 * time.Second
		maxQueueSize = 1000
		maxBatchSize = 100
	)
	bsp := sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithBatchTimeout(batchTimeout),
		sdktrace.WithMaxQueueSize(maxQueueSize),
		sdktrace.WithMaxExportBatchSize(maxBatchSize),
	)
	m.tp = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(m.config.sampler()),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(m.tp)
	log.DebugContext(ctx, "Tracing initialized", "sampleRatio", m.config.SampleRatio)
	return nil
}

// Tracer returns the icmptrace tracer of the initialized provider,
// or of the global provider if tracing is not initialized.
func (m *manager) Tracer() trace.Tracer {
	var tp trace.TracerProvider = otel.GetTracerProvider()
	if m.tp != nil {
		tp = m.tp
	}
	return tp.Tracer(tracerName, trace.WithInstrumentationVersion(m.service.Version))
}

// Shutdown flushes and closes the tracing
func (m *manager) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if m.tp == nil {
		return nil
	}

	if err := m.tp.Shutdown(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to flush traces", "error", err)
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	log.DebugContext(ctx, "Tracing shutdown", "command", m.service.Command)
	return nil
}
