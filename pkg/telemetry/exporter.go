// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Exporter selects where the traces are exported to.
type Exporter string

const (
	// HTTP exports traces with OTLP over HTTP.
	HTTP Exporter = "http"
	// GRPC exports traces with OTLP over gRPC.
	GRPC Exporter = "grpc"
	// STDOUT writes traces to stderr, stdout is reserved for the trace output.
	STDOUT Exporter = "stdout"
	// NOOP drops all traces.
	NOOP Exporter = "noop"
)

// String returns the string representation of the exporter.
func (e Exporter) String() string {
	return string(e)
}

// Validate checks that the exporter is supported.
// The empty exporter is treated as [NOOP].
func (e Exporter) Validate() error {
	switch e {
	case HTTP, GRPC, STDOUT, NOOP, "":
		return nil
	default:
		return fmt.Errorf("unsupported exporter %q", e)
	}
}

// IsExporting reports whether the exporter sends traces to a collector.
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

// Create creates the span exporter for the given configuration.
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	switch e {
	case HTTP:
		opts, err := newHTTPOptions(config)
		if err != nil {
			return nil, err
		}
		return otlptracehttp.New(ctx, opts...)
	case GRPC:
		opts, err := newGRPCOptions(config)
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, opts...)
	case STDOUT:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	case NOOP, "":
		return &noopExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter %q", e)
	}
}

func newHTTPOptions(config *Config) ([]otlptracehttp.Option, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(config.Url)}
	if config.Token != "" {
		opts = append(opts, otlptracehttp.WithHeaders(authHeader(config.Token)))
	}

	if !config.TLS.Enabled {
		return append(opts, otlptracehttp.WithInsecure()), nil
	}
	tlsCfg, err := newTLSConfig(config.TLS.CertPath)
	if err != nil {
		return nil, err
	}
	return append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg)), nil
}

func newGRPCOptions(config *Config) ([]otlptracegrpc.Option, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(config.Url)}
	if config.Token != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(authHeader(config.Token)))
	}

	if !config.TLS.Enabled {
		return append(opts, otlptracegrpc.WithInsecure()), nil
	}
	tlsCfg, err := newTLSConfig(config.TLS.CertPath)
	if err != nil {
		return nil, err
	}
	return append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg))), nil
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": fmt.Sprintf("Bearer %s", token)}
}

// newTLSConfig returns a TLS configuration trusting the certificate at certPath
// in addition to the system pool. Without a path only the system pool is used.
func newTLSConfig(certPath string) (*tls.Config, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}

	if certPath != "" {
		pem, err := os.ReadFile(certPath) // #nosec G304 // path comes from the operator's config
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate: %w", err)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("failed to append certificate to pool")
		}
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

var _ sdktrace.SpanExporter = (*noopExporter)(nil)

// noopExporter drops all spans.
type noopExporter struct{}

func (*noopExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (*noopExporter) Shutdown(context.Context) error { return nil }
