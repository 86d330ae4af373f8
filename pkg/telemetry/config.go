// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/telekom/icmptrace/internal/logger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var (
	// ErrMissingURL is returned if an otlp exporter has no collector url.
	ErrMissingURL = errors.New("url is required for otlp exporter")
	// ErrInvalidSampleRatio is returned if the sample ratio is not within [0, 1].
	ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")
)

// Config configures the export of the traceroute spans
type Config struct {
	// Enabled turns the tracing on
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter is the exporter the spans are sent to
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Url of the otlp collector
	Url string `yaml:"url" mapstructure:"url"`
	// Token is sent as bearer token to the collector
	Token string `yaml:"token" mapstructure:"token"`
	// TLS holds the tls configuration
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
	// SampleRatio is the share of traceroute runs whose spans are recorded.
	// Zero records every run.
	SampleRatio float64 `yaml:"sampleRatio" mapstructure:"sampleRatio"`
}

type TLSConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath is only required if the collector uses custom certificates.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx).With("exporter", c.Exporter)
	if vErr := c.Exporter.Validate(); vErr != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", vErr)
		err = errors.Join(err, vErr)
	}

	if c.Exporter.IsExporting() && c.Url == "" {
		log.ErrorContext(ctx, "Url is required for otlp exporter")
		err = errors.Join(err, fmt.Errorf("%w %q", ErrMissingURL, c.Exporter))
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		log.ErrorContext(ctx, "The sample ratio should be between 0 and 1", "sampleRatio", c.SampleRatio)
		err = errors.Join(err, fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.SampleRatio))
	}
	return err
}

// sampler samples whole runs: the probe spans follow the decision of their run.
func (c *Config) sampler() sdktrace.Sampler {
	if c.SampleRatio == 0 || c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}
