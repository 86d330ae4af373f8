// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/pkg/config"
	"github.com/telekom/icmptrace/pkg/report"
	"github.com/telekom/icmptrace/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// runTrace traces the host once and prints the hops
func runTrace(version string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := logger.NewContextWithLogger(ctx)
		defer cancel()

		cfg, err := loadConfig(ctx, args, false)
		if err != nil {
			return err
		}

		if cfg.HasTelemetry() {
			tel := telemetry.New(cfg.Telemetry, telemetry.Service{Version: version, Command: "trace"})
			if err := tel.InitTracing(ctx); err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}
			defer func() {
				err = errors.Join(err, tel.Shutdown(context.WithoutCancel(ctx)))
			}()

			// the client spans are children of this span
			var span trace.Span
			ctx, span = tel.Tracer().Start(ctx, "icmptrace.trace", trace.WithAttributes(
				attribute.StringSlice("traceroute.targets", cfg.Targets),
			))
			defer span.End()
		}

		targets := cfg.TargetList()
		opts := cfg.Options()
		res, err := newClient().Run(ctx, targets, &opts)
		if err != nil {
			return fmt.Errorf("traceroute failed: %w", err)
		}

		return report.Write(cmd.OutOrStdout(), report.Format(cfg.Output.Format), targets, res)
	}
}

// loadConfig reads the configuration from viper and validates it.
// The hosts given as arguments replace the configured targets.
func loadConfig(ctx context.Context, args []string, watching bool) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(args) > 0 {
		cfg.Targets = args
	}
	cfg.Watch.Enabled = watching

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
