// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/pkg/report"
)

const (
	maxTTL     = 255
	maxQueries = 10
	maxWait    = 60
	maxTOS     = 255
)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if vErr := c.Trace.Validate(ctx); vErr != nil {
		log.Error("The trace configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if c.Resolve.Enabled {
		if vErr := c.Resolve.Retry.Validate(); vErr != nil {
			log.Error("The resolve retry configuration is invalid", "error", vErr)
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidResolveRetry, vErr))
		}
	}

	if !report.Format(c.Output.Format).IsValid() {
		log.Error("The output format is not supported", "format", c.Output.Format)
		err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format))
	}

	if vErr := c.validateTargets(ctx); vErr != nil {
		err = errors.Join(err, vErr)
	}

	if c.Watch.Enabled {
		if vErr := c.Watch.Validate(ctx); vErr != nil {
			log.Error("The watch configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.Error("The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// Validate validates the probing parameters
func (c *TraceConfig) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if c.First < 1 || c.First > maxTTL {
		log.Error("The first ttl should be between 1 and 255", "first", c.First)
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidFirstTTL, c.First))
	}
	if c.MaxHops < 1 || c.MaxHops > maxTTL || c.MaxHops < c.First {
		log.Error("The max hops should be between the first ttl and 255", "maxHops", c.MaxHops, "first", c.First)
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidMaxHops, c.MaxHops))
	}
	if c.Queries < 1 || c.Queries > maxQueries {
		log.Error("The number of queries should be between 1 and 10", "queries", c.Queries)
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidQueries, c.Queries))
	}
	if c.Wait < 1 || c.Wait > maxWait {
		log.Error("The wait time should be between 1 and 60 seconds", "wait", c.Wait)
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidWait, c.Wait))
	}
	if c.TOS < 0 || c.TOS > maxTOS {
		log.Error("The type of service should be between 0 and 255", "tos", c.TOS)
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidTOS, c.TOS))
	}

	return err
}

// Validate validates the watch configuration
func (c *WatchConfig) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if c.Interval <= 0 {
		log.Error("The watch interval should be above 0", "interval", c.Interval)
		err = errors.Join(err, fmt.Errorf("%w: %s", ErrInvalidWatchInterval, c.Interval))
	}
	if _, _, sErr := net.SplitHostPort(c.Address); sErr != nil {
		log.Error("The watch address is not a valid listen address", "address", c.Address)
		err = errors.Join(err, fmt.Errorf("%w: %w", ErrInvalidWatchAddress, sErr))
	}
	if c.File.Interval < 0 {
		log.Error("The loader interval should be equal or above 0", "interval", c.File.Interval)
		err = errors.Join(err, fmt.Errorf("%w: %s", ErrInvalidLoaderInterval, c.File.Interval))
	}

	return err
}

// validateTargets checks that every target is an IP literal.
// Targets may be empty in watch mode if they are loaded from a file.
func (c *Config) validateTargets(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if len(c.Targets) == 0 && !(c.Watch.Enabled && c.HasTargetsFile()) {
		log.Error("At least one target is required")
		return ErrNoTargets
	}

	for _, t := range c.TargetList() {
		if vErr := t.Validate(); vErr != nil {
			log.Error("The target is not a literal IP address", "target", t.Address)
			err = errors.Join(err, vErr)
		}
	}
	return err
}
