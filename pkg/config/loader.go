// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"

	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/internal/traceroute"
)

//go:generate go tool moq -out loader_moq.go . Loader
type Loader interface {
	// Run starts the loader routine.
	// The loader should be able
	// to handle all errors by itself and retry if necessary.
	// If the context is canceled,
	// the Run method returns an error.
	Run(context.Context) error
	// Shutdown stops the loader routine.
	Shutdown(context.Context)
}

// NewLoader returns the targets loader of the watch mode.
// Without a targets file the configured targets are sent once.
func NewLoader(cfg *Config, cTargets chan<- []traceroute.Target) Loader {
	if cfg.HasTargetsFile() {
		return NewFileLoader(cfg, cTargets)
	}
	return &staticLoader{
		targets:  cfg.TargetList(),
		cTargets: cTargets,
		done:     make(chan struct{}, 1),
	}
}

var _ Loader = (*staticLoader)(nil)

// staticLoader sends a fixed target list and waits for shutdown.
type staticLoader struct {
	targets  []traceroute.Target
	cTargets chan<- []traceroute.Target
	done     chan struct{}
}

func (s *staticLoader) Run(ctx context.Context) error {
	select {
	case s.cTargets <- s.targets:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-s.done:
		logger.FromContext(ctx).Info("Static Loader terminated")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *staticLoader) Shutdown(context.Context) {
	select {
	case s.done <- struct{}{}:
	default:
	}
}
