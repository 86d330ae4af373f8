// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package watch traces a set of targets periodically and exposes the
// last result and its metrics via http.
package watch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/api"
	"github.com/telekom/icmptrace/pkg/config"
	"github.com/telekom/icmptrace/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 30 * time.Second

// Watcher re-traces its targets every interval
type Watcher struct {
	// config is the startup configuration
	config *config.Config
	// version is reported in the instance info metric and the openapi document
	version string
	// client runs the traceroutes
	client traceroute.Client
	// loader delivers the targets
	loader config.Loader
	// api serves the results and metrics
	api api.API
	// telemetry owns the metrics registry and the tracer provider
	telemetry telemetry.Provider
	metrics   metrics
	tracer    trace.Tracer
	// cTargets receives the target list from the loader
	cTargets chan []traceroute.Target
	// cErr receives the non-recoverable errors of the loader and the api
	cErr chan error

	mu      sync.RWMutex
	targets []traceroute.Target
	last    *Snapshot
}

// Snapshot is the result of one round of traces
type Snapshot struct {
	// Data maps each target to its hops
	Data map[string][]HopResult `json:"data"`
	// Timestamp is the UTC time the round was started
	Timestamp time.Time `json:"timestamp"`
}

// HopResult is the api representation of a hop
type HopResult struct {
	TTL     int    `json:"ttl"`
	Addr    string `json:"addr,omitempty"`
	Name    string `json:"name,omitempty"`
	Latency string `json:"latency"`
	Reached bool   `json:"reached"`
}

func newHopResults(hops []traceroute.Hop) []HopResult {
	res := make([]HopResult, 0, len(hops))
	for _, h := range hops {
		hr := HopResult{TTL: h.TTL, Name: h.Name, Latency: h.Latency.String(), Reached: h.Reached}
		if h.Answered() {
			hr.Addr = h.Addr.String()
		}
		res = append(res, hr)
	}
	return res
}

// New creates a new watcher
func New(cfg *config.Config, version string, client traceroute.Client) *Watcher {
	cTargets := make(chan []traceroute.Target, 1)
	tel := telemetry.New(cfg.Telemetry, telemetry.Service{Version: version, Command: "watch"})
	return &Watcher{
		config:    cfg,
		version:   version,
		client:    client,
		loader:    config.NewLoader(cfg, cTargets),
		api:       api.New(api.Config{ListeningAddress: cfg.Watch.Address}),
		telemetry: tel,
		metrics:   newMetrics(),
		tracer:    tel.Tracer(),
		cTargets:  cTargets,
		cErr:      make(chan error, 2),
	}
}

// Run traces the targets until the context is canceled or a component fails.
// The targets are traced right away whenever the loader delivers a new list.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	if w.config.HasTelemetry() {
		if err := w.telemetry.InitTracing(ctx); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if err := w.register(ctx); err != nil {
		return err
	}

	go func() {
		w.cErr <- w.loader.Run(ctx)
	}()
	go func() {
		w.cErr <- w.api.Run(ctx)
	}()

	log.InfoContext(ctx, "Starting watch", "interval", w.config.Watch.Interval.String())
	tick := time.NewTicker(w.config.Watch.Interval)
	defer tick.Stop()

	for {
		select {
		case targets := <-w.cTargets:
			w.updateTargets(ctx, targets)
			w.check(ctx)
			tick.Reset(w.config.Watch.Interval)
		case <-tick.C:
			w.check(ctx)
		case <-ctx.Done():
			log.InfoContext(ctx, "Stopping watch", "reason", ctx.Err())
			return w.shutdown(ctx)
		case err := <-w.cErr:
			// components return the context error once it is canceled
			if err != nil && ctx.Err() == nil {
				log.ErrorContext(ctx, "Non-recoverable error in watch component", "error", err)
				return errors.Join(err, w.shutdown(ctx))
			}
		}
	}
}

// register registers the metrics and the routes
func (w *Watcher) register(ctx context.Context) error {
	registry := w.telemetry.GetRegistry()
	for _, c := range w.metrics.GetCollectors() {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "Failed to get hostname", "error", err)
	}
	if err := telemetry.RegisterInstanceInfo(registry, hostname, w.version); err != nil {
		return fmt.Errorf("failed to register instance info: %w", err)
	}

	return w.api.RegisterRoutes(ctx,
		api.Route{Path: "/metrics", Method: http.MethodGet, Handler: w.handleMetrics()},
		api.Route{Path: "/v1/result", Method: http.MethodGet, Handler: w.handleResult},
		api.Route{Path: "/openapi", Method: http.MethodGet, Handler: w.handleOpenAPI},
	)
}

// updateTargets replaces the targets and removes the metrics of the dropped ones
func (w *Watcher) updateTargets(ctx context.Context, targets []traceroute.Target) {
	log := logger.FromContext(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range w.targets {
		if slices.Contains(targets, t) {
			continue
		}
		if err := w.metrics.Remove(t.String()); err != nil {
			log.DebugContext(ctx, "No metrics to remove for target", "target", t.String(), "error", err)
		}
	}

	log.InfoContext(ctx, "Updated targets", "targets", len(targets))
	w.targets = slices.Clone(targets)
}

// check traces every target once and stores the snapshot
func (w *Watcher) check(ctx context.Context) {
	log := logger.FromContext(ctx)
	ctx, span := w.tracer.Start(ctx, "watch.check")
	defer span.End()

	w.mu.RLock()
	targets := slices.Clone(w.targets)
	w.mu.RUnlock()

	if len(targets) == 0 {
		log.WarnContext(ctx, "No targets configured for watch")
		return
	}
	span.SetAttributes(attribute.Int("traceroute.targets", len(targets)))

	opts := w.config.Options()
	snap := &Snapshot{
		Data:      make(map[string][]HopResult, len(targets)),
		Timestamp: time.Now().UTC(),
	}
	for _, t := range targets {
		start := time.Now()
		res, err := w.client.Run(ctx, []traceroute.Target{t}, &opts)
		if err != nil {
			log.ErrorContext(ctx, "Failed to run traceroute", "target", t.String(), "error", err)
			span.SetStatus(codes.Error, "Failed to run traceroute")
			span.RecordError(err)
			w.metrics.Failed(t.String())
			continue
		}

		hops := res[t]
		w.metrics.Set(t.String(), hops, time.Since(start))
		snap.Data[t.String()] = newHopResults(hops)
	}

	w.mu.Lock()
	w.last = snap
	w.mu.Unlock()
	log.DebugContext(ctx, "Successfully finished watch run")
}

// shutdown stops the loader, the api and the telemetry
func (w *Watcher) shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	log.InfoContext(ctx, "Shutting down watch")
	w.loader.Shutdown(ctx)
	err := errors.Join(w.api.Shutdown(ctx), w.telemetry.Shutdown(ctx))
	if err != nil {
		log.ErrorContext(ctx, "Failed to shutdown gracefully", "error", err)
		return fmt.Errorf("failed to shutdown watch: %w", err)
	}
	return nil
}

// Last returns the snapshot of the last round or nil if there was none yet
func (w *Watcher) Last() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}
