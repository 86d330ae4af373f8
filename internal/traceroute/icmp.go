// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net/netip"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*icmpClient)(nil)

// icmpClient traces targets with ICMP Echo probes over a raw socket.
type icmpClient struct {
	// newTransport opens the transport used to trace dst.
	newTransport func(dst netip.Addr) (Transport, error)
	resolver     Resolver
	// id is the ICMP identifier of the probes.
	id  uint16
	now func() time.Time
}

// newICMPClient creates a new ICMP client for performing traceroutes.
func newICMPClient(r Resolver) *icmpClient {
	return &icmpClient{
		newTransport: newRawSocket,
		resolver:     r,
		id:           processIdentifier(),
		now:          time.Now,
	}
}

// Run traces the targets one after another. Every target gets its own transport.
// On error the result holds the targets traced so far.
func (c *icmpClient) Run(ctx context.Context, targets []Target, opts *Options) (Result, error) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.icmpClient")
	ctx, sp := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("traceroute.targets.count", len(targets)),
		attribute.Int("traceroute.options.first_ttl", opts.FirstTTL),
		attribute.Int("traceroute.options.max_hops", opts.MaxTTL),
		attribute.Int("traceroute.options.queries", opts.Queries),
		attribute.Stringer("traceroute.options.wait", opts.Wait),
	))
	defer sp.End()

	res := make(Result, len(targets))
	for _, target := range targets {
		hops, err := c.trace(ctx, tracer, target, *opts)
		if err != nil {
			return res, err
		}
		res[target] = hops
		logHops(ctx, target, hops)
	}

	return res, nil
}

// trace opens a transport for the target, probes all hops and closes the transport.
func (c *icmpClient) trace(ctx context.Context, tracer trace.Tracer, target Target, opts Options) ([]Hop, error) {
	log := logger.FromContext(ctx).With("target", target)
	log.DebugContext(ctx, "Starting ICMP trace")

	addr, err := target.Addr()
	if err != nil {
		return nil, wrapError(ctx, err, "invalid target %s", target)
	}
	dst := NewSockAddr(addr)

	t, err := c.newTransport(addr)
	if err != nil {
		return nil, wrapError(ctx, err, "failed to open socket for %s", target)
	}
	defer func() {
		if cErr := t.Close(); cErr != nil {
			log.WarnContext(ctx, "Failed to close socket", "error", cErr)
		}
	}()

	h := newHopper(t, tracer, target, dst, c.id, opts)
	h.now = c.now
	hops, err := h.run(ctx)
	if err != nil {
		if isTracerouteError(err) {
			log.WarnContext(ctx, "Traceroute aborted", "error", err, "hops", len(hops))
			return hops, err
		}
		return hops, wrapError(ctx, err, "failed to trace %s", target)
	}

	if opts.Resolve && c.resolver != nil {
		resolveNames(ctx, c.resolver, hops, opts.Retry)
	}
	return hops, nil
}
