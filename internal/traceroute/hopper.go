// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"
)

// recvBufferSize is large enough for any ICMP error quoting our probes.
const recvBufferSize = 1500

// hopper probes the hops towards a single target, one TTL after another.
// It exclusively owns the transport for the duration of the run.
type hopper struct {
	transport  Transport
	otelTracer trace.Tracer
	target     Target
	// dst is the native socket address of the target.
	dst    SockAddr
	layout layout
	// id is the ICMP identifier of all probes.
	id   uint16
	opts Options
	now  func() time.Time
	buf  []byte
}

// answer is a reply matched to a probe.
type answer struct {
	Response
	rtt time.Duration
}

func newHopper(t Transport, tracer trace.Tracer, target Target, dst SockAddr, id uint16, opts Options) *hopper {
	return &hopper{
		transport:  t,
		otelTracer: tracer,
		target:     target,
		dst:        dst,
		layout:     layoutFor(dst.Addr()),
		id:         id,
		opts:       opts,
		now:        time.Now,
		buf:        make([]byte, recvBufferSize),
	}
}

// run probes the TTLs from FirstTTL to MaxTTL and returns one hop per probed TTL.
// It stops after the first hop that reached the target.
// On error the hops probed so far are returned.
func (h *hopper) run(ctx context.Context) ([]Hop, error) {
	hops := make([]Hop, 0, h.opts.MaxTTL-h.opts.FirstTTL+1)
	for ttl := h.opts.FirstTTL; ttl <= h.opts.MaxTTL; ttl++ {
		hop, err := h.probeHop(ctx, ttl)
		if err != nil {
			return hops, err
		}
		hops = append(hops, hop)
		if hop.Reached {
			break
		}
	}
	return hops, nil
}

// probeHop sends the configured number of probes with the given TTL.
// The first host that answers is the hop's address; an Echo Reply ends the hop.
func (h *hopper) probeHop(ctx context.Context, ttl int) (Hop, error) {
	ctx, span := h.otelTracer.Start(ctx, h.target.String(), trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", h.target),
		attribute.Int("traceroute.target.ttl", ttl),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", h.target, "ttl", ttl)

	hop := Hop{TTL: ttl}
	for q := range h.opts.Queries {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Traceroute canceled")
			return hop, err
		}

		req := newRequest(h.layout, h.id, uint16(q)) // #nosec G115 // queries are bounded by config
		ans, ok, err := h.probe(ctx, ttl, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to execute probe")
			return hop, err
		}
		if !ok {
			log.DebugContext(ctx, "No reply received", "seq", req.Seq)
			span.AddEvent("Probe timed out", trace.WithAttributes(
				attribute.Int("traceroute.probe.seq", int(req.Seq)),
			))
			continue
		}

		switch h.layout.classify(ans.Response) {
		case replyTimeExceeded:
			h.record(ctx, &hop, ans)
			span.AddEvent("ICMP time exceeded received", trace.WithAttributes(
				attribute.Int("traceroute.probe.seq", int(req.Seq)),
				attribute.Stringer("traceroute.target.hop", ans.Source),
			))
		case replyEcho:
			h.record(ctx, &hop, ans)
			hop.Reached = true
			log.DebugContext(ctx, "Target reached", "addr", ans.Source)
			span.AddEvent("ICMP echo reply received", trace.WithAttributes(
				attribute.Int("traceroute.probe.seq", int(req.Seq)),
				attribute.Bool("traceroute.target.reached", true),
			))
			return hop, nil
		default:
			log.DebugContext(ctx, "Ignoring reply", "seq", req.Seq, "type", ans.Type, "code", ans.Code, "from", ans.Source)
		}
	}

	span.SetAttributes(attribute.Bool("traceroute.target.hop.answered", hop.Answered()))
	return hop, nil
}

// record stores the responder of an answer if the hop has none yet.
// Later responders are dropped, even if they differ from the first.
func (h *hopper) record(ctx context.Context, hop *Hop, ans answer) {
	if !hop.Answered() {
		hop.Addr = ans.Source
		hop.Latency = ans.rtt
		return
	}
	if hop.Addr != ans.Source {
		logger.FromContext(ctx).DebugContext(ctx, "Dropping differing responder",
			"kept", hop.Addr, "dropped", ans.Source)
	}
}

// probe sends req with the given TTL and waits for the matching reply.
// It returns false if no reply arrived in time.
func (h *hopper) probe(ctx context.Context, ttl int, req Request) (answer, bool, error) {
	if err := h.transport.SetTTL(ttl); err != nil {
		return answer{}, false, err
	}
	if err := h.transport.SetTOS(h.opts.TOS); err != nil {
		return answer{}, false, err
	}

	start := h.now()
	if err := h.transport.SendTo(req.Marshal(), h.dst); err != nil {
		return answer{}, false, err
	}
	logger.FromContext(ctx).DebugContext(ctx, "Probe sent", "seq", req.Seq)

	res, ok, err := h.await(req, start.Add(h.opts.Wait))
	if err != nil || !ok {
		return answer{}, false, err
	}
	return answer{Response: res, rtt: h.now().Sub(start)}, true, nil
}

// await reads datagrams until one matches req or the deadline passes.
// Foreign and short datagrams are skipped, as are our own echo requests
// that the raw socket sees when tracing a local address.
// Every read is bounded by the time left until the deadline.
func (h *hopper) await(req Request, deadline time.Time) (Response, bool, error) {
	for {
		left := deadline.Sub(h.now())
		if left <= 0 {
			return Response{}, false, nil
		}
		if err := h.transport.SetReadTimeout(left); err != nil {
			return Response{}, false, err
		}

		n, from, err := h.transport.RecvFrom(h.buf)
		switch {
		case errors.Is(err, errReadTimeout):
			return Response{}, false, nil
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return Response{}, false, fmt.Errorf("failed to receive reply: %w", err)
		case n <= 0:
			return Response{}, false, nil
		}

		res, ok := parseResponse(from, h.buf[:min(n, len(h.buf))], h.layout)
		if !ok || !res.matches(req) || res.Type == h.layout.echoRequest {
			continue
		}
		return res, true, nil
	}
}
