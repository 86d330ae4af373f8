// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/telekom/icmptrace/internal/helper"
	"github.com/telekom/icmptrace/internal/logger"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// processIdentifier returns the ICMP identifier of this process.
// It tells our probes apart from those of other processes on the host.
func processIdentifier() uint16 {
	return uint16(os.Getpid() & 0xffff) // #nosec G115 // masked to 16 bits
}

// resolveName performs a reverse DNS lookup for the given IP address.
// Temporary DNS failures are retried according to rc.
// If the lookup fails or returns no names, it returns an empty string.
func resolveName(ctx context.Context, r Resolver, addr netip.Addr, rc helper.RetryConfig) string {
	if !addr.IsValid() {
		return ""
	}

	var names []string
	lookup := helper.Retry(func(ctx context.Context) error {
		var err error
		names, err = r.LookupAddr(ctx, addr.String())
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && !dnsErr.IsTemporary {
			return helper.Permanent(err)
		}
		return err
	}, rc)

	if err := lookup(ctx); err != nil || len(names) == 0 {
		logger.FromContext(ctx).DebugContext(ctx, "No name found for hop", "addr", addr, "error", err)
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}

// resolveNames fills in the names of all answered hops.
func resolveNames(ctx context.Context, r Resolver, hops []Hop, rc helper.RetryConfig) {
	for i := range hops {
		hops[i].Name = resolveName(ctx, r, hops[i].Addr, rc)
	}
}

// logHops logs the hops in a structured format.
func logHops(ctx context.Context, target Target, hops []Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, hop.String(), "target", target, "latency", hop.Latency, "reached", hop.Reached)
	}
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	formatted := fmt.Sprintf(msg, args...)
	log.ErrorContext(ctx, caser.String(formatted), "error", err)
	span.SetStatus(codes.Error, formatted)
	span.RecordError(err)
	return fmt.Errorf("%s: %w", formatted, err)
}
