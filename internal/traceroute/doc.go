// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute discovers the routers on the path to a target by
// sending ICMP Echo Requests with increasing TTL and collecting the ICMP
// Time Exceeded messages they provoke.
//
// It exposes a [Client] for running traceroutes against one or
// more targets with configurable [Options].
// Under the hood every target gets its own raw ICMP socket. The hops are
// probed strictly one after another: for each TTL a fixed number of probes
// is sent, each one waiting up to [Options.Wait] for a reply whose quoted
// identifier and sequence match the probe. The first router that answers
// becomes the hop. The run ends at the first Echo Reply, which means the
// target itself answered, or after [Options.MaxTTL].
//
// Key features:
//   - Pure-Go raw sockets via x/sys/unix (no external traceroute binary
//     required), for IPv4 and IPv6
//   - Hand-written probe encoding with the RFC 1071 checksum and fixed
//     offset reply decoding
//   - Built-in OpenTelemetry spans and events for tracing each hop and errors
//   - Optional reverse DNS lookups of the hops with a retry policy
//   - Fully mockable internals ([Transport], [Resolver], [Client]) for unit testing
//
// Typical usage:
//
//	client := traceroute.NewClient(traceroute.NewResolver())
//	opts   := &traceroute.Options{FirstTTL: 1, MaxTTL: 30, Queries: 3, Wait: 5*time.Second}
//	res, err := client.Run(ctx, []traceroute.Target{{Address: "192.0.2.1"}}, opts)
//	// res maps each Target to its slice of Hop results
//
// Opening raw sockets requires the NET_RAW capability.
package traceroute
