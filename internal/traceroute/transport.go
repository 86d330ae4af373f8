// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"time"
)

// Transport sends probes and receives ICMP datagrams.
// A Transport is used by a single goroutine at a time.
//
//go:generate go tool moq -out transport_moq.go . Transport
type Transport interface {
	// SetTTL sets the TTL (hop limit) of subsequently sent probes.
	SetTTL(ttl int) error
	// SetTOS sets the type of service (traffic class) of subsequently sent probes.
	SetTOS(tos int) error
	// SetReadTimeout bounds how long a single RecvFrom may block.
	SetReadTimeout(d time.Duration) error
	// SendTo sends the encoded probe to dst.
	SendTo(b []byte, dst SockAddr) error
	// RecvFrom reads one datagram into b and returns its length and sender.
	// The sender is nil if its address family is not supported.
	// It returns [errReadTimeout] if nothing arrived within the read timeout.
	RecvFrom(b []byte) (int, SockAddr, error)
	// Close releases the underlying socket.
	Close() error
}
