// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
)

// ErrInvalidTarget is returned when a target address is not a literal IP address.
// Host names are not resolved.
var ErrInvalidTarget = errors.New("target is not an IP address")

// errICMPNotAvailable is returned when ICMP is not available due to lack of NET_RAW capabilities.
// This typically occurs when the process does not have the necessary permissions to create an ICMP socket
// or when running in an environment where ICMP is restricted (e.g., some containerized environments).
var errICMPNotAvailable = errors.New("no NET_RAW capabilities, ICMP not available")

// errReadTimeout is returned by a [Transport] when no datagram arrived within its read timeout.
var errReadTimeout = errors.New("read timeout")

// isTracerouteError checks if the error is related to common
// and expected traceroute errors.
func isTracerouteError(err error) bool {
	return errors.Is(err, errICMPNotAvailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
