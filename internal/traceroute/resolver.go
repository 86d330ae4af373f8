// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"
)

// Resolver looks up the names of hop addresses.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// NewResolver returns a [Resolver] backed by the pure Go resolver.
func NewResolver() Resolver {
	return &net.Resolver{PreferGo: true}
}
