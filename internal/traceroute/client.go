// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
)

var (
	_ Client = (*genericClient)(nil)
)

// Client is able to run a traceroute to one or more targets.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run executes the traceroute for the given targets with the specified options.
	// Returns a Result containing the hops for each target, or an error if the traceroute fails.
	Run(ctx context.Context, targets []Target, opts *Options) (Result, error)
}

type genericClient struct {
	// icmp is the [icmpClient] that implements the traceroute using ICMP Echo probes.
	icmp Client
}

// NewClient returns a [Client] that traces with ICMP Echo probes.
// Hop names are looked up with r if [Options.Resolve] is set.
func NewClient(r Resolver) Client {
	return &genericClient{
		icmp: newICMPClient(r),
	}
}

func (c *genericClient) Run(ctx context.Context, targets []Target, opts *Options) (Result, error) {
	if opts == nil {
		return nil, fmt.Errorf("no options given")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	for _, target := range targets {
		if err := target.Validate(); err != nil {
			return nil, fmt.Errorf("invalid target %s: %w", target, err)
		}
	}

	return c.icmp.Run(ctx, targets, opts)
}
