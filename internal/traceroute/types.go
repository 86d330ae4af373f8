// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/telekom/icmptrace/internal/helper"
)

// Result represents the result of a traceroute, mapping each target to its hops.
// The hops of a target are ordered by TTL.
type Result map[Target][]Hop

// Options contains the configuration of a traceroute run.
type Options struct {
	// FirstTTL is the TTL of the first probed hop.
	FirstTTL int `json:"first" yaml:"first" mapstructure:"first"`
	// MaxTTL is the maximum TTL to use for the traceroute.
	MaxTTL int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Queries is the number of probes sent per hop.
	Queries int `json:"queries" yaml:"queries" mapstructure:"queries"`
	// Wait is how long to wait for the reply to a single probe.
	Wait time.Duration `json:"wait" yaml:"wait" mapstructure:"wait"`
	// TOS is the IP type of service (IPv6 traffic class) of the probes.
	TOS int `json:"tos" yaml:"tos" mapstructure:"tos"`
	// Resolve enables reverse DNS lookups of the hop addresses.
	Resolve bool `json:"resolve" yaml:"resolve" mapstructure:"resolve"`
	// Retry is the retry configuration for reverse DNS lookups.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// Validate checks the options for values the engine cannot work with.
func (o *Options) Validate() error {
	var errs []error
	if o.FirstTTL < 1 || o.FirstTTL > maxTTL {
		errs = append(errs, fmt.Errorf("first ttl %d out of range [1, %d]", o.FirstTTL, maxTTL))
	}
	if o.MaxTTL < o.FirstTTL || o.MaxTTL > maxTTL {
		errs = append(errs, fmt.Errorf("max ttl %d out of range [%d, %d]", o.MaxTTL, o.FirstTTL, maxTTL))
	}
	if o.Queries < 1 {
		errs = append(errs, fmt.Errorf("queries must be at least 1, got %d", o.Queries))
	}
	if o.Wait <= 0 {
		errs = append(errs, fmt.Errorf("wait must be positive, got %s", o.Wait))
	}
	if o.TOS < 0 || o.TOS > 255 {
		errs = append(errs, fmt.Errorf("tos %d out of range [0, 255]", o.TOS))
	}
	return errors.Join(errs...)
}

// maxTTL is the largest value the TTL (hop limit) field can hold.
const maxTTL = 255

// Target represents a target for the traceroute.
type Target struct {
	// Address is the literal IPv4 or IPv6 address to trace to.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
}

func (t Target) String() string {
	return t.Address
}

// Validate returns [ErrInvalidTarget] if the address is not an IP literal.
func (t Target) Validate() error {
	_, err := t.Addr()
	return err
}

// Addr parses the target address. IPv4-mapped IPv6 addresses are
// unmapped, so they are traced over IPv4.
func (t Target) Addr() (netip.Addr, error) {
	if t.Address == "" {
		return netip.Addr{}, fmt.Errorf("%w: address cannot be empty", ErrInvalidTarget)
	}
	addr, err := netip.ParseAddr(t.Address)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: zoned address %q", ErrInvalidTarget, t.Address)
	}
	return addr.Unmap(), nil
}

// Hop is the outcome of probing one TTL.
type Hop struct {
	Latency time.Duration `json:"-"`
	// Addr is the first host that answered a probe of this TTL.
	// It is the zero value if no probe was answered.
	Addr netip.Addr `json:"addr"`
	// Name is the reverse DNS name of Addr, if resolved.
	Name    string `json:"name,omitempty"`
	TTL     int    `json:"ttl"`
	Reached bool   `json:"reached"`
}

// Answered reports whether any probe of this hop got a reply.
func (h Hop) Answered() bool {
	return h.Addr.IsValid()
}

func (h Hop) MarshalJSON() ([]byte, error) {
	type alias Hop
	return json.Marshal(&struct {
		Latency string `json:"latency"`
		alias
	}{
		Latency: h.Latency.String(),
		alias:   alias(h),
	})
}

// MarshalYAML renders the hop with the same fields as its JSON form.
func (h Hop) MarshalYAML() (any, error) {
	var addr string
	if h.Answered() {
		addr = h.Addr.String()
	}
	return struct {
		Latency string `yaml:"latency"`
		Addr    string `yaml:"addr"`
		Name    string `yaml:"name,omitempty"`
		TTL     int    `yaml:"ttl"`
		Reached bool   `yaml:"reached"`
	}{
		Latency: h.Latency.String(),
		Addr:    addr,
		Name:    h.Name,
		TTL:     h.TTL,
		Reached: h.Reached,
	}, nil
}

// String returns the hop as "<ttl> <addr>", or "<ttl> ***" if it was not answered.
func (h Hop) String() string {
	if !h.Answered() {
		return fmt.Sprintf("%d ***", h.TTL)
	}
	return fmt.Sprintf("%d %s", h.TTL, h.Addr)
}
