// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/telekom/icmptrace/internal/helper"
	"github.com/telekom/icmptrace/internal/traceroute"
	"github.com/telekom/icmptrace/pkg/telemetry"
)

type Config struct {
	// Trace is the configuration of the probing
	Trace TraceConfig `yaml:"trace" mapstructure:"trace"`
	// Resolve is the configuration of the reverse lookups of the hops
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	// Output is the configuration of the trace output
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	// Watch is the configuration of the watch mode
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
	// Telemetry is the configuration for the telemetry
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
	// Targets are the literal IP addresses to trace
	Targets []string `yaml:"targets" mapstructure:"targets"`
}

// TraceConfig holds the probing parameters
type TraceConfig struct {
	// First is the TTL of the first probe
	First int `yaml:"first" mapstructure:"first"`
	// MaxHops is the largest TTL that is probed
	MaxHops int `yaml:"maxHops" mapstructure:"maxHops"`
	// Queries is the number of probes per hop
	Queries int `yaml:"queries" mapstructure:"queries"`
	// Wait is the number of seconds to wait for the reply of a probe
	Wait int `yaml:"wait" mapstructure:"wait"`
	// TOS is the IP type of service of the probes
	TOS int `yaml:"tos" mapstructure:"tos"`
}

// ResolveConfig is the configuration of the reverse DNS lookups
type ResolveConfig struct {
	Enabled bool               `yaml:"enabled" mapstructure:"enabled"`
	Retry   helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// OutputConfig is the configuration of the trace output
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// WatchConfig is the configuration of the watch mode
type WatchConfig struct {
	// Enabled is set by the watch command
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Interval is the pause between two trace runs
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Address is the listen address of the api
	Address string `yaml:"address" mapstructure:"address"`
	// File configures an optional file the targets are loaded from
	File FileLoaderConfig `yaml:"file" mapstructure:"file"`
}

// FileLoaderConfig is the configuration for the targets file loader
type FileLoaderConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	// Interval is the reload interval. The file is read only once if it is 0.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// Options converts the configuration into the options of a traceroute run
func (c *Config) Options() traceroute.Options {
	return traceroute.Options{
		FirstTTL: c.Trace.First,
		MaxTTL:   c.Trace.MaxHops,
		Queries:  c.Trace.Queries,
		Wait:     time.Duration(c.Trace.Wait) * time.Second,
		TOS:      c.Trace.TOS,
		Resolve:  c.Resolve.Enabled,
		Retry:    c.Resolve.Retry,
	}
}

// TargetList returns the configured targets
func (c *Config) TargetList() []traceroute.Target {
	return toTargets(c.Targets)
}

// HasTargetsFile returns true if the targets are loaded from a file
func (c *Config) HasTargetsFile() bool {
	return c.Watch.File.Path != ""
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

func toTargets(addrs []string) []traceroute.Target {
	targets := make([]traceroute.Target, 0, len(addrs))
	for _, a := range addrs {
		targets = append(targets, traceroute.Target{Address: a})
	}
	return targets
}
