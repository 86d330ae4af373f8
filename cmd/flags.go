// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag binds a command line flag to a viper config key
type Flag struct {
	key  string
	name string
}

func NewFlag(key, name string) *Flag {
	return &Flag{key: key, name: name}
}

type IntFlag struct{ *Flag }

type StringFlag struct{ *Flag }

type BoolFlag struct{ *Flag }

type DurationFlag struct{ *Flag }

func (f *Flag) Int() *IntFlag { return &IntFlag{f} }

func (f *Flag) String() *StringFlag { return &StringFlag{f} }

func (f *Flag) Bool() *BoolFlag { return &BoolFlag{f} }

func (f *Flag) Duration() *DurationFlag { return &DurationFlag{f} }

// BindP registers the flag with a shorthand on the persistent flags of cmd and binds it to the key
func (f *IntFlag) BindP(cmd *cobra.Command, shorthand string, value int, usage string) {
	cmd.PersistentFlags().IntP(f.name, shorthand, value, usage)
	cobra.CheckErr(viper.BindPFlag(f.key, cmd.PersistentFlags().Lookup(f.name)))
}

// BindP registers the flag with a shorthand on the local flags of cmd and binds it to the key
func (f *StringFlag) BindP(cmd *cobra.Command, shorthand, value, usage string) {
	cmd.Flags().StringP(f.name, shorthand, value, usage)
	cobra.CheckErr(viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name)))
}

// Bind registers the flag on the local flags of cmd and binds it to the key
func (f *StringFlag) Bind(cmd *cobra.Command, value, usage string) {
	f.BindP(cmd, "", value, usage)
}

// BindP registers the flag with a shorthand on the persistent flags of cmd and binds it to the key
func (f *BoolFlag) BindP(cmd *cobra.Command, shorthand string, value bool, usage string) {
	cmd.PersistentFlags().BoolP(f.name, shorthand, value, usage)
	cobra.CheckErr(viper.BindPFlag(f.key, cmd.PersistentFlags().Lookup(f.name)))
}

// Bind registers the flag on the local flags of cmd and binds it to the key
func (f *DurationFlag) Bind(cmd *cobra.Command, value time.Duration, usage string) {
	cmd.Flags().Duration(f.name, value, usage)
	cobra.CheckErr(viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name)))
}

// traceFlags registers the probing flags shared by all commands
func traceFlags(cmd *cobra.Command) {
	NewFlag("trace.first", "first").Int().BindP(cmd, "f", 1, "TTL of the first probe")
	NewFlag("trace.maxHops", "max-hops").Int().BindP(cmd, "m", 30, "maximum TTL")
	NewFlag("trace.queries", "queries").Int().BindP(cmd, "q", 3, "number of probes per hop")
	NewFlag("trace.wait", "wait").Int().BindP(cmd, "w", 5, "seconds to wait for the reply of a probe")
	NewFlag("trace.tos", "tos").Int().BindP(cmd, "t", 0, "IP type of service (IPv6 traffic class) of the probes")
	NewFlag("resolve.enabled", "resolve").Bool().BindP(cmd, "r", false, "reverse resolve the hop addresses")
}
