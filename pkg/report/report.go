// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package report renders traceroute results for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/telekom/icmptrace/internal/traceroute"
	"gopkg.in/yaml.v3"
)

// Format is the output format of a report.
type Format string

const (
	// Text prints one line per hop
	Text Format = "text"
	// JSON prints the hops of every target as a JSON document
	JSON Format = "json"
	// YAML prints the hops of every target as a YAML document
	YAML Format = "yaml"
)

// IsValid reports whether the format is supported.
// The empty format is treated as [Text].
func (f Format) IsValid() bool {
	switch f {
	case Text, JSON, YAML, "":
		return true
	default:
		return false
	}
}

// Entry holds the hops of one target.
type Entry struct {
	Target string           `json:"target" yaml:"target"`
	Hops   []traceroute.Hop `json:"hops" yaml:"hops"`
}

// Entries orders the result by the given targets.
// Targets without a result get an empty hop list.
func Entries(targets []traceroute.Target, res traceroute.Result) []Entry {
	entries := make([]Entry, 0, len(targets))
	for _, t := range targets {
		hops := res[t]
		if hops == nil {
			hops = []traceroute.Hop{}
		}
		entries = append(entries, Entry{Target: t.String(), Hops: hops})
	}
	return entries
}

// Write renders the result of the targets in the given format.
func Write(w io.Writer, format Format, targets []traceroute.Target, res traceroute.Result) error {
	entries := Entries(targets, res)
	switch format {
	case Text, "":
		return writeText(w, entries)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeText prints one line per hop. A header line per target is only
// printed if more than one target was traced.
func writeText(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if len(entries) > 1 {
			if _, err := fmt.Fprintf(w, "traceroute to %s\n", e.Target); err != nil {
				return err
			}
		}
		for _, h := range e.Hops {
			if _, err := fmt.Fprintln(w, Line(h)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Line formats a hop as "<ttl> <addr>", "<ttl> ***" or,
// if its name was resolved, "<ttl> <name> (<addr>)".
func Line(h traceroute.Hop) string {
	if h.Answered() && h.Name != "" {
		return fmt.Sprintf("%d %s (%s)", h.TTL, h.Name, h.Addr)
	}
	return h.String()
}
