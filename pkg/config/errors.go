// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidFirstTTL is returned when the first ttl is out of range
	ErrInvalidFirstTTL = errors.New("invalid first ttl")
	// ErrInvalidMaxHops is returned when the max hops are out of range
	ErrInvalidMaxHops = errors.New("invalid max hops")
	// ErrInvalidQueries is returned when the number of queries per hop is out of range
	ErrInvalidQueries = errors.New("invalid number of queries")
	// ErrInvalidWait is returned when the wait time is out of range
	ErrInvalidWait = errors.New("invalid wait time")
	// ErrInvalidTOS is returned when the type of service does not fit into one byte
	ErrInvalidTOS = errors.New("invalid type of service")
	// ErrInvalidResolveRetry is returned when the resolve retry configuration is invalid
	ErrInvalidResolveRetry = errors.New("invalid resolve retry configuration")
	// ErrInvalidOutputFormat is returned when the output format is unknown
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrNoTargets is returned when there is nothing to trace
	ErrNoTargets = errors.New("no targets configured")
	// ErrInvalidWatchInterval is returned when the watch interval is invalid
	ErrInvalidWatchInterval = errors.New("invalid watch interval")
	// ErrInvalidWatchAddress is returned when the api listen address is invalid
	ErrInvalidWatchAddress = errors.New("invalid watch address")
	// ErrInvalidLoaderInterval is returned when the loader interval is invalid
	ErrInvalidLoaderInterval = errors.New("invalid loader interval")
)
