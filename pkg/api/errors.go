// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import "fmt"

// ErrCreateOpenapiSchema is returned when the schema of a response type cannot be generated
type ErrCreateOpenapiSchema struct {
	name string
	err  error
}

func (e ErrCreateOpenapiSchema) Error() string {
	return fmt.Sprintf("failed to get schema for %s: %v", e.name, e.err)
}

func (e ErrCreateOpenapiSchema) Unwrap() error {
	return e.err
}

// ErrInvalidRoute is returned when a route uses an unsupported method
type ErrInvalidRoute struct {
	Method string
	Path   string
}

func (e *ErrInvalidRoute) Error() string {
	return fmt.Sprintf("invalid route %s %s: unsupported method", e.Method, e.Path)
}
