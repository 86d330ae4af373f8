// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// Endpoint documents a GET route and the type of its JSON response
type Endpoint struct {
	Path        string
	Description string
	Response    any
}

// OpenAPI generates the openapi document of the given endpoints.
// The response schemas are derived from the response values.
func OpenAPI(version string, endpoints ...Endpoint) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "icmptrace",
			Description: "Results of the periodic ICMP traceroutes of this icmptrace instance",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, e := range endpoints {
		ref, err := openapi3gen.NewSchemaRefForValue(e.Response, openapi3.Schemas{})
		if err != nil {
			return nil, &ErrCreateOpenapiSchema{name: e.Path, err: err}
		}

		op := openapi3.NewOperation()
		op.Description = e.Description
		op.AddResponse(http.StatusOK, openapi3.NewResponse().
			WithDescription(e.Description).
			WithJSONSchemaRef(ref))
		doc.AddOperation(e.Path, http.MethodGet, op)
	}

	return doc, nil
}
