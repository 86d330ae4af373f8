// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/pkg/api"
)

func (w *Watcher) handleMetrics() http.HandlerFunc {
	registry := w.telemetry.GetRegistry()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}).ServeHTTP
}

func (w *Watcher) handleResult(rw http.ResponseWriter, r *http.Request) {
	snap := w.Last()
	if snap == nil {
		http.Error(rw, "no result available yet", http.StatusNotFound)
		return
	}
	writeJSON(rw, r, snap)
}

func (w *Watcher) handleOpenAPI(rw http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	doc, err := api.OpenAPI(w.version, api.Endpoint{
		Path:        "/v1/result",
		Description: "Hops of every target in the last round of traces",
		Response:    Snapshot{},
	})
	if err != nil {
		log.ErrorContext(r.Context(), "Failed to create openapi document", "error", err)
		http.Error(rw, "failed to create openapi document", http.StatusInternalServerError)
		return
	}
	writeJSON(rw, r, doc)
}

func writeJSON(rw http.ResponseWriter, r *http.Request, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write response", "error", err)
	}
}
