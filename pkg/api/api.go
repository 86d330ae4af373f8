// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/telekom/icmptrace/internal/logger"
)

const readHeaderTimeout = 5 * time.Second

// API serves the http routes of the watch mode
type API interface {
	// Run serves the registered routes until the server is shut down
	// or the context is canceled.
	Run(ctx context.Context) error
	// Shutdown gracefully stops the server.
	Shutdown(ctx context.Context) error
	// RegisterRoutes adds the routes to the router. It must be called before Run.
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

// Config is the configuration of the api server
type Config struct {
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// Route is a http route served by the api
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

type api struct {
	server *http.Server
	router chi.Router
}

// New creates a new api server listening on the configured address
func New(cfg Config) API {
	r := chi.NewRouter()
	return &api{
		server: &http.Server{
			Addr:              cfg.ListeningAddress,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		router: r,
	}
}

// Run serves the api until it is shut down
func (a *api) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	cErr := make(chan error, 1)
	log.InfoContext(ctx, "Serving api", "addr", a.server.Addr)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Failed to serve api", "error", err)
			cErr <- err
		}
		close(cErr)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving api: %w", ctx.Err())
	case err := <-cErr:
		if err == nil {
			log.InfoContext(ctx, "Api server closed")
			return nil
		}
		return fmt.Errorf("failed serving api: %w", err)
	}
}

// Shutdown gracefully shuts down the api server
func (a *api) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := a.server.Shutdown(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down api: %w", err)
	}
	return nil
}

// RegisterRoutes registers the routes with the logger middleware
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	a.router.Use(logger.Middleware(ctx))
	for _, route := range routes {
		switch route.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete:
			a.router.Method(route.Method, route.Path, route.Handler)
		default:
			return &ErrInvalidRoute{Method: route.Method, Path: route.Path}
		}
	}
	return nil
}
