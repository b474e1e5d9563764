// Copyright 2026 The Skiff Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package skiff

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Middleware is an incoming pipeline stage, run before the route handler in
// registration order. It may mutate the request view, inject dependencies,
// or produce a response through the Context — which short-circuits the rest
// of the incoming phase and the handler. A returned error aborts the
// invocation and propagates out of Dispatch; expected rejections (auth
// failures and the like) should produce a response instead.
type Middleware func(*Context) error

// ResponseMiddleware is an outgoing pipeline stage. It runs after a response
// exists — whether the handler or a short-circuiting incoming middleware
// produced it — and may rewrite body, headers and status in place. It never
// replaces the descriptor itself.
type ResponseMiddleware func(*Context, *Response) error

// App is the process-wide dispatch core: route table, middleware pipeline,
// view engines, compression policy and the dependency-injection seed. Build
// it once at process start; it is treated as read-only during request
// handling. Each call to Dispatch is an isolated invocation.
type App struct {
	routes      *routeTable
	incoming    []Middleware
	outgoing    []ResponseMiddleware
	engines     map[string]Engine
	engineOrder []string
	seed        *Registry
	compression compressionConfig
	logger      *slog.Logger
	poweredBy   string
	viewsDir    string
}

// Option configures an App.
type Option func(*App)

// New creates an App with optional configuration. Configuration is
// validated immediately: invalid compression levels are reported here, at
// setup time, not during a request.
//
// Example:
//
//	app, err := skiff.New(
//	    skiff.WithLogger(logger),
//	    skiff.WithBrotliQuality(5),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		routes:      newRouteTable(),
		engines:     make(map[string]Engine),
		seed:        NewRegistry(),
		compression: defaultCompressionConfig(),
		logger:      noopLogger,
		poweredBy:   "skiff",
		viewsDir:    "views",
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.compression.validate(); err != nil {
		return nil, fmt.Errorf("app configuration: %w", err)
	}

	// The powered-by stamp is the first outgoing middleware, so user
	// middleware registered later can still observe or rewrite the header.
	if a.poweredBy != "" {
		a.outgoing = append(a.outgoing, poweredByMiddleware(a.poweredBy))
	}

	return a, nil
}

// MustNew is New for setups where a configuration error should fail the
// process immediately.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("skiff.MustNew: %v", err))
	}
	return a
}

// poweredByMiddleware stamps the X-Powered-By header unless the handler set
// one explicitly.
func poweredByMiddleware(value string) ResponseMiddleware {
	return func(_ *Context, res *Response) error {
		if !res.Header().Has("x-powered-by") {
			res.Header().Set("x-powered-by", value)
		}
		return nil
	}
}

// Use appends incoming middleware, run before the route handler in
// registration order.
func (a *App) Use(m ...Middleware) {
	a.incoming = append(a.incoming, m...)
}

// UseOutgoing appends outgoing middleware, run over the produced response in
// registration order.
func (a *App) UseOutgoing(m ...ResponseMiddleware) {
	a.outgoing = append(a.outgoing, m...)
}

// Inject seeds the dependency registry every invocation starts from.
// Injecting the same key twice is a registration-time error.
func (a *App) Inject(key string, instance any) error {
	return a.seed.Inject(key, instance)
}

// InjectNamed seeds an instance under a key and identifier, so several
// instances of the same kind can coexist.
func (a *App) InjectNamed(key, identifier string, instance any) error {
	return a.seed.InjectNamed(key, identifier, instance)
}

// seedRegistry builds the per-invocation registry snapshot.
func (a *App) seedRegistry() *Registry {
	r := NewRegistry()
	maps.Copy(r.entries, a.seed.entries)
	return r
}

func (a *App) handle(method, pattern string, handler HandlerFunc) {
	if handler == nil {
		panic("skiff: nil handler for " + method + " " + pattern)
	}
	a.routes.add(method, pattern, handler)
}

// GET registers a handler for GET requests.
func (a *App) GET(pattern string, handler HandlerFunc) { a.handle(http.MethodGet, pattern, handler) }

// POST registers a handler for POST requests.
func (a *App) POST(pattern string, handler HandlerFunc) { a.handle(http.MethodPost, pattern, handler) }

// PUT registers a handler for PUT requests.
func (a *App) PUT(pattern string, handler HandlerFunc) { a.handle(http.MethodPut, pattern, handler) }

// PATCH registers a handler for PATCH requests.
func (a *App) PATCH(pattern string, handler HandlerFunc) { a.handle(http.MethodPatch, pattern, handler) }

// DELETE registers a handler for DELETE requests.
func (a *App) DELETE(pattern string, handler HandlerFunc) {
	a.handle(http.MethodDelete, pattern, handler)
}

// OPTIONS registers a handler for OPTIONS requests.
func (a *App) OPTIONS(pattern string, handler HandlerFunc) {
	a.handle(http.MethodOptions, pattern, handler)
}

// HEAD registers a handler for HEAD requests.
func (a *App) HEAD(pattern string, handler HandlerFunc) { a.handle(http.MethodHead, pattern, handler) }

// ALL registers a handler matched for any method. The ALL bucket is
// consulted only after the request method's own bucket fails to match.
func (a *App) ALL(pattern string, handler HandlerFunc) { a.handle(methodAll, pattern, handler) }
