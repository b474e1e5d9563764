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

import "net/http"

// Router is a lightweight collection of routes intended for mounting under a
// base path with App.Mount. Registration order is preserved; patterns are
// composed with the mount base at mount time.
//
// Example:
//
//	api := skiff.NewRouter()
//	api.GET("/:id", getByID)
//	app.Mount("/api", api) // GET /api/:id
type Router struct {
	routes []pendingRoute
}

// pendingRoute is a route waiting to be composed with a mount base.
type pendingRoute struct {
	method  string
	pattern string
	handler HandlerFunc
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

func (r *Router) handle(method, pattern string, handler HandlerFunc) {
	if handler == nil {
		panic("skiff: nil handler for " + method + " " + pattern)
	}
	r.routes = append(r.routes, pendingRoute{method: method, pattern: pattern, handler: handler})
}

// GET registers a handler for GET requests.
func (r *Router) GET(pattern string, handler HandlerFunc) { r.handle(http.MethodGet, pattern, handler) }

// POST registers a handler for POST requests.
func (r *Router) POST(pattern string, handler HandlerFunc) {
	r.handle(http.MethodPost, pattern, handler)
}

// PUT registers a handler for PUT requests.
func (r *Router) PUT(pattern string, handler HandlerFunc) { r.handle(http.MethodPut, pattern, handler) }

// PATCH registers a handler for PATCH requests.
func (r *Router) PATCH(pattern string, handler HandlerFunc) {
	r.handle(http.MethodPatch, pattern, handler)
}

// DELETE registers a handler for DELETE requests.
func (r *Router) DELETE(pattern string, handler HandlerFunc) {
	r.handle(http.MethodDelete, pattern, handler)
}

// OPTIONS registers a handler for OPTIONS requests.
func (r *Router) OPTIONS(pattern string, handler HandlerFunc) {
	r.handle(http.MethodOptions, pattern, handler)
}

// HEAD registers a handler for HEAD requests.
func (r *Router) HEAD(pattern string, handler HandlerFunc) {
	r.handle(http.MethodHead, pattern, handler)
}

// ALL registers a handler matched for any method, consulted after the
// method-specific buckets.
func (r *Router) ALL(pattern string, handler HandlerFunc) { r.handle(methodAll, pattern, handler) }

// Len returns the number of registered routes.
func (r *Router) Len() int {
	return len(r.routes)
}

// Mount merges the router's routes into the App under the base path.
// Patterns compose as base + "/" + sub with repeated slashes collapsed and a
// single trailing slash stripped (unless the result is the root).
//
// Mounting a router with zero registered routes is a registration-time
// error.
func (a *App) Mount(base string, r *Router) error {
	if r == nil || len(r.routes) == 0 {
		return ErrEmptyMount
	}
	for _, pending := range r.routes {
		// A bare "*" inside a mounted router becomes a suffix wildcard under
		// the base ("/api/*"), not a global fallback.
		a.routes.add(pending.method, joinPatterns(base, pending.pattern), pending.handler)
	}
	return nil
}
