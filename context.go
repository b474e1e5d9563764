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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Context carries the state of one invocation through the middleware
// pipeline and the route handler: the request view, the per-invocation
// dependency registry, a request-scoped logger and the single in-flight
// response descriptor.
//
// Context is not safe for concurrent use. An invocation is a single
// cooperative sequence of steps; nothing in the core runs concurrently
// within one request.
type Context struct {
	ctx      context.Context
	app      *App
	request  *Request
	registry *Registry
	logger   *slog.Logger
	response *Response
	state    pipelineState
}

// Context returns the host context for the invocation. Cancellation and
// timeouts are the host runtime's concern; the core merely threads the
// context through to handlers and render engines.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Request returns the immutable request view.
func (c *Context) Request() *Request {
	return c.request
}

// Param is shorthand for c.Request().Param(name).
func (c *Context) Param(name string) string {
	return c.request.Param(name)
}

// Registry returns the invocation's dependency registry. Use the package
// level Retrieve / RetrieveNamed functions for typed access:
//
//	repo, err := skiff.Retrieve[*Repo](c.Registry(), "Repo")
func (c *Context) Registry() *Registry {
	return c.registry
}

// Inject is shorthand for c.Registry().Inject.
func (c *Context) Inject(key string, instance any) error {
	return c.registry.Inject(key, instance)
}

// Logger returns the request-scoped structured logger. It carries the
// invocation id, method and path.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Response returns the in-flight response descriptor, or nil when none has
// been produced yet. Outgoing middleware receive the descriptor directly;
// this accessor exists for incoming middleware that need to observe a
// short-circuit.
func (c *Context) Response() *Response {
	return c.response
}

// Responded reports whether a response has been produced.
func (c *Context) Responded() bool {
	return c.response != nil
}

// commit installs the response descriptor, enforcing the single-response
// invariant: the first descriptor wins and any later attempt fails without
// touching it.
func (c *Context) commit(res *Response) error {
	if c.response != nil {
		return fmt.Errorf("%w (attempted %d after %d)", ErrResponseCommitted, res.status, c.response.status)
	}
	c.response = res
	return nil
}

// Text produces a plain-text response.
func (c *Context) Text(status int, body string) error {
	res := newResponse(status)
	res.body = []byte(body)
	res.headers.Set("content-type", "text/plain; charset=utf-8")
	return c.commit(res)
}

// JSON produces a JSON response. The value is encoded immediately so that
// encoding failures surface at the call site instead of during finalization.
func (c *Context) JSON(status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json encoding failed for %T: %w", v, err)
	}
	res := newResponse(status)
	res.body = body
	res.headers.Set("content-type", "application/json; charset=utf-8")
	return c.commit(res)
}

// Binary produces a response with a raw byte body. Hosts that cannot
// transport raw bytes serialize these bodies base64-encoded.
func (c *Context) Binary(status int, contentType string, data []byte) error {
	res := newResponse(status)
	res.body = data
	res.binary = true
	if contentType != "" {
		res.headers.Set("content-type", contentType)
	}
	return c.commit(res)
}

// Redirect produces a redirect response. A zero status defaults to 302.
func (c *Context) Redirect(status int, location string) error {
	if status == 0 {
		status = http.StatusFound
	}
	res := newResponse(status)
	res.headers.Set("location", location)
	return c.commit(res)
}

// Empty produces a response with no body.
func (c *Context) Empty(status int) error {
	return c.commit(newResponse(status))
}

// Render produces a response whose body is a pending view render. The
// engine is selected now, by the file extension (see App.Engine); the render
// itself runs during finalization, before outgoing middleware, so
// interceptors observe the concrete content. A failing render is replaced
// by the fixed internal-error response rather than reaching the caller.
func (c *Context) Render(status int, name string, options map[string]any) error {
	engine, file, err := c.app.resolveEngine(name)
	if err != nil {
		return err
	}
	res := newResponse(status)
	res.deferred = func(ctx context.Context) ([]byte, string, error) {
		content, err := engine.Render(ctx, file, options)
		if err != nil {
			return nil, "", fmt.Errorf("render %s: %w", file, err)
		}
		return []byte(content), "text/html; charset=utf-8", nil
	}
	return c.commit(res)
}
