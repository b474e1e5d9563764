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
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Trigger carries host-supplied metadata about what fired the invocation
// (HTTP gateway, scheduled event, queue message and so on). The core treats
// it as opaque.
type Trigger struct {
	Type   string
	Source string
	Meta   map[string]string
}

// Invocation is the raw, pre-parsed input the host runtime supplies for one
// call. Headers and query arrive already parsed; the body arrives as raw
// bytes. The core never touches the wire.
type Invocation struct {
	// ID identifies the invocation. When empty, the core assigns one.
	ID string

	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    []byte

	Scheme string
	Host   string
	Port   int

	Trigger Trigger
}

// Request is the immutable view over an Invocation handed to middleware and
// handlers. Only the extracted route parameters are populated after
// construction (by the route table, once a pattern matches).
type Request struct {
	id      string
	method  string
	path    string
	query   map[string]string
	headers *Header
	body    []byte
	scheme  string
	host    string
	port    int
	trigger Trigger

	params map[string]string
}

// newRequest builds the request view: the method is upper-cased, the path is
// normalized (trailing slash stripped except for the root) and a fresh
// invocation id is assigned when the host supplied none.
func newRequest(inv *Invocation) *Request {
	headers := NewHeader()
	for k, v := range inv.Headers {
		headers.Set(k, v)
	}

	id := inv.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := inv.Query
	if query == nil {
		query = map[string]string{}
	}

	return &Request{
		id:      id,
		method:  strings.ToUpper(inv.Method),
		path:    normalizePath(inv.Path),
		query:   query,
		headers: headers,
		body:    inv.Body,
		scheme:  inv.Scheme,
		host:    inv.Host,
		port:    inv.Port,
		trigger: inv.Trigger,
		params:  map[string]string{},
	}
}

// normalizePath strips a single trailing slash, except for the root path.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return path
}

// ID returns the invocation id.
func (r *Request) ID() string { return r.id }

// Method returns the upper-cased HTTP method.
func (r *Request) Method() string { return r.method }

// Path returns the normalized request path.
func (r *Request) Path() string { return r.path }

// Scheme returns the request scheme as reported by the host.
func (r *Request) Scheme() string { return r.scheme }

// Host returns the request host as reported by the host runtime.
func (r *Request) Host() string { return r.host }

// Port returns the request port as reported by the host runtime.
func (r *Request) Port() int { return r.port }

// Trigger returns the host trigger metadata.
func (r *Request) Trigger() Trigger { return r.trigger }

// Header returns the value of a request header, or "" when absent.
// Lookup is case-insensitive.
func (r *Request) Header(name string) string {
	return r.headers.Get(name)
}

// Query returns the value of a query parameter, or "" when absent.
func (r *Request) Query(name string) string {
	return r.query[name]
}

// Body returns the raw request body bytes.
func (r *Request) Body() []byte {
	return r.body
}

// Text returns the request body as a string.
func (r *Request) Text() string {
	return string(r.body)
}

// JSON queries the request body with a gjson path expression without
// decoding the whole document, for example:
//
//	amount := c.Request().JSON("order.amount").Int()
//
// An empty path returns the root value.
func (r *Request) JSON(path string) gjson.Result {
	if path == "" {
		return gjson.ParseBytes(r.body)
	}
	return gjson.GetBytes(r.body, path)
}

// Param returns an extracted route parameter, or "" when the matched pattern
// declares no such parameter.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Params returns the extracted route parameters. The map is empty (never
// nil) when the matched pattern declares none.
func (r *Request) Params() map[string]string {
	return r.params
}

func (r *Request) setParams(params map[string]string) {
	if params == nil {
		params = map[string]string{}
	}
	r.params = params
}
