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

	"github.com/skiff-run/skiff/match"
)

// HandlerFunc is the signature of route handlers. Handlers produce their
// response through the Context and report failures through the returned
// error, which propagates out of Dispatch untouched.
type HandlerFunc func(*Context) error

// methodAll is the cross-method bucket consulted after the request method's
// own bucket fails to match.
const methodAll = "ALL"

// wildcardPattern is the lowest-priority fallback pattern. It is excluded
// from the in-order scan and only consulted once every other pattern has
// failed.
const wildcardPattern = "*"

// route binds a method and compiled pattern to a handler.
type route struct {
	method   string
	pattern  string
	compiled *match.Pattern
	handler  HandlerFunc
}

func newRoute(method, pattern string, handler HandlerFunc) *route {
	pattern = normalizePattern(pattern)
	return &route{
		method:   method,
		pattern:  pattern,
		compiled: match.Compile(pattern),
		handler:  handler,
	}
}

// normalizePattern brings a registration pattern into canonical form:
// leading slash, repeated slashes collapsed, one trailing slash stripped
// unless the result is just "/". The bare wildcard stays untouched.
func normalizePattern(pattern string) string {
	if pattern == wildcardPattern {
		return pattern
	}
	for strings.Contains(pattern, "//") {
		pattern = strings.ReplaceAll(pattern, "//", "/")
	}
	return normalizePath(pattern)
}

// joinPatterns composes a mount base path with a sub-router pattern,
// collapsing repeated slashes and stripping a single trailing slash (unless
// the result is the root).
func joinPatterns(base, sub string) string {
	return normalizePattern(base + "/" + sub)
}

// bucket holds the routes of one method in registration order, with an
// exact-pattern index as the fast path.
type bucket struct {
	exact   map[string]*route
	ordered []*route
}

func newBucket() *bucket {
	return &bucket{exact: make(map[string]*route)}
}

func (b *bucket) add(rt *route) {
	// First registration wins the exact slot; the ordered scan preserves
	// deterministic first-match semantics regardless.
	if _, ok := b.exact[rt.pattern]; !ok {
		b.exact[rt.pattern] = rt
	}
	b.ordered = append(b.ordered, rt)
}

// scan walks the bucket in registration order with the pattern matcher,
// skipping the bare wildcard. Returns the first match.
func (b *bucket) scan(path string) (*route, []match.Param) {
	for _, rt := range b.ordered {
		if rt.pattern == wildcardPattern {
			continue
		}
		if params, ok := rt.compiled.Match(path); ok {
			return rt, params
		}
	}
	return nil, nil
}

// routeTable is the process-wide method → pattern → handler mapping.
// It is built at setup time and read-only during request handling.
type routeTable struct {
	buckets map[string]*bucket
	count   int
}

func newRouteTable() *routeTable {
	return &routeTable{buckets: make(map[string]*bucket)}
}

func (t *routeTable) add(method, pattern string, handler HandlerFunc) {
	b, ok := t.buckets[method]
	if !ok {
		b = newBucket()
		t.buckets[method] = b
	}
	b.add(newRoute(method, pattern, handler))
	t.count++
}

// resolve looks up the handler for a method and normalized path.
//
// Resolution order, first match wins:
//
//  1. Exact pattern match in the method's bucket.
//  2. In-order matcher scan of the method's bucket (bare wildcard skipped).
//  3. In-order matcher scan of the ALL bucket. The scan short-circuits on
//     the first match; keeping the last match instead would make resolution
//     depend on registration order in a surprising way.
//  4. Bare wildcard in the method bucket, then in the ALL bucket.
//  5. No match.
func (t *routeTable) resolve(method, path string) (*route, []match.Param) {
	b := t.buckets[method]
	all := t.buckets[methodAll]

	if b != nil {
		if rt, ok := b.exact[path]; ok {
			return rt, nil
		}
		if rt, params := b.scan(path); rt != nil {
			return rt, params
		}
	}

	if all != nil {
		// No exact fast path here: the ALL bucket is scanned in registration
		// order so that patterns registered earlier keep their priority over
		// later exact ones.
		if rt, params := all.scan(path); rt != nil {
			return rt, params
		}
	}

	if b != nil {
		if rt, ok := b.exact[wildcardPattern]; ok {
			return rt, nil
		}
	}
	if all != nil {
		if rt, ok := all.exact[wildcardPattern]; ok {
			return rt, nil
		}
	}

	return nil, nil
}

// paramsToMap converts extracted parameters to the mutable map stored on
// the request view. Always non-nil.
func paramsToMap(params []match.Param) map[string]string {
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Name] = p.Value
	}
	return m
}
