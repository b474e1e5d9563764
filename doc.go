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

// Package skiff is a request-dispatch core for single-invocation,
// serverless-style HTTP handlers.
//
// A hosting runtime hands the core one pre-parsed invocation (method, path,
// headers, query, body, trigger metadata) and receives exactly one response
// descriptor back. There is no socket accept loop and no concurrent request
// scheduling: every call to App.Dispatch is an isolated invocation over a
// process-wide, read-only App built once at startup.
//
// The core covers:
//
//   - Route registration and lookup with :param segments and * wildcards
//   - A two-phase middleware pipeline (incoming before the handler, outgoing
//     over the produced response)
//   - A per-invocation dependency registry seeded at setup
//   - Response finalization with an at-most-one-response guarantee
//   - Content compression (brotli, gzip, deflate) negotiated from the
//     client's Accept-Encoding header
//   - View engine adapters and static file mounting
//
// Minimal usage:
//
//	app := skiff.MustNew()
//	app.GET("/ping", func(c *skiff.Context) error {
//	    return c.Text(http.StatusOK, "pong")
//	})
//
//	res, err := app.Dispatch(ctx, inv) // inv supplied by the host runtime
//
// Handlers and middleware produce responses exclusively through the Context.
// Producing a second response within one invocation is a hard error; the
// first response always wins.
package skiff
