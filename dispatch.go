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

import "context"

// Dispatch runs one invocation: resolve the route, run the incoming
// middleware, the handler (unless short-circuited), the outgoing middleware,
// compression — and return the single finalized response descriptor.
//
// A non-nil error means the invocation was aborted by a middleware or
// handler error; no descriptor is returned and the host's error channel
// owns it. Route misses do NOT error: they yield an ordinary descriptor
// with a "Cannot METHOD 'path'." body.
//
// The per-invocation dependency registry is rebuilt from the App's seed on
// every call and reset before Dispatch returns — on the error path too — so
// instances injected during one invocation never survive into a later one
// on a reused container.
func (a *App) Dispatch(ctx context.Context, inv *Invocation) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := newRequest(inv)
	registry := a.seedRegistry()
	defer registry.reset()

	logger := a.logger.With(
		"invocation_id", req.ID(),
		"method", req.Method(),
		"path", req.Path(),
	)

	rt, params := a.routes.resolve(req.Method(), req.Path())
	if rt != nil {
		req.setParams(paramsToMap(params))
		logger.Debug("route resolved", "pattern", rt.pattern)
	}

	c := &Context{
		ctx:      ctx,
		app:      a,
		request:  req,
		registry: registry,
		logger:   logger,
		state:    stateRouteResolved,
	}

	if err := a.runPipeline(c, rt); err != nil {
		return nil, err
	}
	return c.response, nil
}
