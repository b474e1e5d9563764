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

// pipelineState tracks an invocation through its phases:
//
//	routeResolved → incomingRunning → (handlerRunning | shortCircuited)
//	              → outgoingRunning → finalized
type pipelineState int

const (
	stateRouteResolved pipelineState = iota
	stateIncomingRunning
	stateHandlerRunning
	stateShortCircuited
	stateOutgoingRunning
	stateFinalized
)

// runPipeline drives one invocation through the middleware pipeline.
//
// Incoming middleware run in registration order. After each one the pipeline
// checks whether a response was produced; if so, the remaining incoming
// middleware and the route handler are skipped and execution transitions
// straight to the outgoing phase.
//
// Outgoing middleware always run, whatever produced the response, after a
// deferred body (a pending render) has been made concrete.
//
// Middleware and handler errors are not recovered here; they abort the
// invocation and propagate to the host. Render and compression failures are
// recovered into the fixed internal-error response instead — raw engine
// errors never reach the caller.
func (a *App) runPipeline(c *Context, rt *route) error {
	c.state = stateIncomingRunning
	for _, m := range a.incoming {
		if err := m(c); err != nil {
			return err
		}
		if c.Responded() {
			c.state = stateShortCircuited
			break
		}
	}

	if c.state != stateShortCircuited {
		switch {
		case rt == nil:
			c.logger.Debug("no route matched")
			c.response = notFoundResponse(c.request.Method(), c.request.Path())
		default:
			c.state = stateHandlerRunning
			if err := rt.handler(c); err != nil {
				return err
			}
			if !c.Responded() {
				// The invocation must still yield exactly one descriptor.
				c.logger.Error("handler finished without a response", "error", ErrNoResponseProduced)
				c.response = newResponse(0)
				c.response.internalError()
			}
		}
	}

	// Await the body before the outgoing phase so interceptors observe
	// concrete content, never a pending render.
	if err := c.response.resolve(c.ctx); err != nil {
		c.logger.Error("deferred body failed", "error", err)
		c.response.internalError()
	}

	c.state = stateOutgoingRunning
	for _, m := range a.outgoing {
		if err := m(c, c.response); err != nil {
			return err
		}
	}

	if err := a.compression.compress(c.response, c.request.Header("accept-encoding")); err != nil {
		c.logger.Error("compression failed", "error", err)
		c.response.internalError()
	}

	c.response.finalize()
	c.state = stateFinalized
	return nil
}
