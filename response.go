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
	"net/http"
	"strconv"
)

// StatusRouteNotFound is the status reported when no route matches the
// invocation's method and path. Observed host conventions disagree between
// 404 and 500; this core standardizes on 404.
const StatusRouteNotFound = http.StatusNotFound

// internalErrorBody is the fixed plain-text body used when finalization
// fails (render or compression errors). Raw engine errors are never exposed
// to the caller.
const internalErrorBody = "Internal Server Error"

// deferredBody is a body that is not yet concrete when the response is
// produced, typically a pending view render. It is resolved before outgoing
// middleware run, so interceptors always observe concrete content.
// The second return value is the content type to apply when the response has
// none set.
type deferredBody func(ctx context.Context) (body []byte, contentType string, err error)

// Response is the single mutable response descriptor for an invocation.
// Outgoing middleware may rewrite body, status, and headers in place, but
// the descriptor's identity never changes: at most one Response exists per
// invocation.
type Response struct {
	status   int
	headers  *Header
	body     []byte
	deferred deferredBody

	// binary marks bodies that did not originate from text. Compression
	// treats both the same; the flag exists for host serialization, where
	// binary bodies are transported base64-encoded.
	binary bool
}

func newResponse(status int) *Response {
	return &Response{
		status:  status,
		headers: NewHeader(),
	}
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus rewrites the response status code.
func (r *Response) SetStatus(code int) {
	r.status = code
}

// Header returns the mutable ordered header map.
func (r *Response) Header() *Header {
	return r.headers
}

// Body returns the response body. Before finalization this may be empty for
// responses carrying a deferred body.
func (r *Response) Body() []byte {
	return r.body
}

// SetBody replaces the response body and drops any deferred body.
func (r *Response) SetBody(body []byte) {
	r.body = body
	r.deferred = nil
}

// Binary reports whether the body should be transported as binary
// (base64 on hosts that require it) rather than text.
func (r *Response) Binary() bool {
	return r.binary
}

// resolve materializes a deferred body. Called by the finalizer before
// outgoing middleware run.
func (r *Response) resolve(ctx context.Context) error {
	if r.deferred == nil {
		return nil
	}
	body, contentType, err := r.deferred(ctx)
	if err != nil {
		return err
	}
	r.body = body
	r.deferred = nil
	if contentType != "" && !r.headers.Has("content-type") {
		r.headers.Set("content-type", contentType)
	}
	return nil
}

// finalize applies the default headers every descriptor carries:
// a content-length matching the body and a text/plain content type when a
// non-empty body has none.
func (r *Response) finalize() {
	if len(r.body) > 0 && !r.headers.Has("content-type") {
		r.headers.Set("content-type", "text/plain; charset=utf-8")
	}
	r.headers.Set("content-length", strconv.Itoa(len(r.body)))
}

// internalError rewrites the descriptor in place into the fixed 500
// plain-text fallback. Used when finalization fails; the descriptor identity
// is preserved so outgoing middleware that already ran stay harmless.
func (r *Response) internalError() {
	r.status = http.StatusInternalServerError
	r.body = []byte(internalErrorBody)
	r.deferred = nil
	r.binary = false
	r.headers = NewHeader()
	r.headers.Set("content-type", "text/plain; charset=utf-8")
}

// notFoundResponse builds the synthetic descriptor for an unmatched route.
func notFoundResponse(method, path string) *Response {
	res := newResponse(StatusRouteNotFound)
	res.body = []byte("Cannot " + method + " '" + path + "'.")
	res.headers.Set("content-type", "text/plain; charset=utf-8")
	return res
}
