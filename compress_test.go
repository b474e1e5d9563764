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
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompress(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()

	var r io.Reader
	switch encoding {
	case "br":
		r = brotli.NewReader(bytes.NewReader(data))
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer gz.Close()
		r = gz
	case "deflate":
		fl := flate.NewReader(bytes.NewReader(data))
		defer fl.Close()
		r = fl
	default:
		t.Fatalf("unknown encoding %q", encoding)
	}

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func textResponse(body string) *Response {
	res := newResponse(http.StatusOK)
	res.body = []byte(body)
	res.headers.Set("content-type", "text/plain; charset=utf-8")
	return res
}

func TestCompressPreference(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("compress me please ", 50)

	tests := []struct {
		name           string
		acceptEncoding string
		want           string
	}{
		{"brotli first", "gzip, deflate, br", "br"},
		{"gzip when no brotli", "deflate, gzip", "gzip"},
		{"deflate as last resort", "deflate", "deflate"},
		{"preference ignores declaration order", "deflate;q=0.9, br;q=0.5", "br"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultCompressionConfig()
			res := textResponse(body)
			require.NoError(t, cfg.compress(res, tt.acceptEncoding))

			assert.Equal(t, tt.want, res.Header().Get("content-encoding"))
			assert.Equal(t, "accept-encoding", res.Header().Get("vary"))
			assert.Equal(t, body, string(decompress(t, tt.want, res.Body())))
		})
	}
}

func TestCompressSkipped(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("data ", 100)

	tests := []struct {
		name  string
		setup func(cfg *compressionConfig, res *Response) string
	}{
		{
			name: "no accept-encoding",
			setup: func(_ *compressionConfig, _ *Response) string {
				return ""
			},
		},
		{
			name: "disabled",
			setup: func(cfg *compressionConfig, _ *Response) string {
				cfg.mode = compressionDisabled
				return "br"
			},
		},
		{
			name: "non-compressible content type",
			setup: func(_ *compressionConfig, res *Response) string {
				res.Header().Set("content-type", "image/png")
				return "br"
			},
		},
		{
			name: "already encoded",
			setup: func(_ *compressionConfig, res *Response) string {
				res.Header().Set("content-encoding", "gzip")
				return "br"
			},
		},
		{
			name: "all encodings refused",
			setup: func(_ *compressionConfig, _ *Response) string {
				return "br;q=0, gzip;q=0"
			},
		},
		{
			name: "unknown encodings only",
			setup: func(_ *compressionConfig, _ *Response) string {
				return "zstd, compress"
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultCompressionConfig()
			res := textResponse(body)
			ae := tt.setup(&cfg, res)
			before := res.Header().Get("content-encoding")

			require.NoError(t, cfg.compress(res, ae))
			assert.Equal(t, body, string(res.Body()))
			assert.Equal(t, before, res.Header().Get("content-encoding"))
		})
	}
}

func TestCompressEmptyBody(t *testing.T) {
	t.Parallel()

	cfg := defaultCompressionConfig()
	res := newResponse(http.StatusNoContent)
	require.NoError(t, cfg.compress(res, "br, gzip"))
	assert.Empty(t, res.Body())
	assert.False(t, res.Header().Has("content-encoding"))
}

func TestIsCompressible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html; charset=utf-8", true},
		{"application/json", true},
		{"application/problem+json", true},
		{"application/atom+xml", true},
		{"image/svg+xml", true},
		{"font/woff2", true},
		{"image/png", false},
		{"application/zip", false},
		{"video/mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isCompressible(tt.contentType), "content type %q", tt.contentType)
	}
}

func TestAcceptedEncodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   []string
	}{
		{"gzip, deflate, br", []string{"gzip", "deflate", "br"}},
		{"GZIP", []string{"gzip"}},
		{"br;q=0.5, gzip;q=0", []string{"br"}},
		{"identity;q=0, *;q=0.1", []string{"*"}},
		{"", []string{}},
		{" , ,", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, acceptedEncodings(tt.header), "header %q", tt.header)
	}
}

type reversingCompressor struct{}

func (reversingCompressor) Encodings() []string { return []string{"rev"} }

func (reversingCompressor) Compress(_ string, data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out, nil
}

func TestCustomCompressor(t *testing.T) {
	t.Parallel()

	app := MustNew(WithCompressor(reversingCompressor{}))
	app.GET("/", func(c *Context) error {
		return c.Text(http.StatusOK, "abc")
	})

	res, err := app.Dispatch(context.Background(), &Invocation{
		Method:  http.MethodGet,
		Path:    "/",
		Headers: map[string]string{"Accept-Encoding": "gzip, rev"},
	})
	require.NoError(t, err)
	assert.Equal(t, "rev", res.Header().Get("content-encoding"))
	assert.Equal(t, "cba", string(res.Body()))

	// No overlap with the client's encodings leaves the body untouched.
	res, err = app.Dispatch(context.Background(), &Invocation{
		Method:  http.MethodGet,
		Path:    "/",
		Headers: map[string]string{"Accept-Encoding": "gzip, br"},
	})
	require.NoError(t, err)
	assert.False(t, res.Header().Has("content-encoding"))
	assert.Equal(t, "abc", string(res.Body()))
}

func TestCompressionLevelValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{"brotli too high", WithBrotliQuality(12)},
		{"brotli too low", WithBrotliQuality(0)},
		{"gzip too high", WithGzipLevel(10)},
		{"deflate too low", WithDeflateLevel(0)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opt)
			assert.ErrorIs(t, err, ErrCompressionLevelInvalid)
		})
	}
}

func TestDispatchCompressesEndToEnd(t *testing.T) {
	t.Parallel()

	body := strings.Repeat(`{"k":"v"}`, 200)
	app := MustNew(WithGzipLevel(1))
	app.GET("/data", func(c *Context) error {
		return c.Binary(http.StatusOK, "application/json", []byte(body))
	})

	res, err := app.Dispatch(context.Background(), &Invocation{
		Method:  http.MethodGet,
		Path:    "/data",
		Headers: map[string]string{"accept-encoding": "gzip"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gzip", res.Header().Get("content-encoding"))
	assert.Equal(t, body, string(decompress(t, "gzip", res.Body())))

	// content-length reflects the compressed body.
	assert.Equal(t, strconv.Itoa(len(res.Body())), res.Header().Get("content-length"))
	assert.Less(t, len(res.Body()), len(body))
}
