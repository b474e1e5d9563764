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

import "log/slog"

// WithLogger sets the structured logger. Dispatch derives a request-scoped
// logger from it carrying the invocation id, method and path. The default
// is a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithViews sets the directory view names resolve under. Default "views".
func WithViews(dir string) Option {
	return func(a *App) {
		a.viewsDir = dir
	}
}

// WithPoweredBy overrides the value stamped into the X-Powered-By header by
// the default outgoing middleware.
func WithPoweredBy(value string) Option {
	return func(a *App) {
		a.poweredBy = value
	}
}

// WithoutPoweredBy disables the X-Powered-By stamp entirely.
func WithoutPoweredBy() Option {
	return func(a *App) {
		a.poweredBy = ""
	}
}

// WithBrotliQuality sets the brotli quality level (1-11, default 11).
// Out-of-bounds levels fail App construction.
func WithBrotliQuality(quality int) Option {
	return func(a *App) {
		a.compression.brotliQuality = quality
	}
}

// WithGzipLevel sets the gzip compression level (1-9, default 6).
// Out-of-bounds levels fail App construction.
func WithGzipLevel(level int) Option {
	return func(a *App) {
		a.compression.gzipLevel = level
	}
}

// WithDeflateLevel sets the deflate compression level (1-9, default 6).
// Out-of-bounds levels fail App construction.
func WithDeflateLevel(level int) Option {
	return func(a *App) {
		a.compression.deflateLevel = level
	}
}

// WithCompressor replaces the default br/gzip/deflate policy with a custom
// one. Among the encodings the client requests, the first one the
// Compressor supports is used; no overlap leaves the body uncompressed.
func WithCompressor(c Compressor) Option {
	return func(a *App) {
		if c != nil {
			a.compression.mode = compressionCustom
			a.compression.custom = c
		}
	}
}

// WithoutCompression disables response compression.
func WithoutCompression() Option {
	return func(a *App) {
		a.compression.mode = compressionDisabled
	}
}
