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
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// Compressor is a user-supplied compression policy. It declares the
// encoding tokens it supports; among the encodings the client requests, the
// first one the Compressor supports is selected.
type Compressor interface {
	Encodings() []string
	Compress(encoding string, data []byte) ([]byte, error)
}

// Default compression quality levels. Brotli accepts 1-11, gzip and deflate
// accept 1-9.
const (
	DefaultBrotliQuality = 11
	DefaultGzipLevel     = 6
	DefaultDeflateLevel  = 6
)

type compressionMode int

const (
	compressionDefault compressionMode = iota
	compressionDisabled
	compressionCustom
)

// compressionConfig is part of the App configuration, established once at
// setup and read-only afterwards.
type compressionConfig struct {
	mode          compressionMode
	brotliQuality int
	gzipLevel     int
	deflateLevel  int
	custom        Compressor
}

func defaultCompressionConfig() compressionConfig {
	return compressionConfig{
		brotliQuality: DefaultBrotliQuality,
		gzipLevel:     DefaultGzipLevel,
		deflateLevel:  DefaultDeflateLevel,
	}
}

// validate checks the quality-level bounds. Runs during App construction;
// out-of-bounds levels are a registration-time error.
func (cfg *compressionConfig) validate() error {
	if cfg.brotliQuality < 1 || cfg.brotliQuality > 11 {
		return fmt.Errorf("%w: brotli quality %d (want 1-11)", ErrCompressionLevelInvalid, cfg.brotliQuality)
	}
	if cfg.gzipLevel < 1 || cfg.gzipLevel > 9 {
		return fmt.Errorf("%w: gzip level %d (want 1-9)", ErrCompressionLevelInvalid, cfg.gzipLevel)
	}
	if cfg.deflateLevel < 1 || cfg.deflateLevel > 9 {
		return fmt.Errorf("%w: deflate level %d (want 1-9)", ErrCompressionLevelInvalid, cfg.deflateLevel)
	}
	return nil
}

// compressiblePrefixes and compressibleFragments form the allow-list of
// content types eligible for compression: textual formats, structured data
// and fonts. Everything else (images, archives, already-compressed formats)
// passes through untouched.
var (
	compressiblePrefixes = []string{
		"text/",
		"font/",
		"application/json",
		"application/javascript",
		"application/x-javascript",
		"application/xml",
		"application/xhtml",
		"application/font",
		"application/x-font",
		"application/vnd.ms-fontobject",
		"image/svg",
	}
	compressibleFragments = []string{"+json", "+xml"}
)

// isCompressible matches a content type against the allow-list. Parameters
// such as "; charset=utf-8" are ignored.
func isCompressible(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		return false
	}
	for _, prefix := range compressiblePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	for _, fragment := range compressibleFragments {
		if strings.Contains(ct, fragment) {
			return true
		}
	}
	return false
}

// acceptedEncodings parses an Accept-Encoding header into the client's
// encoding tokens in declaration order, dropping tokens the client refuses
// with q=0.
func acceptedEncodings(header string) []string {
	parts := strings.Split(header, ",")
	encodings := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if i := strings.IndexByte(token, ';'); i >= 0 {
			if q := parseQValue(token[i+1:]); q == 0 {
				continue
			}
			token = strings.TrimSpace(token[:i])
		}
		encodings = append(encodings, token)
	}
	return encodings
}

// parseQValue extracts the quality value from a header token parameter list
// such as "q=0.5". Malformed values count as acceptable (q=1).
func parseQValue(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		param = strings.TrimSpace(param)
		if !strings.HasPrefix(param, "q=") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(param[2:]), 64)
		if err != nil {
			return 1
		}
		return q
	}
	return 1
}

// compress applies the configured policy to a finalized body. It mutates
// the descriptor in place: body replaced, content-encoding set. The caller
// recomputes content-length afterwards.
//
// Compression is skipped when the policy is disabled, the body is empty,
// the client sent no Accept-Encoding, the content type is not in the
// allow-list, or the response already carries a content-encoding.
func (cfg *compressionConfig) compress(res *Response, acceptEncoding string) error {
	if cfg.mode == compressionDisabled || len(res.body) == 0 || acceptEncoding == "" {
		return nil
	}
	if res.headers.Has("content-encoding") {
		return nil
	}
	if !isCompressible(res.headers.Get("content-type")) {
		return nil
	}

	requested := acceptedEncodings(acceptEncoding)
	if len(requested) == 0 {
		return nil
	}

	if cfg.mode == compressionCustom {
		return cfg.compressCustom(res, requested)
	}
	return cfg.compressDefault(res, requested)
}

// compressCustom picks the first client-requested encoding the custom
// Compressor declares support for. No overlap means the body passes through
// uncompressed.
func (cfg *compressionConfig) compressCustom(res *Response, requested []string) error {
	supported := cfg.custom.Encodings()
	for _, encoding := range requested {
		for _, s := range supported {
			if !strings.EqualFold(encoding, s) {
				continue
			}
			data, err := cfg.custom.Compress(encoding, res.body)
			if err != nil {
				return fmt.Errorf("custom compression (%s): %w", encoding, err)
			}
			cfg.applyEncoding(res, encoding, data)
			return nil
		}
	}
	return nil
}

// compressDefault prefers br over gzip over deflate among the encodings the
// client accepts, regardless of their declaration order.
func (cfg *compressionConfig) compressDefault(res *Response, requested []string) error {
	accepts := func(encoding string) bool {
		for _, r := range requested {
			if r == encoding {
				return true
			}
		}
		return false
	}

	var (
		encoding string
		data     []byte
		err      error
	)
	switch {
	case accepts("br"):
		encoding = "br"
		data, err = encodeBrotli(res.body, cfg.brotliQuality)
	case accepts("gzip"):
		encoding = "gzip"
		data, err = encodeGzip(res.body, cfg.gzipLevel)
	case accepts("deflate"):
		encoding = "deflate"
		data, err = encodeDeflate(res.body, cfg.deflateLevel)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s compression: %w", encoding, err)
	}

	cfg.applyEncoding(res, encoding, data)
	return nil
}

func (cfg *compressionConfig) applyEncoding(res *Response, encoding string, data []byte) {
	res.body = data
	res.headers.Set("content-encoding", encoding)
	res.headers.Set("vary", "accept-encoding")
}

func encodeBrotli(data []byte, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeGzip(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeDeflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
