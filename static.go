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
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// File produces a response with the contents of a file, typed by its
// extension. Unlike Static this is a one-off: the handler picks the file.
func (c *Context) File(fsys fs.FS, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read file %s: %w", name, err)
	}
	return c.Binary(http.StatusOK, contentTypeFor(name), data)
}

// staticConfig configures one static mount.
type staticConfig struct {
	include []string
	exclude []string
	clean   []string
	index   string
}

// StaticOption configures a static mount.
type StaticOption func(*staticConfig)

// WithStaticInclude restricts the mount to files matching at least one of
// the patterns (path.Match syntax, tested against the file path and its base
// name). Without includes, every file under the mounted tree is served.
func WithStaticInclude(patterns ...string) StaticOption {
	return func(cfg *staticConfig) {
		cfg.include = append(cfg.include, patterns...)
	}
}

// WithStaticExclude hides files matching any of the patterns. Excludes win
// over includes.
func WithStaticExclude(patterns ...string) StaticOption {
	return func(cfg *staticConfig) {
		cfg.exclude = append(cfg.exclude, patterns...)
	}
}

// WithCleanURLs enables extension fallback for extension-less request
// paths: "/docs/intro" can serve "docs/intro.html". Defaults to ".html"
// when no extensions are given.
func WithCleanURLs(exts ...string) StaticOption {
	return func(cfg *staticConfig) {
		if len(exts) == 0 {
			exts = []string{".html"}
		}
		cfg.clean = append(cfg.clean, exts...)
	}
}

// WithIndexFile enables a default-file fallback for directory-shaped
// requests: "/docs" or "/docs/guide" can serve "docs/guide/index.html".
func WithIndexFile(name string) StaticOption {
	return func(cfg *staticConfig) {
		cfg.index = name
	}
}

// Static mounts a file tree under a URL prefix. Files are read from fsys
// (fs.FS path traversal rules apply, so "../" escapes are rejected by
// construction) and served with the content type implied by the extension.
//
// A miss inside the mount yields the ordinary route-not-found descriptor.
// Both GET and HEAD are registered, matching HTTP semantics for readable
// resources.
//
// Example:
//
//	app.Static("/assets", os.DirFS("./public"),
//	    skiff.WithStaticExclude("*.map"),
//	    skiff.WithCleanURLs(),
//	    skiff.WithIndexFile("index.html"),
//	)
func (a *App) Static(prefix string, fsys fs.FS, opts ...StaticOption) {
	if prefix == "" {
		panic("skiff: static mount prefix cannot be empty")
	}

	cfg := &staticConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	prefix = normalizePattern(prefix)
	handler := staticHandler(prefix, fsys, cfg)

	a.GET(joinPatterns(prefix, "*"), handler)
	a.HEAD(joinPatterns(prefix, "*"), handler)
	if cfg.index != "" {
		// Serve the index for the bare mount path as well.
		a.GET(prefix, handler)
		a.HEAD(prefix, handler)
	}
}

func staticHandler(prefix string, fsys fs.FS, cfg *staticConfig) HandlerFunc {
	return func(c *Context) error {
		rel := strings.TrimPrefix(c.Request().Path(), prefix)
		rel = strings.Trim(rel, "/")

		for _, candidate := range cfg.candidates(rel) {
			if !fs.ValidPath(candidate) || !cfg.allowed(candidate) {
				continue
			}
			data, err := fs.ReadFile(fsys, candidate)
			if err != nil {
				continue
			}
			return c.Binary(http.StatusOK, contentTypeFor(candidate), data)
		}

		c.Logger().Debug("static miss", "file", rel)
		return c.commit(notFoundResponse(c.Request().Method(), c.Request().Path()))
	}
}

// candidates lists the file paths to try for a request remainder, in order:
// the path itself, clean-URL extension variants, then the index file.
func (cfg *staticConfig) candidates(rel string) []string {
	var out []string
	if rel != "" {
		out = append(out, rel)
		if path.Ext(rel) == "" {
			for _, ext := range cfg.clean {
				out = append(out, rel+ext)
			}
		}
	}
	if cfg.index != "" {
		out = append(out, path.Join(rel, cfg.index))
	}
	return out
}

// allowed applies the exclude and include filters to a candidate path.
func (cfg *staticConfig) allowed(file string) bool {
	for _, pattern := range cfg.exclude {
		if matchesFilter(pattern, file) {
			return false
		}
	}
	if len(cfg.include) == 0 {
		return true
	}
	for _, pattern := range cfg.include {
		if matchesFilter(pattern, file) {
			return true
		}
	}
	return false
}

func matchesFilter(pattern, file string) bool {
	if ok, err := path.Match(pattern, file); err == nil && ok {
		return true
	}
	ok, err := path.Match(pattern, path.Base(file))
	return err == nil && ok
}

func contentTypeFor(file string) string {
	if ct := mime.TypeByExtension(path.Ext(file)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
