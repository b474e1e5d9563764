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
	"fmt"
	"path"
	"strings"
)

// Engine renders a view file into response content. Implementations own the
// file access; the core only resolves which engine handles which extension
// and where the views live.
//
// The two registration variants form a closed set: an Engine implementation,
// or an EngineFunc adapter for plain functions. There is no duck-typed
// calling-convention detection.
type Engine interface {
	Render(ctx context.Context, file string, options map[string]any) (string, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, file string, options map[string]any) (string, error)

// Render implements Engine.
func (f EngineFunc) Render(ctx context.Context, file string, options map[string]any) (string, error) {
	return f(ctx, file, options)
}

// Engine registers a view engine for a file extension (with or without the
// leading dot). Exactly one engine may own an extension; registering a
// second is an error, as is an empty extension or nil engine.
//
// Example:
//
//	app.Engine(".html", skiff.EngineFunc(renderHTML))
func (a *App) Engine(ext string, engine Engine) error {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" || engine == nil {
		return ErrInvalidEngine
	}
	if _, ok := a.engines[ext]; ok {
		return fmt.Errorf("%w: '.%s'", ErrEngineAlreadyRegistered, ext)
	}
	a.engines[ext] = engine
	a.engineOrder = append(a.engineOrder, ext)
	return nil
}

// resolveEngine selects the engine for a view name and returns the full
// file path under the views directory.
//
// A name without an extension is only unambiguous while a single engine is
// registered; with several engines the extension must be explicit.
func (a *App) resolveEngine(name string) (Engine, string, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")

	if ext == "" {
		switch len(a.engineOrder) {
		case 0:
			return nil, "", fmt.Errorf("%w: none registered", ErrEngineNotFound)
		case 1:
			ext = a.engineOrder[0]
			name += "." + ext
		default:
			return nil, "", ErrAmbiguousEngine
		}
	}

	engine, ok := a.engines[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w: '.%s'", ErrEngineNotFound, ext)
	}
	return engine, path.Join(a.viewsDir, name), nil
}
