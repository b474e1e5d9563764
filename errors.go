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

import "errors"

var (
	// ErrResponseCommitted indicates that a response has already been produced
	// for the current invocation. The first response wins; any later attempt
	// to produce one fails with this error.
	ErrResponseCommitted = errors.New("a response has already been produced for this invocation")

	// ErrInstanceAlreadyInjected indicates a duplicate unidentified injection
	// for the same registry key.
	ErrInstanceAlreadyInjected = errors.New("an instance is already injected for this key")

	// ErrNamedInstanceAlreadyInjected indicates a duplicate injection for the
	// same registry key and identifier.
	ErrNamedInstanceAlreadyInjected = errors.New("an instance is already injected for this key and identifier")

	// ErrInstanceNotFound indicates that no instance is registered under the
	// requested key (and identifier, if any).
	ErrInstanceNotFound = errors.New("no instance found")

	// ErrInstanceWrongType indicates that the registered instance does not
	// have the type requested at the retrieval site.
	ErrInstanceWrongType = errors.New("instance does not have the requested type")

	// ErrEmptyMount indicates an attempt to mount a router with zero
	// registered routes.
	ErrEmptyMount = errors.New("cannot mount a router with no routes")

	// ErrInvalidEngine indicates an invalid view engine registration
	// (empty extension or nil engine).
	ErrInvalidEngine = errors.New("invalid view engine definition")

	// ErrEngineAlreadyRegistered indicates that a view engine is already
	// registered for the extension.
	ErrEngineAlreadyRegistered = errors.New("view engine already registered for extension")

	// ErrEngineNotFound indicates that no view engine is registered for the
	// requested file extension.
	ErrEngineNotFound = errors.New("no view engine registered for extension")

	// ErrAmbiguousEngine indicates a render call without a file extension
	// while multiple view engines are registered. The engine must be
	// selected explicitly via the extension.
	ErrAmbiguousEngine = errors.New("ambiguous view engine: multiple engines registered and no extension given")

	// ErrCompressionLevelInvalid indicates a compression quality level
	// outside the bounds accepted by the encoder.
	ErrCompressionLevelInvalid = errors.New("compression level out of bounds")

	// ErrNoResponseProduced indicates that the handler chain completed
	// without producing a response descriptor.
	ErrNoResponseProduced = errors.New("handler completed without producing a response")
)
