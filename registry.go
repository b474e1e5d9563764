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

import "fmt"

// Registry is the per-invocation dependency store. Instances are injected
// under an explicit, caller-chosen key plus an optional identifier; the same
// key and identifier must be used at the retrieval site. Keys are never
// derived from runtime type names.
//
// The App seeds a fresh Registry for every invocation from the instances
// injected at setup time, and resets it when the invocation completes, so
// entries never leak into a later (container-reused) invocation.
//
// Registry is not safe for concurrent use; each invocation owns its own.
type Registry struct {
	entries map[string]any
}

// NewRegistry returns an empty registry. Mostly useful for tests; during
// dispatch the App provides the registry on the Context.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]any)}
}

// registryKey derives the storage key: "key" alone, or "key:identifier"
// when an identifier is given.
func registryKey(key, identifier string) string {
	if identifier == "" {
		return key
	}
	return key + ":" + identifier
}

// Inject stores an instance under the key. Injecting a second instance for
// the same key is an error; existing entries are never silently overwritten.
func (r *Registry) Inject(key string, instance any) error {
	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: '%s'", ErrInstanceAlreadyInjected, key)
	}
	r.entries[key] = instance
	return nil
}

// InjectNamed stores an instance under the key and identifier, allowing
// multiple instances of the same kind to coexist. Duplicate key/identifier
// pairs are an error, reported distinctly from unidentified collisions.
func (r *Registry) InjectNamed(key, identifier string, instance any) error {
	if identifier == "" {
		return r.Inject(key, instance)
	}
	derived := registryKey(key, identifier)
	if _, ok := r.entries[derived]; ok {
		return fmt.Errorf("%w: '%s' with identifier '%s'", ErrNamedInstanceAlreadyInjected, key, identifier)
	}
	r.entries[derived] = instance
	return nil
}

// lookup returns the raw stored instance.
func (r *Registry) lookup(key, identifier string) (any, error) {
	instance, ok := r.entries[registryKey(key, identifier)]
	if !ok {
		if identifier != "" {
			return nil, fmt.Errorf("%w for '%s' with identifier '%s'", ErrInstanceNotFound, key, identifier)
		}
		return nil, fmt.Errorf("%w for '%s'", ErrInstanceNotFound, key)
	}
	return instance, nil
}

// reset drops all entries. Called by the dispatcher when the invocation
// completes, on the error path included.
func (r *Registry) reset() {
	clear(r.entries)
}

// Retrieve returns the instance injected under the key, asserting it to T.
// A missing key fails with ErrInstanceNotFound — this is how callers
// distinguish "nothing registered" from "registered under an identifier".
func Retrieve[T any](r *Registry, key string) (T, error) {
	return RetrieveNamed[T](r, key, "")
}

// RetrieveNamed returns the instance injected under the key and identifier.
func RetrieveNamed[T any](r *Registry, key, identifier string) (T, error) {
	var zero T
	instance, err := r.lookup(key, identifier)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: '%s' holds %T", ErrInstanceWrongType, key, instance)
	}
	return typed, nil
}
