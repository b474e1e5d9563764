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

import "strings"

// Header is an ordered, case-insensitive header map. Keys are normalized to
// lower case, matching the pre-parsed form serverless hosts deliver, and
// iteration follows first-insertion order so the finalized descriptor is
// deterministic.
type Header struct {
	keys   []string
	values map[string]string
}

// NewHeader returns an empty header map.
func NewHeader() *Header {
	return &Header{values: make(map[string]string)}
}

// Set stores the value under the key, replacing any existing value.
// The key keeps its original insertion position on replacement.
func (h *Header) Set(key, value string) {
	k := strings.ToLower(key)
	if _, ok := h.values[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.values[k] = value
}

// Get returns the value for the key, or "" when absent.
func (h *Header) Get(key string) string {
	return h.values[strings.ToLower(key)]
}

// Has reports whether the key is present.
func (h *Header) Has(key string) bool {
	_, ok := h.values[strings.ToLower(key)]
	return ok
}

// Del removes the key if present.
func (h *Header) Del(key string) {
	k := strings.ToLower(key)
	if _, ok := h.values[k]; !ok {
		return
	}
	delete(h.values, k)
	for i, existing := range h.keys {
		if existing == k {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of stored headers.
func (h *Header) Len() int {
	return len(h.keys)
}

// Keys returns the header keys in insertion order. The returned slice is a
// copy and safe to retain.
func (h *Header) Keys() []string {
	keys := make([]string, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Map returns the headers as a plain map in the shape the host runtime
// expects for the finalized descriptor.
func (h *Header) Map() map[string]string {
	m := make(map[string]string, len(h.values))
	for k, v := range h.values {
		m[k] = v
	}
	return m
}
