/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"errors"
	"fmt"
	"sync"

	"dirpx.dev/fabx/apis"
)

var (
	// ErrNilType is returned when a nil descriptor is provided.
	ErrNilType = errors.New("fabx(registry): nil descriptor provided")
	// ErrNilGenerator is returned when a nil generator is provided.
	ErrNilGenerator = errors.New("fabx(registry): nil generator provided")
	// ErrConflictingRegistration indicates an attempt to register a second
	// generator for the same type.
	ErrConflictingRegistration = errors.New("fabx(registry): conflicting generator registration")
)

// New constructs an empty Registry.
//
// Types are keyed by descriptor ID, so *T and T share an entry. An unbound
// generic descriptor is keyed by its origin and serves every instantiation
// that has no entry of its own.
func New() apis.Registry {
	return &registry{}
}

// registry is a Registry backed by sync.Map.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps a registry key to its entry.
	m sync.Map // map[string]apis.Entry
	// count tracks the number of registered entries.
	count int
}

func keyOf(d apis.Descriptor) string {
	if apis.IsUnbound(d) {
		return "origin:" + d.Origin()
	}
	return d.ID()
}

// Register associates g with d. Registering a type twice is an error.
func (r *registry) Register(d apis.Descriptor, g apis.Generator) error {
	if d == nil {
		return ErrNilType
	}
	if g == nil {
		return ErrNilGenerator
	}
	k := keyOf(d)

	if _, ok := r.m.Load(k); ok {
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, d.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if _, ok := r.m.Load(k); ok {
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, d.Name())
	}
	r.m.Store(k, apis.Entry{Type: d, Generator: g})
	r.count++
	return nil
}

// Lookup returns the generator for d, falling back to the entry of its
// generic origin.
func (r *registry) Lookup(d apis.Descriptor) (apis.Generator, bool) {
	if d == nil {
		return nil, false
	}
	if v, ok := r.m.Load(keyOf(d)); ok {
		return v.(apis.Entry).Generator, true
	}
	if len(d.TypeParams()) > 0 {
		if v, ok := r.m.Load("origin:" + d.Origin()); ok {
			return v.(apis.Entry).Generator, true
		}
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(_, value any) bool {
		entries = append(entries, value.(apis.Entry))
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
