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

package apis

import "math/rand/v2"

// Generator produces a value for one node using the invocation's random source.
type Generator func(r *rand.Rand) (any, error)

// Producer is a zero-argument value supplier bound to a single node.
type Producer func() (any, error)

// Registry maps descriptors to user-registered generators.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a generator with d.
	// Re-registering the same type returns an error.
	Register(d Descriptor, g Generator) error
	// Lookup returns the generator registered for d, if any.
	Lookup(d Descriptor) (g Generator, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, generator) association in a Registry snapshot.
type Entry struct {
	// Type is the registered descriptor.
	Type Descriptor
	// Generator is the associated generator.
	Generator Generator
}
