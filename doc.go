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

// Package fabx populates Go values and declared type structures with
// generated data.
//
// A call starts from a type descriptor, either reflected from a Go type
// (descriptor.For[T]) or declared at runtime (descriptor.Record,
// descriptor.List, schema.Load). The descriptor is expanded into a node
// tree, and the engine walks that tree producing a value for every node.
// What is produced at each node is decided, in order, by:
//
//   - the rule set: a selector.Map of Directives (Ignore, Set, Supply,
//     Null, Size) where the last matching rule wins;
//   - the population action, which decides whether a value that is
//     already present is kept (see apis.Action);
//   - the generator chain: a type implementing apis.Fabricator, then a
//     generator registered for the type, then the kind defaults.
//
// # Process-wide snapshot
//
// The package keeps a read-mostly snapshot of Config, Builder, Registry,
// Resolver and the Engine built from them:
//
//	p, err := fabx.CreateOf[Person](ctx, nil)
//	err = fabx.Populate(ctx, &existing, rules)
//
// Reads load the snapshot atomically and never lock. Writers (SetConfig,
// Configure, SetBuilder, SetExt, SetRegistry, SetResolver, SetAll) take a
// build mutex, derive a new snapshot and swap it in.
//
// SetConfig, SetBuilder and SetExt rebuild the Registry and Resolver
// through the Builder. Registrations carry over into the rebuilt Registry.
// SetRegistry and SetResolver install a layer and pin it: a pinned layer
// survives rebuilds until UnpinRegistry or UnpinResolver.
//
// # Custom generators
//
//	_ = fabx.Register[Celsius](func(r *rand.Rand) (any, error) {
//		return Celsius(r.Float64() * 40), nil
//	})
//
// Types may instead implement apis.Fabricator, which takes precedence
// over registered generators.
//
// # Reproducibility
//
// A non-zero Config.Seed seeds every invocation identically, so the same
// rules over the same type yield the same value.
package fabx
