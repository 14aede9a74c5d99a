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

// Strategy is a pluggable generator lookup step. A Resolver chains
// multiple strategies in order (e.g., Fabricator -> Registry -> Kind).
type Strategy interface {
	// TryGenerator attempts to find a producer for values of d.
	// It returns (p, true) if handled; otherwise (nil, false) to fall through.
	TryGenerator(d Descriptor, r *rand.Rand, cfg Config) (p Producer, handled bool)
}

// Fabricator is implemented by types that generate their own values.
// The method is called on the zero value of the type.
type Fabricator interface {
	Fabricate(r *rand.Rand) any
}
