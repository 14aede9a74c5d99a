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

// Resolver is the generator capability the population engine consumes.
// Typical chain: FabricatorStrategy -> RegistryStrategy -> KindStrategy.
type Resolver interface {
	// GeneratorFor returns a producer for n, or false when no strategy
	// can generate a value for its type.
	GeneratorFor(n Node, r *rand.Rand, cfg Config) (Producer, bool)
}
