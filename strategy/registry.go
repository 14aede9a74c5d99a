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

package strategy

import (
	"math/rand/v2"

	"dirpx.dev/fabx/apis"
)

// NewRegistryStrategy creates an apis.Strategy that uses an apis.Registry.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults user-registered generators.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryGenerator binds the registered generator for d to r.
func (s *registryStrategy) TryGenerator(d apis.Descriptor, r *rand.Rand, _ apis.Config) (apis.Producer, bool) {
	if d == nil || s.reg == nil {
		return nil, false
	}
	g, ok := s.reg.Lookup(d)
	if !ok {
		return nil, false
	}
	return func() (any, error) { return g(r) }, true
}
