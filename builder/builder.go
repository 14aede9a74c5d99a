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

package builder

import (
	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/registry"
	"dirpx.dev/fabx/resolver"
	"dirpx.dev/fabx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry. Entries of prev, when provided,
// are copied into it.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry, _ any) apis.Registry {
	reg := registry.New()
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = reg.Register(e.Type, e.Generator)
		}
	}
	return reg
}

// BuildResolver builds the default strategy chain over reg:
// fabricators first, then registered generators, then kind defaults.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewFabricatorStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewKindStrategy(),
	)
}
