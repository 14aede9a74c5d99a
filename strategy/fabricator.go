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
	"reflect"

	"dirpx.dev/fabx/apis"
	uref "dirpx.dev/fabx/utils/reflect"
)

var fabricatorType = reflect.TypeFor[apis.Fabricator]()

// NewFabricatorStrategy creates an apis.Strategy for types that implement
// apis.Fabricator.
func NewFabricatorStrategy() apis.Strategy {
	return &fabricatorStrategy{}
}

// fabricatorStrategy is a fast path: if the base type of d implements
// apis.Fabricator (with a value or pointer receiver), its zero value
// produces the result and the chain stops.
type fabricatorStrategy struct{}

// Ensure fabricatorStrategy implements apis.Strategy.
var _ apis.Strategy = (*fabricatorStrategy)(nil)

// TryGenerator returns a producer calling Fabricate on a zero value.
func (*fabricatorStrategy) TryGenerator(d apis.Descriptor, r *rand.Rand, cfg apis.Config) (apis.Producer, bool) {
	if d == nil {
		return nil, false
	}
	base, _, err := uref.Normalize(d.GoType(), cfg)
	if err != nil || base.Kind() == reflect.Interface {
		return nil, false
	}

	var zero func() apis.Fabricator
	switch {
	case base.Implements(fabricatorType):
		zero = func() apis.Fabricator { return reflect.Zero(base).Interface().(apis.Fabricator) }
	case reflect.PointerTo(base).Implements(fabricatorType):
		zero = func() apis.Fabricator { return reflect.New(base).Interface().(apis.Fabricator) }
	default:
		return nil, false
	}
	return func() (any, error) {
		return zero().Fabricate(r), nil
	}, true
}
