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

// Package filter decides whether the population engine keeps the current
// value of a node or (re)generates it.
package filter

import (
	"reflect"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/selector"
	uref "dirpx.dev/fabx/utils/reflect"
)

// Filter applies a population Action to a node's current value.
//
// The zero Filter has no rules. A Filter holds no mutable state and is safe
// for concurrent use as long as its rules are no longer modified.
type Filter struct {
	rules *selector.Map[apis.Directive]
}

// New returns a Filter consulting rules for per-node directives. rules may be nil.
func New(rules *selector.Map[apis.Directive]) Filter {
	return Filter{rules: rules}
}

// ShouldSkip reports whether the engine must keep current as is for n.
//
// Nil values are never skipped, neither are nodes with a matching rule.
// Under All nothing is skipped. Under NullsAndDefaultPrimitives zero
// primitives and zero leaf values (time.Time{}) are regenerated; under
// ApplySelectors every remaining value is kept.
func (f Filter) ShouldSkip(n apis.Node, action apis.Action, current reflect.Value) bool {
	if uref.IsNil(current) || action == apis.All {
		return false
	}
	if _, ok := f.rules.Resolve(n); ok {
		return false
	}
	if action == apis.NullsAndDefaultPrimitives {
		return uref.NeitherNilNorZeroPrimitive(current) && !zeroLeaf(n, current)
	}
	return true
}

// zeroLeaf reports a leaf node holding the zero value of its type.
func zeroLeaf(n apis.Node, v reflect.Value) bool {
	if n.Type().Kind() != apis.Leaf {
		return false
	}
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v.IsValid() && v.IsZero()
}
