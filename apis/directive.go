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

// DirectiveKind enumerates what a rule does to the nodes it targets.
type DirectiveKind int

const (
	// DirectiveIgnore leaves the node and its subtree untouched.
	DirectiveIgnore DirectiveKind = iota
	// DirectiveSupply assigns the value returned by a Producer.
	DirectiveSupply
	// DirectiveNull assigns the zero value (nil for nillable types).
	DirectiveNull
	// DirectiveSize fixes the element count of containers and maps.
	DirectiveSize
)

// Directive is the payload a selector maps to.
type Directive struct {
	// Kind selects the behavior.
	Kind DirectiveKind
	// Supply is the producer of DirectiveSupply.
	Supply Producer
	// Min and Max bound the element count of DirectiveSize (inclusive).
	Min, Max int
}

// Ignore returns a directive that freezes the targeted subtree.
func Ignore() Directive {
	return Directive{Kind: DirectiveIgnore}
}

// Supply returns a directive assigning p's result.
func Supply(p Producer) Directive {
	return Directive{Kind: DirectiveSupply, Supply: p}
}

// Set returns a directive assigning the constant v.
func Set(v any) Directive {
	return Supply(func() (any, error) { return v, nil })
}

// Null returns a directive assigning the zero value.
func Null() Directive {
	return Directive{Kind: DirectiveNull}
}

// Size returns a directive fixing the element count to [min, max].
// max below min is raised to min.
func Size(min, max int) Directive {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return Directive{Kind: DirectiveSize, Min: min, Max: max}
}
