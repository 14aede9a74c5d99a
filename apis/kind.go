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

import (
	"fmt"
	"strings"
)

// Kind classifies the structural shape of a Descriptor.
//
// The set is closed: every type fabx can populate is exactly one of these.
// Pointers are not a Kind; descriptors fold them into the kind of the
// pointed-to type.
type Kind int

const (
	// Leaf types are opaque to the node builder and are only ever produced
	// by a generator (strings, numbers, time.Time, interfaces, ...).
	Leaf Kind = iota
	// Record types expand into one child node per member.
	Record
	// Container types (slices, declared lists) expand into a single
	// element template node and have a variable element count.
	Container
	// Array types expand like containers but have a fixed length.
	Array
	// Map types expand into a key template and a value template.
	Map
)

// String returns a short, stable identifier for k.
// Unknown values render as "Unknown(<n>)" and never panic.
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "Leaf"
	case Record:
		return "Record"
	case Container:
		return "Container"
	case Array:
		return "Array"
	case Map:
		return "Map"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Action selects which existing values are eligible for (re)generation.
// All overwrites every node. ApplySelectors only touches nil values and
// nodes with a matching directive. NullsAndDefaultPrimitives also
// regenerates zero-valued primitives.
//
// An Action is carried top-down from the invocation and is never stored
// on a node.
type Action int

const (
	// NullsAndDefaultPrimitives regenerates nil values and primitives that
	// hold their zero value. It is the default.
	NullsAndDefaultPrimitives Action = iota
	// ApplySelectors only touches nil values and nodes targeted by a rule.
	ApplySelectors
	// All regenerates every node.
	All
)

// String returns the configuration spelling of a.
func (a Action) String() string {
	switch a {
	case NullsAndDefaultPrimitives:
		return "nulls_and_default_primitives"
	case ApplySelectors:
		return "apply_selectors"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// ParseAction parses the configuration spelling of an Action.
// Matching is case-insensitive and accepts '-' in place of '_'.
func ParseAction(s string) (Action, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "nulls_and_default_primitives", "":
		return NullsAndDefaultPrimitives, nil
	case "apply_selectors":
		return ApplySelectors, nil
	case "all":
		return All, nil
	default:
		return 0, fmt.Errorf("fabx(apis): unknown action %q", s)
	}
}
