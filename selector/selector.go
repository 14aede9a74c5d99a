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

package selector

import (
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	uref "dirpx.dev/fabx/utils/reflect"
)

// match enumerates the closed set of target predicates.
type match int

const (
	matchType match = iota
	matchField
	matchKind
	matchShape
	matchRoot
)

// target is the predicate shared by selectors and scopes.
type target struct {
	match match
	typ   apis.Descriptor
	field string
	kind  reflect.Kind
	shape apis.Kind
}

// matches reports whether n itself satisfies t.
func (t target) matches(n apis.Node) bool {
	switch t.match {
	case matchType:
		return apis.SameType(t.typ, n.Type())
	case matchField:
		f := n.Field()
		return f != nil && f.Name == t.field && apis.SameType(t.typ, n.Owner())
	case matchKind:
		return baseKind(n.Type()) == t.kind
	case matchShape:
		return n.Type().Kind() == t.shape
	case matchRoot:
		return n.Parent() == nil
	default:
		return false
	}
}

// key is the index bucket of t in a Map.
func (t target) key() string {
	switch t.match {
	case matchType:
		if apis.IsUnbound(t.typ) {
			return "o:" + t.typ.Origin()
		}
		return "t:" + t.typ.ID()
	case matchField:
		if apis.IsUnbound(t.typ) {
			return "fo:" + t.typ.Origin() + "#" + t.field
		}
		return "f:" + t.typ.ID() + "#" + t.field
	case matchKind:
		return "k:" + t.kind.String()
	case matchShape:
		return "s:" + t.shape.String()
	default:
		return "r"
	}
}

func (t target) String() string {
	switch t.match {
	case matchType:
		return "all(" + t.typ.Name() + ")"
	case matchField:
		return "field(" + t.typ.Name() + ", " + t.field + ")"
	case matchKind:
		return "kind(" + t.kind.String() + ")"
	case matchShape:
		return "shape(" + t.shape.String() + ")"
	default:
		return "root()"
	}
}

// baseKind is the reflect kind of d's storage type with pointers stripped.
func baseKind(d apis.Descriptor) reflect.Kind {
	base, _, err := uref.Normalize(d.GoType(), config.DefaultConfig())
	if err != nil {
		return reflect.Invalid
	}
	return base.Kind()
}

// Selector targets nodes by type, field, kind or root position, optionally
// narrowed by a scope chain. Selectors are immutable values.
type Selector struct {
	target
	scopes []Scope
}

// Scope is one ancestor constraint of a scope chain.
type Scope struct {
	target
}

// All targets every node whose type is d. An unbound generic d targets
// every instantiation.
func All(d apis.Descriptor) Selector {
	return Selector{target: target{match: matchType, typ: d}}
}

// AllOf targets every node of Go type T (pointers folded).
func AllOf[T any]() Selector {
	return All(descriptor.For[T]())
}

// Field targets the member name declared by record d.
func Field(d apis.Descriptor, name string) Selector {
	return Selector{target: target{match: matchField, typ: d, field: name}}
}

// FieldOf targets the member name of the Go struct T.
func FieldOf[T any](name string) Selector {
	return Field(descriptor.For[T](), name)
}

// Kind targets every node whose storage type has reflect kind k, including
// named types such as `type Code string`.
func Kind(k reflect.Kind) Selector {
	return Selector{target: target{match: matchKind, kind: k}}
}

// AllStrings targets every string-kinded node.
func AllStrings() Selector { return Kind(reflect.String) }

// AllInts targets every int-kinded node.
func AllInts() Selector { return Kind(reflect.Int) }

// AllBools targets every bool-kinded node.
func AllBools() Selector { return Kind(reflect.Bool) }

// AllFloats targets every float64-kinded node.
func AllFloats() Selector { return Kind(reflect.Float64) }

// Shape targets every node of structural kind k, e.g. every container.
func Shape(k apis.Kind) Selector {
	return Selector{target: target{match: matchShape, shape: k}}
}

// Root targets the root node.
func Root() Selector {
	return Selector{target: target{match: matchRoot}}
}

// Within returns a copy of s narrowed by scopes, ordered outer to inner.
// Scopes accumulate across calls.
func (s Selector) Within(scopes ...Scope) Selector {
	out := s
	out.scopes = make([]Scope, 0, len(s.scopes)+len(scopes))
	out.scopes = append(out.scopes, s.scopes...)
	out.scopes = append(out.scopes, scopes...)
	return out
}

// ToScope converts the target of s into a scope, dropping its own scopes.
func (s Selector) ToScope() Scope {
	return Scope{target: s.target}
}

// Scopes returns a copy of the scope chain.
func (s Selector) Scopes() []Scope {
	return append([]Scope(nil), s.scopes...)
}

// Matches reports whether s targets n and its scope chain is satisfied.
func (s Selector) Matches(n apis.Node) bool {
	if n == nil || !s.target.matches(n) {
		return false
	}
	return scopesMatch(s.scopes, n)
}

// String renders s for diagnostics, e.g. "field(Phone, Number) within [all(Person)]".
func (s Selector) String() string {
	if len(s.scopes) == 0 {
		return s.target.String()
	}
	parts := make([]string, len(s.scopes))
	for i, sc := range s.scopes {
		parts[i] = sc.String()
	}
	return fmt.Sprintf("%s within [%s]", s.target, strings.Join(parts, ", "))
}

// ScopeOf returns a scope satisfied by any node of type d.
func ScopeOf(d apis.Descriptor) Scope {
	return All(d).ToScope()
}

// FieldScope returns a scope satisfied by the member name of record d.
func FieldScope(d apis.Descriptor, name string) Scope {
	return Field(d, name).ToScope()
}

// scopesMatch walks from n outward (n included). Scopes are consumed
// innermost first; every outer scope must be satisfied by a node strictly
// above the node that satisfied the scope inside it. Gaps are allowed.
func scopesMatch(scopes []Scope, n apis.Node) bool {
	cur := n
	for i := len(scopes) - 1; i >= 0; i-- {
		for cur != nil && !scopes[i].matches(cur) {
			cur = cur.Parent()
		}
		if cur == nil {
			return false
		}
		cur = cur.Parent()
	}
	return true
}
