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

import "reflect"

// Descriptor is the abstract type capability the node builder consumes.
//
// A Descriptor reports the shape of one concrete type: its kind, its
// members (for records), its element/key types (for containers, arrays and
// maps), and the generic parameter bindings in effect for it. Descriptors
// are immutable; a generic type instantiated with a given binding is
// represented by its own Descriptor.
//
// Implementations must be safe for concurrent use.
type Descriptor interface {
	// ID is the identity of the type including its bindings, e.g. "Pair[string,int]".
	ID() string
	// Origin is the identity of the generic origin ("Pair"). Equals ID for
	// non-generic types.
	Origin() string
	// Name is a short human-readable name used in paths and diagnostics.
	Name() string
	// Kind reports the structural kind.
	Kind() Kind
	// Members lists record members in declaration order. Nil for other kinds.
	Members() []Member
	// TypeParams lists the declared generic parameter names.
	TypeParams() []string
	// Binding returns the descriptor bound to type parameter i.
	Binding(i int) (Descriptor, bool)
	// Elem is the element type of containers and arrays, and the value type of maps.
	Elem() TypeRef
	// Key is the key type of maps.
	Key() TypeRef
	// Len is the fixed length of arrays; -1 for every other kind.
	Len() int
	// GoType is the storage type values of this descriptor are held in.
	GoType() reflect.Type
}

// Generic is implemented by descriptors that can be instantiated with
// type arguments.
type Generic interface {
	Descriptor
	// Instantiate binds args to the type parameters in order.
	Instantiate(args ...Descriptor) (Descriptor, error)
}

// Member is a declared member of a record type.
type Member struct {
	// Name is the member name as seen by selectors.
	Name string
	// Type is the declared type, possibly referring to the owner's type parameters.
	Type TypeRef
	// Index is the reflect field index for struct-backed records; nil otherwise.
	Index []int
}

// TypeRef is a declared type reference: either a type parameter of the
// enclosing descriptor, or a descriptor applied to type arguments.
type TypeRef struct {
	// Type is the referenced descriptor. Nil for parameter references.
	Type Descriptor
	// Args are type arguments applied to Type when it is generic.
	Args []TypeRef
	// Param is the index into the enclosing descriptor's type parameters.
	Param int
	// IsParam marks a parameter reference.
	IsParam bool
}

// Ref returns a reference to d applied to args.
func Ref(d Descriptor, args ...TypeRef) TypeRef {
	return TypeRef{Type: d, Args: args}
}

// ParamRef returns a reference to the i-th type parameter of the enclosing type.
func ParamRef(i int) TypeRef {
	return TypeRef{Param: i, IsParam: true}
}

// IsZero reports whether r references nothing.
func (r TypeRef) IsZero() bool {
	return r.Type == nil && !r.IsParam
}

// Bindings returns every bound type argument of d in parameter order.
// The result is shorter than TypeParams when d is not fully bound.
func Bindings(d Descriptor) []Descriptor {
	var out []Descriptor
	for i := range d.TypeParams() {
		b, ok := d.Binding(i)
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out
}

// IsUnbound reports whether d declares type parameters without bindings.
func IsUnbound(d Descriptor) bool {
	return len(d.TypeParams()) > 0 && len(Bindings(d)) < len(d.TypeParams())
}

// SameType reports whether target denotes the same type as d. An unbound
// generic target matches every instantiation of its origin.
func SameType(target, d Descriptor) bool {
	if target == nil || d == nil {
		return false
	}
	if IsUnbound(target) {
		return target.Origin() == d.Origin()
	}
	return target.ID() == d.ID()
}
