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

package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/fabx/apis"
)

var (
	recordGoType = reflect.TypeFor[map[string]any]()
	listGoType   = reflect.TypeFor[[]any]()
	anyGoType    = reflect.TypeFor[any]()
)

// Declared is an explicitly registered type descriptor.
//
// A Declared is assembled with Declare and the Set* methods (or one of the
// Record/List/ArrayOf/MapOf shorthands) and must not be modified once it
// has been handed to a node builder. Instances produced by Instantiate
// share the shape of their origin and differ only in bindings.
type Declared struct {
	name   string
	kind   apis.Kind
	params []string

	members []apis.Member
	elem    apis.TypeRef
	key     apis.TypeRef
	length  int

	// origin is nil for declarations; bound holds the type arguments of instances.
	origin *Declared
	bound  []apis.Descriptor

	// instances memoizes Instantiate results on the origin by ID.
	instances sync.Map
}

// Ensure Declared implements apis.Generic.
var _ apis.Generic = (*Declared)(nil)

// Declare creates an empty declaration of the given kind with type parameters.
func Declare(name string, kind apis.Kind, params ...string) *Declared {
	return &Declared{name: name, kind: kind, params: params, length: -1}
}

// Record declares a record type with members.
func Record(name string, params []string, members ...apis.Member) *Declared {
	return Declare(name, apis.Record, params...).SetMembers(members...)
}

// List declares a variable-length container of elem.
func List(name string, params []string, elem apis.TypeRef) *Declared {
	return Declare(name, apis.Container, params...).SetElem(elem)
}

// ArrayOf declares a fixed-length array of n elem values.
func ArrayOf(name string, params []string, elem apis.TypeRef, n int) *Declared {
	return Declare(name, apis.Array, params...).SetElem(elem).SetLen(n)
}

// MapOf declares a map from key to elem. Generated keys are rendered with
// fmt.Sprint because declared maps are stored as map[string]any.
func MapOf(name string, params []string, key, elem apis.TypeRef) *Declared {
	return Declare(name, apis.Map, params...).SetKey(key).SetElem(elem)
}

// Field is shorthand for a declared member.
func Field(name string, ref apis.TypeRef) apis.Member {
	return apis.Member{Name: name, Type: ref}
}

// SetMembers replaces the members of a record declaration.
func (d *Declared) SetMembers(members ...apis.Member) *Declared {
	d.members = append([]apis.Member(nil), members...)
	return d
}

// SetElem sets the element (or map value) type.
func (d *Declared) SetElem(ref apis.TypeRef) *Declared {
	d.elem = ref
	return d
}

// SetKey sets the map key type.
func (d *Declared) SetKey(ref apis.TypeRef) *Declared {
	d.key = ref
	return d
}

// SetLen sets the fixed length of an array declaration.
func (d *Declared) SetLen(n int) *Declared {
	d.length = n
	return d
}

func (d *Declared) decl() *Declared {
	if d.origin != nil {
		return d.origin
	}
	return d
}

// ID includes bindings: "Pair[string,int]".
func (d *Declared) ID() string {
	if len(d.bound) == 0 {
		return d.name
	}
	ids := make([]string, len(d.bound))
	for i, b := range d.bound {
		ids[i] = b.ID()
	}
	return d.name + "[" + strings.Join(ids, ",") + "]"
}

// Origin is the declaration name without bindings.
func (d *Declared) Origin() string { return d.name }

// Name renders bindings with their short names.
func (d *Declared) Name() string {
	if len(d.bound) == 0 {
		return d.name
	}
	names := make([]string, len(d.bound))
	for i, b := range d.bound {
		names[i] = b.Name()
	}
	return d.name + "[" + strings.Join(names, ",") + "]"
}

func (d *Declared) String() string { return d.Name() }

func (d *Declared) Kind() apis.Kind { return d.kind }

func (d *Declared) TypeParams() []string { return d.decl().params }

func (d *Declared) Binding(i int) (apis.Descriptor, bool) {
	if i < 0 || i >= len(d.bound) {
		return nil, false
	}
	return d.bound[i], true
}

func (d *Declared) Members() []apis.Member { return d.decl().members }

func (d *Declared) Elem() apis.TypeRef { return d.decl().elem }

func (d *Declared) Key() apis.TypeRef { return d.decl().key }

func (d *Declared) Len() int {
	if d.kind != apis.Array {
		return -1
	}
	return d.decl().length
}

// GoType is the dynamic storage type of declared values.
func (d *Declared) GoType() reflect.Type {
	switch d.kind {
	case apis.Record, apis.Map:
		return recordGoType
	case apis.Container, apis.Array:
		return listGoType
	default:
		return anyGoType
	}
}

// Instantiate binds args to the declaration's type parameters. Instances
// are memoized, so equal bindings yield the same descriptor.
func (d *Declared) Instantiate(args ...apis.Descriptor) (apis.Descriptor, error) {
	if d.origin != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyBound, d.ID())
	}
	if len(d.params) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotGeneric, d.name)
	}
	if len(args) != len(d.params) {
		return nil, &UnresolvedGenericsError{Type: d.name, Params: d.params, Got: len(args)}
	}
	for _, a := range args {
		if a == nil || apis.IsUnbound(a) {
			return nil, &UnresolvedGenericsError{Type: d.name, Params: d.params, Got: len(args)}
		}
	}

	inst := &Declared{
		name:   d.name,
		kind:   d.kind,
		origin: d,
		bound:  append([]apis.Descriptor(nil), args...),
		length: -1,
	}
	v, _ := d.instances.LoadOrStore(inst.ID(), inst)
	return v.(*Declared), nil
}
