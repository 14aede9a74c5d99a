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
	"errors"
	"fmt"

	"dirpx.dev/fabx/apis"
)

// ErrEmptyRef is returned when a zero TypeRef is resolved.
var ErrEmptyRef = errors.New("fabx(descriptor): empty type reference")

// Bind applies caller-supplied type arguments to d.
//
// A fully bound or non-generic d is returned as is when args is empty.
// An unbound generic d requires exactly one argument per type parameter;
// anything else fails with *UnresolvedGenericsError because guessing a
// binding is unsound.
func Bind(d apis.Descriptor, args ...apis.Descriptor) (apis.Descriptor, error) {
	if d == nil {
		return nil, ErrEmptyRef
	}
	if !apis.IsUnbound(d) {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotGeneric, d.Name())
		}
		return d, nil
	}
	g, ok := d.(apis.Generic)
	if !ok || len(args) != len(d.TypeParams()) {
		return nil, &UnresolvedGenericsError{Type: d.Origin(), Params: d.TypeParams(), Got: len(args)}
	}
	return g.Instantiate(args...)
}

// Resolve substitutes the bindings of owner into ref and returns the
// concrete descriptor it denotes.
func Resolve(ref apis.TypeRef, owner apis.Descriptor) (apis.Descriptor, error) {
	if ref.IsParam {
		if owner != nil {
			if b, ok := owner.Binding(ref.Param); ok {
				return b, nil
			}
			return nil, &UnresolvedGenericsError{
				Type:   owner.Origin(),
				Params: owner.TypeParams(),
				Got:    len(apis.Bindings(owner)),
			}
		}
		return nil, &UnresolvedGenericsError{Type: "?", Got: 0}
	}
	if ref.Type == nil {
		return nil, ErrEmptyRef
	}
	if len(ref.Args) == 0 {
		if apis.IsUnbound(ref.Type) {
			return nil, &UnresolvedGenericsError{Type: ref.Type.Origin(), Params: ref.Type.TypeParams()}
		}
		return ref.Type, nil
	}

	args := make([]apis.Descriptor, len(ref.Args))
	for i, a := range ref.Args {
		d, err := Resolve(a, owner)
		if err != nil {
			return nil, err
		}
		args[i] = d
	}
	return Bind(ref.Type, args...)
}
