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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTooDeep indicates that pointer unwrapping hit MaxUnwrap
	// before reaching a non-pointer type.
	ErrReflectTooDeep = errors.New("reflect: pointer nesting exceeds MaxUnwrap")
)

// Normalize strips pointer indirections from t and returns the base type
// together with the number of pointers removed.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, int, error) {
	if t == nil {
		return nil, 0, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	n := 0
	for t.Kind() == reflect.Pointer {
		if n == maxUnwrap {
			return nil, n, ErrReflectTooDeep
		}
		t = t.Elem()
		n++
	}
	return t, n, nil
}

// TypeName derives a stable "pkg.Type" identifier for t, keeping generic
// instantiation parameters. Unnamed types use their Go syntax.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() == "" {
		return t.String()
	}
	if p := t.PkgPath(); p != "" {
		return path.Base(p) + "." + t.Name()
	}
	return t.Name()
}

// StripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// IsNil reports whether v holds no value: an invalid Value, or a nil
// pointer, slice, map, interface, func or chan.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Interface {
			return IsNil(v.Elem())
		}
	}
	return false
}

// IsPrimitive reports whether k is a scalar kind with a meaningful zero value.
func IsPrimitive(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// IsZeroPrimitive reports whether v is a primitive holding its zero value
// (false, 0, ""). Interfaces are looked through.
func IsZeroPrimitive(v reflect.Value) bool {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if !v.IsValid() || !IsPrimitive(v.Kind()) {
		return false
	}
	return v.IsZero()
}

// NeitherNilNorZeroPrimitive reports whether v holds a value worth keeping
// under the nulls-and-default-primitives action.
func NeitherNilNorZeroPrimitive(v reflect.Value) bool {
	return !IsNil(v) && !IsZeroPrimitive(v)
}
