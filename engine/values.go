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

package engine

import (
	"fmt"
	"reflect"
)

// indirect follows pointers and interfaces down to the value they hold.
// It returns the zero Value when cur is absent or nil on the way.
func indirect(cur reflect.Value) reflect.Value {
	for cur.IsValid() && (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) {
		if cur.IsNil() {
			return reflect.Value{}
		}
		cur = cur.Elem()
	}
	return cur
}

// baseType strips pointers from t.
func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// wrap converts v into a value of type t, allocating pointers as needed.
// Conversions are limited to the same kind family so that, for example,
// an int never turns into a one-rune string.
func wrap(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	vt := v.Type()
	switch {
	case vt == t:
		return v, true
	case vt.AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, true
	case t.Kind() == reflect.Pointer:
		inner, ok := wrap(v, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, true
	case vt.Kind() == reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(t), true
		}
		return wrap(v.Elem(), t)
	case family(vt.Kind()) == family(t.Kind()) && vt.ConvertibleTo(t):
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

// mustWrap is wrap for values built from t's own base type.
func mustWrap(v reflect.Value, t reflect.Type) reflect.Value {
	out, ok := wrap(v, t)
	if !ok {
		panic(fmt.Sprintf("fabx(engine): cannot store %s as %s", v.Type(), t))
	}
	return out
}

// mapKey adapts a generated key to the key type of a map. Declared maps
// are keyed by strings, so other keys are rendered with fmt.Sprint.
func mapKey(k reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if out, ok := wrap(k, t); ok {
		return out, true
	}
	if t.Kind() == reflect.String {
		return reflect.ValueOf(fmt.Sprint(k.Interface())).Convert(t), true
	}
	return reflect.Value{}, false
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return -1
	case reflect.Complex64, reflect.Complex128:
		return -2
	default:
		return int(k)
	}
}
