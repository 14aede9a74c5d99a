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
	"reflect"
	"strconv"
	"sync"
	"time"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	uref "dirpx.dev/fabx/utils/reflect"
)

// leafStructs are struct types that are generated as a whole instead of
// being expanded field by field.
var leafStructs sync.Map // key: reflect.Type, val: struct{}

func init() {
	leafStructs.Store(reflect.TypeOf(time.Time{}), struct{}{})
}

// RegisterLeaf marks the struct type t as a leaf: its value comes from a
// generator and its fields are never expanded. Call it before any
// descriptor for t is built.
func RegisterLeaf(t reflect.Type) {
	if t == nil {
		return
	}
	base, _, err := uref.Normalize(t, config.DefaultConfig())
	if err != nil {
		return
	}
	leafStructs.Store(base, struct{}{})
}

// cacheKey ensures memoization respects the config knobs that affect descriptors.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// descriptorCache memoizes reflect-backed descriptors.
var descriptorCache sync.Map // key: cacheKey, val: *reflectType

// Of returns the descriptor for the Go type t, or nil for a nil type.
// Results are memoized per (type, MaxUnwrap).
func Of(t reflect.Type, cfg apis.Config) apis.Descriptor {
	if t == nil {
		return nil
	}
	return of(t, cfg)
}

// For returns the descriptor for T under the default configuration.
func For[T any]() apis.Descriptor {
	return Of(reflect.TypeFor[T](), config.DefaultConfig())
}

func of(t reflect.Type, cfg apis.Config) *reflectType {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if v, ok := descriptorCache.Load(key); ok {
		return v.(*reflectType)
	}

	d := &reflectType{t: t, cfg: cfg, base: t, length: -1}
	base, _, err := uref.Normalize(t, cfg)
	if err != nil {
		// Pathological pointer nesting is left opaque.
		d.kind = apis.Leaf
	} else {
		d.base = base
		d.kind = kindOf(base)
	}
	if d.base.Kind() == reflect.Array {
		d.length = d.base.Len()
	}
	d.id = identity(d.base)

	// Another goroutine may have raced us; keep the first stored value.
	v, _ := descriptorCache.LoadOrStore(key, d)
	return v.(*reflectType)
}

// ids assigns one identity per base Go type. Distinct types that render
// alike (two function-local types named Item in one package) get a "#n"
// suffix in first-seen order.
var ids struct {
	sync.Mutex
	byType map[reflect.Type]string
	owner  map[string]reflect.Type
}

func identity(t reflect.Type) string {
	ids.Lock()
	defer ids.Unlock()
	if id, ok := ids.byType[t]; ok {
		return id
	}
	if ids.byType == nil {
		ids.byType = make(map[reflect.Type]string)
		ids.owner = make(map[string]reflect.Type)
	}

	name := t.String()
	if t.Name() != "" && t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}
	id := name
	for n := 2; ; n++ {
		if _, taken := ids.owner[id]; !taken {
			break
		}
		id = name + "#" + strconv.Itoa(n)
	}
	ids.byType[t] = id
	ids.owner[id] = t
	return id
}

// kindOf classifies a pointer-free Go type.
func kindOf(t reflect.Type) apis.Kind {
	switch t.Kind() {
	case reflect.Struct:
		if _, ok := leafStructs.Load(t); ok {
			return apis.Leaf
		}
		return apis.Record
	case reflect.Slice:
		return apis.Container
	case reflect.Array:
		return apis.Array
	case reflect.Map:
		return apis.Map
	default:
		return apis.Leaf
	}
}

// reflectType describes a Go type. Members and element references are
// computed lazily so self-referential types do not recurse at construction.
type reflectType struct {
	t      reflect.Type
	base   reflect.Type
	cfg    apis.Config
	kind   apis.Kind
	id     string
	length int

	once    sync.Once
	members []apis.Member
	elem    apis.TypeRef
	key     apis.TypeRef
}

// Ensure reflectType implements apis.Descriptor.
var _ apis.Descriptor = (*reflectType)(nil)

func (d *reflectType) ID() string { return d.id }
func (d *reflectType) Origin() string { return d.id }
func (d *reflectType) Name() string { return uref.TypeName(d.base) }
func (d *reflectType) Kind() apis.Kind { return d.kind }
func (d *reflectType) TypeParams() []string { return nil }
func (d *reflectType) Len() int { return d.length }
func (d *reflectType) GoType() reflect.Type { return d.t }
func (d *reflectType) String() string { return d.Name() }

// Binding always fails: Go types carry no unbound parameters.
func (d *reflectType) Binding(int) (apis.Descriptor, bool) { return nil, false }

func (d *reflectType) Members() []apis.Member {
	d.once.Do(d.expand)
	return d.members
}

func (d *reflectType) Elem() apis.TypeRef {
	d.once.Do(d.expand)
	return d.elem
}

func (d *reflectType) Key() apis.TypeRef {
	d.once.Do(d.expand)
	return d.key
}

// expand resolves members and element references on first use.
func (d *reflectType) expand() {
	switch d.kind {
	case apis.Record:
		for i := 0; i < d.base.NumField(); i++ {
			f := d.base.Field(i)
			if !f.IsExported() {
				continue
			}
			d.members = append(d.members, apis.Member{
				Name:  f.Name,
				Type:  apis.Ref(of(f.Type, d.cfg)),
				Index: f.Index,
			})
		}
	case apis.Container, apis.Array:
		d.elem = apis.Ref(of(d.base.Elem(), d.cfg))
	case apis.Map:
		d.key = apis.Ref(of(d.base.Key(), d.cfg))
		d.elem = apis.Ref(of(d.base.Elem(), d.cfg))
	}
}
