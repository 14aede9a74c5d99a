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
	"cmp"
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/filter"
	"dirpx.dev/fabx/node"
	"dirpx.dev/fabx/selector"
)

// keyAttempts bounds map key generation per requested entry; duplicate
// keys are retried at most this many times.
const keyAttempts = 4

// population is the state of one Create or Populate call.
type population struct {
	cfg    apis.Config
	res    apis.Resolver
	rules  *selector.Map[apis.Directive]
	filter filter.Filter
	action apis.Action
	rnd    *rand.Rand

	generated int
	// undo restores overwritten slots when journal is set.
	undo    []func()
	journal bool
}

// fill returns the value of n given its current value cur. An invalid
// result means "leave the slot as is". Valid results are assignable to the
// slot cur was read from.
func (p *population) fill(n *node.Node, cur reflect.Value) (reflect.Value, error) {
	dir, hasDir := p.rules.Resolve(n)
	if hasDir {
		switch dir.Kind {
		case apis.DirectiveIgnore:
			return cur, nil
		case apis.DirectiveSupply:
			return p.produce(n, dir.Supply)
		case apis.DirectiveNull:
			return reflect.Zero(n.Type().GoType()), nil
		}
	}
	// Terminal nodes only take supplied values.
	if n.Terminal() {
		return cur, nil
	}
	if p.filter.ShouldSkip(n, p.action, cur) {
		return p.descend(n, cur)
	}

	// A size rule on a container or map overrides its generators.
	lo, hi := p.cfg.MinSize, p.cfg.MaxSize
	sized := hasDir && dir.Kind == apis.DirectiveSize && (n.Kind() == apis.Container || n.Kind() == apis.Map)
	if sized {
		lo, hi = dir.Min, dir.Max
	} else if prod, ok := p.res.GeneratorFor(n, p.rnd, p.cfg); ok {
		return p.produce(n, prod)
	}

	switch n.Kind() {
	case apis.Record:
		return p.record(n, cur)
	case apis.Container:
		return p.container(n, cur, p.count(lo, hi))
	case apis.Array:
		return p.array(n, cur)
	case apis.Map:
		return p.mapping(n, cur, p.count(lo, hi))
	}
	if opaque(n) {
		return cur, nil
	}
	return reflect.Value{}, failure(n, ErrNoGenerator)
}

// descend keeps cur but still visits the nodes below it.
func (p *population) descend(n *node.Node, cur reflect.Value) (reflect.Value, error) {
	switch n.Kind() {
	case apis.Record:
		return p.record(n, cur)
	case apis.Container:
		return p.container(n, cur, indirect(cur).Len())
	case apis.Array:
		return p.array(n, cur)
	case apis.Map:
		return p.mapping(n, cur, indirect(cur).Len())
	default:
		return cur, nil
	}
}

func (p *population) produce(n *node.Node, prod apis.Producer) (reflect.Value, error) {
	v, err := prod()
	if err != nil {
		return reflect.Value{}, failure(n, err)
	}
	t := n.Type().GoType()
	if v == nil {
		return reflect.Zero(t), nil
	}
	out, ok := wrap(reflect.ValueOf(v), t)
	if !ok {
		return reflect.Value{}, failure(n, fmt.Errorf("%w: %T into %s", ErrTypeMismatch, v, t))
	}
	p.generated++
	return out, nil
}

// record reuses the instance held by cur when there is one and fills the
// member slots.
func (p *population) record(n *node.Node, cur reflect.Value) (reflect.Value, error) {
	t := n.Type().GoType()
	bt := baseType(t)
	base := indirect(cur)

	if bt.Kind() == reflect.Map {
		m, reuse := base, base.IsValid() && !base.IsNil()
		if !reuse {
			m = reflect.MakeMap(bt)
		}
		for _, c := range n.Children() {
			k := reflect.ValueOf(c.Field().Name)
			v, err := p.fill(c, m.MapIndex(k))
			if err != nil {
				return reflect.Value{}, err
			}
			if v.IsValid() {
				p.setMapIndex(m, k, v)
			}
		}
		if reuse {
			return cur, nil
		}
		return mustWrap(m, t), nil
	}

	s, reuse := base, base.IsValid() && base.CanSet()
	if !reuse {
		s = reflect.New(bt).Elem()
		if base.IsValid() {
			s.Set(base)
		}
	}
	for _, c := range n.Children() {
		f := s.FieldByIndex(c.Field().Index)
		v, err := p.fill(c, f)
		if err != nil {
			return reflect.Value{}, err
		}
		if v.IsValid() {
			p.set(f, v)
		}
	}
	if reuse {
		return cur, nil
	}
	return mustWrap(s, t), nil
}

// container fills count elements from the element template. Elements of
// cur are refiltered one by one against their own values.
func (p *population) container(n *node.Node, cur reflect.Value, count int) (reflect.Value, error) {
	elem := n.Elem()
	if elem == nil || p.frozen(elem) {
		return cur, nil
	}
	t := n.Type().GoType()
	bt := baseType(t)
	old := indirect(cur)

	s, reuse := old, old.IsValid() && old.Type() == bt && old.Len() == count
	if !reuse {
		s = reflect.MakeSlice(bt, count, count)
	}
	if err := p.elements(elem, s, old, count); err != nil {
		return reflect.Value{}, err
	}
	if reuse {
		return cur, nil
	}
	return mustWrap(s, t), nil
}

// array fills a Go array in place or a declared array of fixed length.
func (p *population) array(n *node.Node, cur reflect.Value) (reflect.Value, error) {
	t := n.Type().GoType()
	bt := baseType(t)
	if bt.Kind() != reflect.Array {
		return p.container(n, cur, max(n.Type().Len(), 0))
	}
	elem := n.Elem()
	if elem == nil || p.frozen(elem) {
		return cur, nil
	}

	old := indirect(cur)
	a, reuse := old, old.IsValid() && old.CanSet()
	if !reuse {
		a = reflect.New(bt).Elem()
		if old.IsValid() {
			a.Set(old)
		}
	}
	if err := p.elements(elem, a, a, bt.Len()); err != nil {
		return reflect.Value{}, err
	}
	if reuse {
		return cur, nil
	}
	return mustWrap(a, t), nil
}

// elements fills dst[0:count] from elem, reading current values from src.
func (p *population) elements(elem *node.Node, dst, src reflect.Value, count int) error {
	for i := 0; i < count; i++ {
		var ec reflect.Value
		if src.IsValid() && i < src.Len() {
			ec = src.Index(i)
		}
		v, err := p.fill(elem, ec)
		if err != nil {
			return err
		}
		if v.IsValid() {
			p.set(dst.Index(i), v)
		}
	}
	return nil
}

// mapping refreshes the existing entries of cur and adds generated entries
// until the map holds count of them.
func (p *population) mapping(n *node.Node, cur reflect.Value, count int) (reflect.Value, error) {
	key, elem := n.Key(), n.Elem()
	if key == nil || elem == nil || p.frozen(key) || p.frozen(elem) {
		return cur, nil
	}
	t := n.Type().GoType()
	bt := baseType(t)
	old := indirect(cur)

	m, reuse := old, old.IsValid() && !old.IsNil()
	if reuse {
		keys := m.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		for _, k := range keys {
			v, err := p.fill(elem, m.MapIndex(k))
			if err != nil {
				return reflect.Value{}, err
			}
			if v.IsValid() {
				p.setMapIndex(m, k, v)
			}
		}
	} else {
		m = reflect.MakeMapWithSize(bt, count)
	}

	for tries := 0; m.Len() < count && tries < count*keyAttempts; tries++ {
		kv, err := p.fill(key, reflect.Value{})
		if err != nil {
			return reflect.Value{}, err
		}
		if !kv.IsValid() {
			continue
		}
		k, ok := mapKey(kv, bt.Key())
		if !ok {
			return reflect.Value{}, failure(key, fmt.Errorf("%w: %s as key of %s", ErrTypeMismatch, kv.Type(), bt))
		}
		if m.MapIndex(k).IsValid() {
			continue
		}
		v, err := p.fill(elem, reflect.Value{})
		if err != nil {
			return reflect.Value{}, err
		}
		if !v.IsValid() {
			v = reflect.Zero(bt.Elem())
		}
		p.setMapIndex(m, k, v)
	}
	if reuse {
		return cur, nil
	}
	return mustWrap(m, t), nil
}

// frozen reports a terminal template that no rule supplies a value for.
func (p *population) frozen(n *node.Node) bool {
	if !n.Terminal() {
		return false
	}
	dir, ok := p.rules.Resolve(n)
	return !ok || (dir.Kind != apis.DirectiveSupply && dir.Kind != apis.DirectiveNull)
}

// set assigns v to slot, remembering the previous value under journal.
func (p *population) set(slot, v reflect.Value) {
	if p.journal {
		prev := reflect.New(slot.Type()).Elem()
		prev.Set(slot)
		p.undo = append(p.undo, func() { slot.Set(prev) })
	}
	slot.Set(v)
}

// setMapIndex is set for map entries. Undoing a new key deletes it.
func (p *population) setMapIndex(m, k, v reflect.Value) {
	if p.journal {
		prev := m.MapIndex(k)
		p.undo = append(p.undo, func() { m.SetMapIndex(k, prev) })
	}
	m.SetMapIndex(k, v)
}

// rollback undoes every journaled write, newest first.
func (p *population) rollback() {
	for i := len(p.undo) - 1; i >= 0; i-- {
		p.undo[i]()
	}
	p.undo = nil
}

func (p *population) count(lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return lo + p.rnd.IntN(hi-lo+1)
}

// opaque reports Go leaves that have no meaningful generated value and
// stay nil: interfaces, funcs and chans.
func opaque(n *node.Node) bool {
	if _, ok := n.Type().(*descriptor.Declared); ok {
		return false
	}
	switch baseType(n.Type().GoType()).Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func failure(n *node.Node, err error) error {
	return &GenerationFailure{Path: n.Path(), Type: n.Type().Name(), Err: err}
}
