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
	"sort"

	"dirpx.dev/fabx/apis"
)

// Map associates selectors with values and resolves, for a node, the value
// of the most recently inserted matching selector.
//
// Precedence is last-write-wins, not most-specific-wins: later rules refine
// earlier ones in application order, and conflicts are never an error.
//
// Put must not be called once the Map is shared; Resolve and Len are safe
// for concurrent use by any number of readers.
type Map[V any] struct {
	entries []entry[V]
	// index maps a target bucket to ascending entry positions.
	index map[string][]int
}

type entry[V any] struct {
	sel Selector
	val V
}

// NewMap returns an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{index: make(map[string][]int)}
}

// Put appends a rule. A later Put for an overlapping selector wins.
func (m *Map[V]) Put(s Selector, v V) {
	if m.index == nil {
		m.index = make(map[string][]int)
	}
	pos := len(m.entries)
	m.entries = append(m.entries, entry[V]{sel: s, val: v})
	k := s.target.key()
	m.index[k] = append(m.index[k], pos)
}

// Len returns the number of stored rules.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Selectors returns the stored selectors in insertion order.
func (m *Map[V]) Selectors() []Selector {
	if m == nil {
		return nil
	}
	out := make([]Selector, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.sel
	}
	return out
}

// Resolve returns the value of the last inserted selector matching n.
func (m *Map[V]) Resolve(n apis.Node) (V, bool) {
	var zero V
	if m == nil || n == nil || len(m.entries) == 0 {
		return zero, false
	}

	cands := m.candidates(n)
	sort.Sort(sort.Reverse(sort.IntSlice(cands)))
	for _, pos := range cands {
		e := m.entries[pos]
		if e.sel.Matches(n) {
			return e.val, true
		}
	}
	return zero, false
}

// candidates collects the positions of entries whose bucket may match n.
func (m *Map[V]) candidates(n apis.Node) []int {
	t := n.Type()
	keys := []string{"t:" + t.ID(), "o:" + t.Origin()}
	if f := n.Field(); f != nil && n.Owner() != nil {
		o := n.Owner()
		keys = append(keys, "f:"+o.ID()+"#"+f.Name, "fo:"+o.Origin()+"#"+f.Name)
	}
	keys = append(keys, "k:"+baseKind(t).String(), "s:"+t.Kind().String())
	if n.Parent() == nil {
		keys = append(keys, "r")
	}

	var out []int
	for _, k := range keys {
		out = append(out, m.index[k]...)
	}
	return out
}
