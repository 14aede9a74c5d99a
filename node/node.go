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

package node

import (
	"strings"

	"dirpx.dev/fabx/apis"
)

// Role tells how a node relates to its parent.
type Role int

const (
	// RoleRoot is the root of a tree.
	RoleRoot Role = iota
	// RoleField is a record member.
	RoleField
	// RoleElem is the element template of a container or array, or the
	// value template of a map.
	RoleElem
	// RoleKey is the key template of a map.
	RoleKey
)

// Node is one position in a built type structure.
//
// Nodes are created by Builder and never modified afterwards. The parent
// link is for navigation (scope matching, paths) only.
type Node struct {
	typ    apis.Descriptor
	field  *apis.Member
	owner  apis.Descriptor
	parent *Node
	role   Role
	depth  int

	children []*Node
	elem     *Node
	key      *Node

	terminal bool
}

// Ensure Node implements apis.Node.
var _ apis.Node = (*Node)(nil)

// Type is the resolved descriptor at this position.
func (n *Node) Type() apis.Descriptor { return n.typ }

// Field is the owning member, nil for root, element and key nodes.
func (n *Node) Field() *apis.Member { return n.field }

// Owner is the record that declares Field.
func (n *Node) Owner() apis.Descriptor { return n.owner }

// Parent returns the enclosing node as an apis.Node, or nil for the root.
func (n *Node) Parent() apis.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode is Parent without the interface conversion.
func (n *Node) ParentNode() *Node { return n.parent }

// Role reports how n relates to its parent.
func (n *Node) Role() Role { return n.role }

// Depth is 0 for the root.
func (n *Node) Depth() int { return n.depth }

// Children are the member nodes of a record, in declaration order.
func (n *Node) Children() []*Node { return n.children }

// Elem is the element template of containers and arrays, or the value
// template of maps. Nil for other kinds and terminal nodes.
func (n *Node) Elem() *Node { return n.elem }

// Key is the key template of maps.
func (n *Node) Key() *Node { return n.key }

// Terminal reports that expansion stopped at n because its type recurs in
// its own ancestry or the depth cap was reached.
func (n *Node) Terminal() bool { return n.terminal }

// Kind is shorthand for n.Type().Kind().
func (n *Node) Kind() apis.Kind { return n.typ.Kind() }

// Path renders the position of n, e.g. "Person.Phones[].Number".
func (n *Node) Path() string {
	var parts []string
	for c := n; c != nil; c = c.parent {
		switch c.role {
		case RoleRoot:
			parts = append(parts, c.typ.Name())
		case RoleField:
			parts = append(parts, "."+c.field.Name)
		case RoleElem:
			if c.parent != nil && c.parent.Kind() == apis.Map {
				parts = append(parts, "[value]")
			} else {
				parts = append(parts, "[]")
			}
		case RoleKey:
			parts = append(parts, "[key]")
		}
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return n.Path() + " (" + n.typ.Name() + ")"
}

// Walk visits n and its descendants depth-first, pre-order. Returning
// false from fn skips the subtree of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
	if n.key != nil {
		n.key.Walk(fn)
	}
	if n.elem != nil {
		n.elem.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
