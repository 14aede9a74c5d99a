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
	"context"
	"fmt"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/internal/ctxlog"
)

// Builder turns descriptors into node trees.
//
// A Builder is stateless between calls and safe for concurrent use; each
// BuildRoot call owns its ancestry bookkeeping.
type Builder struct {
	cfg apis.Config
}

// NewBuilder returns a Builder honoring MaxDepth and RecursionLimit of cfg.
func NewBuilder(cfg apis.Config) *Builder {
	return &Builder{cfg: config.Normalize(cfg)}
}

// BuildRoot builds the tree for d. bindings supply the type arguments of
// an unbound generic root; see descriptor.Bind.
func (b *Builder) BuildRoot(ctx context.Context, d apis.Descriptor, bindings ...apis.Descriptor) (*Node, error) {
	root, err := descriptor.Bind(d, bindings...)
	if err != nil {
		return nil, err
	}

	w := walk{ctx: ctx, cfg: b.cfg, ancestry: make(map[string]int)}
	n := &Node{typ: root, role: RoleRoot}
	if err := w.expand(n); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Built node tree.", "type", root.Name(), "nodes", n.Count(), "truncated", w.truncated)
	return n, nil
}

// walk carries per-call state of BuildRoot;
// ancestry counts occurrences of each type ID on the current path.
type walk struct {
	ctx       context.Context
	cfg       apis.Config
	ancestry  map[string]int
	truncated int
}

func (w *walk) expand(n *Node) error {
	kind := n.typ.Kind()
	if kind == apis.Leaf {
		return nil
	}

	id := n.typ.ID()
	switch {
	case w.ancestry[id] >= w.cfg.RecursionLimit:
		return w.truncate(n, "recursive type")
	case n.depth >= w.cfg.MaxDepth:
		return w.truncate(n, "max depth")
	}

	w.ancestry[id]++
	defer func() { w.ancestry[id]-- }()

	switch kind {
	case apis.Record:
		members := n.typ.Members()
		n.children = make([]*Node, 0, len(members))
		for i := range members {
			m := members[i]
			t, err := descriptor.Resolve(m.Type, n.typ)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", n.Path(), m.Name, err)
			}
			child := &Node{typ: t, field: &m, owner: n.typ, parent: n, role: RoleField, depth: n.depth + 1}
			if err := w.expand(child); err != nil {
				return err
			}
			n.children = append(n.children, child)
		}

	case apis.Container, apis.Array:
		elem, err := w.template(n, n.typ.Elem(), RoleElem)
		if err != nil {
			return err
		}
		n.elem = elem

	case apis.Map:
		key, err := w.template(n, n.typ.Key(), RoleKey)
		if err != nil {
			return err
		}
		elem, err := w.template(n, n.typ.Elem(), RoleElem)
		if err != nil {
			return err
		}
		n.key, n.elem = key, elem
	}
	return nil
}

// template builds the single structural node shared by all elements (or
// keys) of a container, array or map.
func (w *walk) template(parent *Node, ref apis.TypeRef, role Role) (*Node, error) {
	t, err := descriptor.Resolve(ref, parent.typ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", parent.Path(), err)
	}
	child := &Node{typ: t, parent: parent, role: role, depth: parent.depth + 1}
	if err := w.expand(child); err != nil {
		return nil, err
	}
	return child, nil
}

func (w *walk) truncate(n *Node, reason string) error {
	n.terminal = true
	w.truncated++
	ctxlog.FromContext(w.ctx).Debug("Stopped node expansion.",
		"path", n.Path(),
		"type", n.typ.Name(),
		"depth", n.depth,
		"reason", reason,
	)
	return nil
}
