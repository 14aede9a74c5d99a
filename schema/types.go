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

package schema

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/internal/ctxlog"
)

// builtins are the leaf type keywords.
var builtins = map[string]apis.Descriptor{
	"string": descriptor.For[string](),
	"int":    descriptor.For[int](),
	"int64":  descriptor.For[int64](),
	"uint":   descriptor.For[uint](),
	"float":  descriptor.For[float64](),
	"number": descriptor.For[float64](),
	"bool":   descriptor.For[bool](),
	"time":   descriptor.For[time.Time](),
}

// constructors are the reserved type constructor names.
var constructors = map[string]bool{"list": true, "map": true, "array": true}

var (
	listDecl = descriptor.List("list", []string{"E"}, apis.ParamRef(0))
	mapDecl  = descriptor.MapOf("map", []string{"K", "V"}, apis.ParamRef(0), apis.ParamRef(1))
)

// typeRef converts a type expression into a reference. params are the
// type parameters in scope.
func (s *Schema) typeRef(ctx context.Context, expr hcl.Expression, params []string) (apis.TypeRef, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return apis.TypeRef{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name := v.Traversal.RootName()
		for i, p := range params {
			if p == name {
				return apis.ParamRef(i), nil
			}
		}
		if d, ok := s.Lookup(name); ok {
			return apis.Ref(d), nil
		}
		return apis.TypeRef{}, fmt.Errorf("%w: %q", ErrUnknownType, name)

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type constructor.", "call", v.Name, "args", len(v.Args))
		switch v.Name {
		case "list":
			return s.apply(ctx, listDecl, v.Args, params)
		case "map":
			return s.apply(ctx, mapDecl, v.Args, params)
		case "array":
			if len(v.Args) != 2 {
				return apis.TypeRef{}, fmt.Errorf("array() requires an element type and a length, got %d arguments", len(v.Args))
			}
			n, err := arrayLen(v.Args[1])
			if err != nil {
				return apis.TypeRef{}, err
			}
			return s.apply(ctx, arrayDecl(n), v.Args[:1], params)
		}
		d, ok := s.types[v.Name]
		if !ok {
			return apis.TypeRef{}, fmt.Errorf("%w: %q", ErrUnknownType, v.Name)
		}
		return s.apply(ctx, d, v.Args, params)

	default:
		return apis.TypeRef{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// apply builds the generic application of d to the type expressions args.
func (s *Schema) apply(ctx context.Context, d *descriptor.Declared, args []hclsyntax.Expression, params []string) (apis.TypeRef, error) {
	if want := len(d.TypeParams()); len(args) != want {
		return apis.TypeRef{}, &descriptor.UnresolvedGenericsError{Type: d.Origin(), Params: d.TypeParams(), Got: len(args)}
	}
	refs := make([]apis.TypeRef, len(args))
	for i, a := range args {
		r, err := s.typeRef(ctx, a, params)
		if err != nil {
			return apis.TypeRef{}, err
		}
		refs[i] = r
	}
	return apis.Ref(d, refs...), nil
}

// arrayDecls holds one generic array declaration per length.
var arrayDecls sync.Map // key: int, val: *descriptor.Declared

// arrayDecl returns the generic array declaration of length n.
func arrayDecl(n int) *descriptor.Declared {
	if d, ok := arrayDecls.Load(n); ok {
		return d.(*descriptor.Declared)
	}
	d, _ := arrayDecls.LoadOrStore(n, descriptor.ArrayOf(fmt.Sprintf("array%d", n), []string{"E"}, apis.ParamRef(0), n))
	return d.(*descriptor.Declared)
}

// arrayLen evaluates a constant, non-negative array length.
func arrayLen(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("array length: %w", diags)
	}
	if !val.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("array length must be a number, got %s", val.Type().FriendlyName())
	}
	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, fmt.Errorf("array length: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("array length must not be negative, got %d", n)
	}
	return n, nil
}
