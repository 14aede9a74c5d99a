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

// Package schema loads declared types from HCL files.
//
// A schema file declares record types whose fields use type expressions:
//
//	type "Box" {
//	  params = ["T"]
//	  field "value" { type = T }
//	  field "items" { type = list(T) }
//	  field "index" { type = map(string, int) }
//	  field "pair"  { type = array(string, 2) }
//	  field "next"  { type = Box(T) }
//	}
//
// Builtin leaves are string, int, int64, uint, float, number, bool and time.
package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/internal/ctxlog"
)

var (
	// ErrUnknownType is returned for type names that are neither builtin
	// nor declared.
	ErrUnknownType = errors.New("fabx(schema): unknown type")
	// ErrDuplicateType is returned when a type is declared twice or
	// shadows a builtin.
	ErrDuplicateType = errors.New("fabx(schema): duplicate type")
)

// fileRoot is the decoded shape of a schema file.
type fileRoot struct {
	Types []*typeBlock `hcl:"type,block"`
}

type typeBlock struct {
	Name   string        `hcl:"name,label"`
	Params []string      `hcl:"params,optional"`
	Fields []*fieldBlock `hcl:"field,block"`
}

type fieldBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// Schema is a set of declared types. It is immutable once loaded.
type Schema struct {
	types map[string]*descriptor.Declared
}

// Load parses the schema file at path.
func Load(ctx context.Context, path string) (*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fabx(schema): read %s: %w", path, err)
	}
	return Parse(ctx, src, path)
}

// Parse parses schema source. filename is used in diagnostics only.
func Parse(ctx context.Context, src []byte, filename string) (*Schema, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("fabx(schema): parse %s: %w", filename, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("fabx(schema): decode %s: %w", filename, diags)
	}

	s := &Schema{types: make(map[string]*descriptor.Declared, len(root.Types))}

	// Declare every type first so fields may reference types declared later.
	for _, tb := range root.Types {
		if _, ok := builtins[tb.Name]; ok || constructors[tb.Name] {
			return nil, fmt.Errorf("%w: %s shadows a builtin", ErrDuplicateType, tb.Name)
		}
		if _, ok := s.types[tb.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, tb.Name)
		}
		s.types[tb.Name] = descriptor.Declare(tb.Name, apis.Record, tb.Params...)
	}

	for _, tb := range root.Types {
		members := make([]apis.Member, 0, len(tb.Fields))
		for _, fb := range tb.Fields {
			ref, err := s.typeRef(ctx, fb.Type, tb.Params)
			if err != nil {
				return nil, fmt.Errorf("fabx(schema): %s.%s: %w", tb.Name, fb.Name, err)
			}
			members = append(members, descriptor.Field(fb.Name, ref))
		}
		s.types[tb.Name].SetMembers(members...)
		logger.Debug("Declared schema type.", "type", tb.Name, "params", len(tb.Params), "fields", len(members))
	}

	logger.Debug("Schema loaded.", "file", filename, "types", len(s.types))
	return s, nil
}

// Lookup returns the declared or builtin type called name.
func (s *Schema) Lookup(name string) (apis.Descriptor, bool) {
	if d, ok := s.types[name]; ok {
		return d, true
	}
	if d, ok := builtins[name]; ok {
		return d, true
	}
	return nil, false
}

// Names returns the declared type names in lexical order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type parses a closed type expression such as "Box(int)" or
// "list(string)" and returns the descriptor it denotes.
func (s *Schema) Type(ctx context.Context, expr string) (apis.Descriptor, error) {
	e, diags := hclsyntax.ParseExpression([]byte(expr), "type", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("fabx(schema): type %q: %w", expr, diags)
	}
	ref, err := s.typeRef(ctx, e, nil)
	if err != nil {
		return nil, fmt.Errorf("fabx(schema): type %q: %w", expr, err)
	}
	// A bare generic name stays unbound so that callers can bind it.
	if len(ref.Args) == 0 && ref.Type != nil {
		return ref.Type, nil
	}
	return descriptor.Resolve(ref, nil)
}
