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

package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"dirpx.dev/fabx/apis"
)

// fileRoot mirrors the attributes and blocks accepted in a config file.
// Every attribute is optional; absent values keep their defaults. Unknown
// attributes are rejected by gohcl.
type fileRoot struct {
	MaxDepth       *int             `hcl:"max_depth,optional"`
	RecursionLimit *int             `hcl:"recursion_limit,optional"`
	MaxUnwrap      *int             `hcl:"max_unwrap,optional"`
	Seed           *uint64          `hcl:"seed,optional"`
	Action         *string          `hcl:"action,optional"`
	Collection     *collectionBlock `hcl:"collection,block"`
	Strings        *stringsBlock    `hcl:"strings,block"`
}

type collectionBlock struct {
	MinSize *int `hcl:"min_size,optional"`
	MaxSize *int `hcl:"max_size,optional"`
}

type stringsBlock struct {
	MinLength *int `hcl:"min_length,optional"`
	MaxLength *int `hcl:"max_length,optional"`
}

// LoadFile reads an HCL config file and returns the resulting Config.
// opts are applied after the file, so they override it.
func LoadFile(path string, opts ...Option) (apis.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("fabx(config): read %s: %w", path, err)
	}
	return Parse(src, path, opts...)
}

// Parse decodes HCL source into a Config. filename is used in diagnostics.
func Parse(src []byte, filename string, opts ...Option) (apis.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return apis.Config{}, fmt.Errorf("fabx(config): failed to parse %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return apis.Config{}, fmt.Errorf("fabx(config): failed to decode %s: %w", filename, diags)
	}
	fileOpts, err := root.options()
	if err != nil {
		return apis.Config{}, fmt.Errorf("fabx(config): %s: %w", filename, err)
	}
	return NewConfig(append(fileOpts, opts...)...), nil
}

// options translates the decoded file into functional options.
func (r *fileRoot) options() ([]Option, error) {
	var opts []Option
	if r.MaxDepth != nil {
		opts = append(opts, WithMaxDepth(*r.MaxDepth))
	}
	if r.RecursionLimit != nil {
		opts = append(opts, WithRecursionLimit(*r.RecursionLimit))
	}
	if r.MaxUnwrap != nil {
		opts = append(opts, WithMaxUnwrap(*r.MaxUnwrap))
	}
	if r.Seed != nil {
		opts = append(opts, WithSeed(*r.Seed))
	}
	if r.Action != nil {
		a, err := apis.ParseAction(*r.Action)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAction(a))
	}
	if c := r.Collection; c != nil {
		opts = append(opts, func(cfg *apis.Config) {
			if c.MinSize != nil {
				cfg.MinSize = *c.MinSize
			}
			if c.MaxSize != nil {
				cfg.MaxSize = *c.MaxSize
			}
		})
	}
	if s := r.Strings; s != nil {
		opts = append(opts, func(cfg *apis.Config) {
			if s.MinLength != nil {
				cfg.MinStringLength = *s.MinLength
			}
			if s.MaxLength != nil {
				cfg.MaxStringLength = *s.MaxLength
			}
		})
	}
	return opts, nil
}
