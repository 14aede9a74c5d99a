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
	"dirpx.dev/fabx/apis"
)

const (
	// DefaultMaxDepth represents the default for MaxDepth.
	DefaultMaxDepth = 8
	// DefaultRecursionLimit represents the default for RecursionLimit.
	// A value of 1 stops expansion at the first reappearance of a type.
	DefaultRecursionLimit = 1
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMinSize and DefaultMaxSize bound container element counts.
	DefaultMinSize = 2
	DefaultMaxSize = 6
	// DefaultMinStringLength and DefaultMaxStringLength bound generated strings.
	DefaultMinStringLength = 3
	DefaultMaxStringLength = 10
	// DefaultAction is the population action used when none is configured.
	DefaultAction = apis.NullsAndDefaultPrimitives
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxDepth:        DefaultMaxDepth,
		RecursionLimit:  DefaultRecursionLimit,
		MaxUnwrap:       DefaultMaxUnwrap,
		MinSize:         DefaultMinSize,
		MaxSize:         DefaultMaxSize,
		MinStringLength: DefaultMinStringLength,
		MaxStringLength: DefaultMaxStringLength,
		Action:          DefaultAction,
	}
}

// Normalize replaces out-of-range values in cfg with defaults and orders
// the size bounds.
func Normalize(cfg apis.Config) apis.Config {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = DefaultRecursionLimit
	}
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MinSize < 0 {
		cfg.MinSize = 0
	}
	if cfg.MaxSize < cfg.MinSize {
		cfg.MaxSize = cfg.MinSize
	}
	if cfg.MinStringLength < 0 {
		cfg.MinStringLength = 0
	}
	if cfg.MaxStringLength < cfg.MinStringLength {
		cfg.MaxStringLength = cfg.MinStringLength
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithRecursionLimit sets the RecursionLimit option.
func WithRecursionLimit(limit int) Option {
	return func(c *apis.Config) {
		c.RecursionLimit = limit
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithSize sets the default container element count range.
func WithSize(min, max int) Option {
	return func(c *apis.Config) {
		c.MinSize = min
		c.MaxSize = max
	}
}

// WithStringLength sets the default generated string length range.
func WithStringLength(min, max int) Option {
	return func(c *apis.Config) {
		c.MinStringLength = min
		c.MaxStringLength = max
	}
}

// WithSeed sets the Seed option.
func WithSeed(seed uint64) Option {
	return func(c *apis.Config) {
		c.Seed = seed
	}
}

// WithAction sets the default population action.
func WithAction(a apis.Action) Option {
	return func(c *apis.Config) {
		c.Action = a
	}
}
