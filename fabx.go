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

package fabx

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/builder"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/engine"
	"dirpx.dev/fabx/selector"
)

func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil, nil)
	st.Store(newState(cfg, nil, b, reg, b.BuildResolver(cfg, reg, nil, nil), false, false))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("fabx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("fabx: builder returned nil resolver")
)

// Create builds a value of type d with the process-wide engine, using the
// configured default action. rules may be nil.
func Create(ctx context.Context, d apis.Descriptor, rules *selector.Map[apis.Directive], bindings ...apis.Descriptor) (any, error) {
	s := st.Load()
	return s.eng.Create(ctx, d, rules, s.cfg.Action, bindings...)
}

// CreateOf builds a value of the Go type T with the process-wide engine.
func CreateOf[T any](ctx context.Context, rules *selector.Map[apis.Directive]) (T, error) {
	s := st.Load()
	return engine.CreateOf[T](ctx, s.eng, rules, s.cfg.Action)
}

// Populate fills the value target points to, honoring its current values
// under the configured default action.
func Populate(ctx context.Context, target any, rules *selector.Map[apis.Directive]) error {
	s := st.Load()
	return s.eng.Populate(ctx, target, rules, s.cfg.Action)
}

// Engine returns the engine of the current snapshot.
func Engine() *engine.Engine {
	return st.Load().eng
}

// RegisterGenerator adds a generator for d to the process-wide registry.
func RegisterGenerator(d apis.Descriptor, g apis.Generator) error {
	return st.Load().reg.Register(d, g)
}

// Register adds a generator for the Go type T to the process-wide registry.
func Register[T any](g apis.Generator) error {
	s := st.Load()
	return s.reg.Register(descriptor.Of(reflect.TypeFor[T](), s.cfg), g)
}

// Configure applies opts on top of the current configuration and rebuilds
// every layer that is not pinned.
func Configure(opts ...config.Option) {
	cfg := Config()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	SetConfig(config.Normalize(cfg))
}

// SetAll replaces the whole snapshot. Nil cfg and bld keep the current
// values; nil reg and res are rebuilt and unpinned, non-nil ones are pinned.
// ext is always replaced.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	publish(func(old *state) *state {
		next := *old
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		next.ext = ext
		next.preg, next.pres = reg != nil, res != nil
		if reg == nil {
			reg = next.bld.BuildRegistry(next.cfg, old.reg, ext)
		}
		if res == nil {
			res = next.bld.BuildResolver(next.cfg, reg, old.res, ext)
		}
		next.reg, next.res = reg, res
		return &next
	})
}

// Config returns the process-wide configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the configuration and rebuilds unpinned layers.
func SetConfig(cfg apis.Config) {
	publish(func(old *state) *state {
		next := *old
		next.cfg = cfg
		return next.rebuild(old)
	})
}

// Registry returns the process-wide generator registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg and pins it. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	publish(func(old *state) *state {
		next := *old
		next.reg, next.preg = reg, true
		if !next.pres {
			next.res = next.bld.BuildResolver(next.cfg, reg, old.res, next.ext)
		}
		return &next
	})
}

// Resolver returns the process-wide generator resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res and pins it. A nil res is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	publish(func(old *state) *state {
		next := *old
		next.res, next.pres = res, true
		return &next
	})
}

// Builder returns the process-wide builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder installs b and rebuilds unpinned layers with it. A nil b is
// ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	publish(func(old *state) *state {
		next := *old
		next.bld = b
		return next.rebuild(old)
	})
}

// SetExt replaces the extension value handed to the builder and rebuilds
// unpinned layers.
func SetExt[T any](ext T) {
	publish(func(old *state) *state {
		next := *old
		next.ext = ext
		return next.rebuild(old)
	})
}

// ExtAs returns the extension value as T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the registry survives rebuilds.
func IsRegistryPinned() bool { return st.Load().preg }

// PinRegistry keeps the current registry across rebuilds.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets rebuilds replace the registry again.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the resolver survives rebuilds.
func IsResolverPinned() bool { return st.Load().pres }

// PinResolver keeps the current resolver across rebuilds.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets rebuilds replace the resolver again.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(fn func(*state)) {
	publish(func(old *state) *state {
		next := *old
		fn(&next)
		return &next
	})
}

// buildMu serializes writers so a partially built snapshot is never
// published.
var buildMu sync.Mutex

var st atomic.Pointer[state]

// state is an immutable snapshot. Writers derive a copy and swap it in.
type state struct {
	cfg apis.Config
	ext any
	bld apis.Builder
	reg apis.Registry
	res apis.Resolver
	eng *engine.Engine
	// preg and pres pin the registry and resolver against rebuilds.
	preg, pres bool
}

func newState(cfg apis.Config, ext any, bld apis.Builder, reg apis.Registry, res apis.Resolver, preg, pres bool) *state {
	s := &state{cfg: cfg, ext: ext, bld: bld, reg: reg, res: res, preg: preg, pres: pres}
	s.eng = engine.New(cfg, res)
	return s
}

// rebuild regenerates the unpinned layers of s from old.
func (s *state) rebuild(old *state) *state {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, old.reg, s.ext)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, old.res, s.ext)
	}
	return s
}

// publish derives the next snapshot under buildMu, validates it and
// stores it. The engine is always rebuilt for the new config and resolver.
func publish(derive func(old *state) *state) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := derive(st.Load())
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	st.Store(newState(next.cfg, next.ext, next.bld, next.reg, next.res, next.preg, next.pres))
}
