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

// Package engine populates values by walking node trees.
//
// For every node the engine resolves the directive of the rule set, asks
// the filter whether the current value is kept, and otherwise produces a
// value through the directive or the generator chain, recursing into
// records, containers, arrays and maps.
package engine

import (
	"context"
	"math/rand/v2"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/builder"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/filter"
	"dirpx.dev/fabx/internal/ctxlog"
	"dirpx.dev/fabx/node"
	"dirpx.dev/fabx/selector"
)

const tracerName = "dirpx.dev/fabx/engine"

// Engine creates and populates values. It holds no per-call state and is
// safe for concurrent use; every call builds its own node tree and random
// source.
type Engine struct {
	cfg   apis.Config
	res   apis.Resolver
	nodes *node.Builder
}

// New returns an Engine for cfg. A nil res selects the default generator
// chain over an empty registry.
func New(cfg apis.Config, res apis.Resolver) *Engine {
	cfg = config.Normalize(cfg)
	if res == nil {
		b := builder.New()
		res = b.BuildResolver(cfg, b.BuildRegistry(cfg, nil, nil), nil, nil)
	}
	return &Engine{cfg: cfg, res: res, nodes: node.NewBuilder(cfg)}
}

// Config returns the normalized configuration of e.
func (e *Engine) Config() apis.Config { return e.cfg }

// Create builds a new value of type d. bindings supply the type arguments
// of an unbound generic d. rules may be nil.
//
// The result has the storage type of d (d.GoType()); it is nil only when
// the root itself is ignored or nulled.
func (e *Engine) Create(ctx context.Context, d apis.Descriptor, rules *selector.Map[apis.Directive], action apis.Action, bindings ...apis.Descriptor) (any, error) {
	ctx, span := e.start(ctx, "fabx.create", d, action)
	defer span.End()

	root, err := e.nodes.BuildRoot(ctx, d, bindings...)
	if err != nil {
		return nil, fail(span, err)
	}
	v, err := e.run(ctx, span, root, reflect.Value{}, rules, action, false)
	if err != nil || !v.IsValid() {
		return nil, err
	}
	return v.Interface(), nil
}

// Populate fills the value target points to in place, honoring the
// current values under action. Existing records, slices and maps reachable
// from target are reused. When the call fails every write it made is
// undone, so target is left as it was.
func (e *Engine) Populate(ctx context.Context, target any, rules *selector.Map[apis.Directive], action apis.Action) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	d := descriptor.Of(rv.Type().Elem(), e.cfg)

	ctx, span := e.start(ctx, "fabx.populate", d, action)
	defer span.End()

	root, err := e.nodes.BuildRoot(ctx, d)
	if err != nil {
		return fail(span, err)
	}
	v, err := e.run(ctx, span, root, rv.Elem(), rules, action, true)
	if err != nil {
		return err
	}
	if v.IsValid() {
		rv.Elem().Set(v)
	}
	return nil
}

// CreateOf is Create for the Go type T.
func CreateOf[T any](ctx context.Context, e *Engine, rules *selector.Map[apis.Directive], action apis.Action) (T, error) {
	var zero T
	v, err := e.Create(ctx, descriptor.Of(reflect.TypeFor[T](), e.cfg), rules, action)
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// run fills root from cur. With journal set, writes into existing values
// are recorded and undone on failure.
func (e *Engine) run(ctx context.Context, span trace.Span, root *node.Node, cur reflect.Value, rules *selector.Map[apis.Directive], action apis.Action, journal bool) (reflect.Value, error) {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	p := &population{
		cfg:     e.cfg,
		res:     e.res,
		rules:   rules,
		filter:  filter.New(rules),
		action:  action,
		rnd:     rand.New(rand.NewPCG(seed, seed)),
		journal: journal,
	}
	span.SetAttributes(attribute.Int("fabx.nodes", root.Count()))

	v, err := p.fill(root, cur)
	if err != nil {
		p.rollback()
		return reflect.Value{}, fail(span, err)
	}
	ctxlog.FromContext(ctx).Debug("Populated value.",
		"type", root.Type().Name(),
		"action", action.String(),
		"nodes", root.Count(),
		"generated", p.generated,
		"seed", seed,
	)
	return v, nil
}

func (e *Engine) start(ctx context.Context, name string, d apis.Descriptor, action apis.Action) (context.Context, trace.Span) {
	typ := "<nil>"
	if d != nil {
		typ = d.Name()
	}
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(
		attribute.String("fabx.type", typ),
		attribute.String("fabx.action", action.String()),
	))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
