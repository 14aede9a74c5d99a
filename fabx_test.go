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
	"math/rand/v2"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/builder"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/selector"
)

// resetWithBuilder installs a clean snapshot built by b and restores the
// default snapshot when the test ends.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, b)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, nil, nil, nil, builder.New())
	})
}

func testConfig(maxDepth int) apis.Config {
	return config.NewConfig(config.WithMaxDepth(maxDepth), config.WithSeed(7))
}

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[string]apis.Entry
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[string]apis.Entry)}
}

func (m *mockRegistry) Register(d apis.Descriptor, g apis.Generator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[d.ID()] = apis.Entry{Type: d, Generator: g}
	return nil
}

func (m *mockRegistry) Lookup(d apis.Descriptor) (apis.Generator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[d.ID()]
	return e.Generator, ok
}

func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]apis.Entry, 0, len(m.data))
	for _, e := range m.data {
		out = append(out, e)
	}
	return out
}

func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset()     { m.mu.Lock(); m.data = make(map[string]apis.Entry); m.mu.Unlock() }

// mockResolver produces its id for string leaves and declines everything else.
type mockResolver struct {
	id    string
	mu    sync.Mutex
	calls int
}

func (r *mockResolver) GeneratorFor(n apis.Node, _ *rand.Rand, cfg apis.Config) (apis.Producer, bool) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if n.Type().Kind() != apis.Leaf || n.Type().GoType().Kind() != reflect.String {
		return nil, false
	}
	v := r.id + ":" + strconv.Itoa(cfg.MaxDepth)
	return func() (any, error) { return v, nil }, true
}

type mockBuilder struct {
	mu            sync.Mutex
	lastCfg       apis.Config
	lastExt       any
	lastPrevRegID string
	lastPrevResID string
	regCounter    int
	resCounter    int
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, prev apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockResolver); ok {
		b.lastPrevResID = mr.id
	}
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter)}
}

func (b *mockBuilder) counters() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter
}

type Profile struct {
	Handle string
	Tags   []string
	Score  int
}

func TestCreateOf_DefaultSnapshot(t *testing.T) {
	cfg := config.NewConfig(config.WithSeed(11), config.WithSize(3, 3))
	resetWithBuilder(t, builder.New(), cfg, nil)

	p, err := CreateOf[Profile](context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Handle)
	assert.Len(t, p.Tags, 3)
	assert.NotZero(t, p.Score)

	again, err := CreateOf[Profile](context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestCreate_WithRules(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.NewConfig(config.WithSeed(3)), nil)

	rules := selector.NewMap[apis.Directive]()
	rules.Put(selector.FieldOf[Profile]("Handle"), apis.Set("neo"))
	rules.Put(selector.FieldOf[Profile]("Tags"), apis.Size(1, 1))

	v, err := Create(context.Background(), descriptor.For[Profile](), rules)
	require.NoError(t, err)
	p := v.(Profile)
	assert.Equal(t, "neo", p.Handle)
	assert.Len(t, p.Tags, 1)
}

func TestPopulate_UsesConfiguredAction(t *testing.T) {
	cfg := config.NewConfig(config.WithSeed(5), config.WithAction(apis.ApplySelectors))
	resetWithBuilder(t, builder.New(), cfg, nil)

	rules := selector.NewMap[apis.Directive]()
	rules.Put(selector.FieldOf[Profile]("Handle"), apis.Set("trinity"))

	p := Profile{Tags: []string{"a"}}
	require.NoError(t, Populate(context.Background(), &p, rules))
	assert.Equal(t, "trinity", p.Handle)
	assert.Equal(t, []string{"a"}, p.Tags)
	assert.Zero(t, p.Score)
}

type Celsius float64

func TestRegister_ReachesEngine(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.NewConfig(config.WithSeed(1)), nil)

	require.NoError(t, Register[Celsius](func(*rand.Rand) (any, error) { return Celsius(21.5), nil }))
	assert.Equal(t, 1, Registry().Count())

	// a rebuild migrates registrations into the new registry
	Configure(config.WithSeed(2))
	got, err := CreateOf[Celsius](context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Celsius(21.5), got)
	assert.Equal(t, uint64(2), Config().Seed)
}

func TestRegisterGenerator_Conflict(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	d := descriptor.For[Celsius]()
	gen := func(*rand.Rand) (any, error) { return Celsius(0), nil }
	require.NoError(t, RegisterGenerator(d, gen))
	assert.Error(t, RegisterGenerator(d, gen))
}

func TestSetConfig_RebuildsUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	reg1, res1, eng1 := Registry(), Resolver(), Engine()
	SetConfig(testConfig(4))

	assert.NotSame(t, reg1, Registry())
	assert.NotSame(t, res1, Resolver())
	assert.NotSame(t, eng1, Engine())
	assert.Equal(t, 4, Engine().Config().MaxDepth)

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, 4, b.lastCfg.MaxDepth)
	assert.Equal(t, "reg#1", b.lastPrevRegID)
	assert.Equal(t, "res#1", b.lastPrevResID)
}

func TestSetRegistry_PinsRegistryAndRebuildsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	custom := newMockRegistry("custom")
	SetRegistry(custom)
	assert.True(t, IsRegistryPinned())

	before := Resolver()
	SetConfig(testConfig(5))

	assert.Same(t, custom, Registry())
	assert.NotSame(t, before, Resolver())
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	custom := &mockResolver{id: "custom"}
	SetResolver(custom)
	assert.True(t, IsResolverPinned())

	regBefore := Registry()
	SetConfig(testConfig(3))

	assert.Same(t, custom, Resolver())
	assert.NotSame(t, regBefore, Registry())

	s, err := CreateOf[string](context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "custom:3", s)
}

func TestSetBuilder_RebuildsOnlyUnpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, testConfig(8), nil)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore, resBefore := Registry(), Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	assert.Same(t, b, Builder())
	assert.NotSame(t, regBefore, Registry())
	assert.Same(t, resBefore, Resolver())
	regs, ress := b.counters()
	assert.Equal(t, 1, regs)
	assert.Zero(t, ress)
}

func TestSetExt_PassesValueAndHonorsPins(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	assert.Equal(t, extCfg{X: 42}, got)
	ec, ok := ExtAs[extCfg]()
	require.True(t, ok)
	assert.Equal(t, 42, ec.X)

	PinRegistry()
	PinResolver()
	regs, ress := b.counters()
	SetExt(extCfg{X: 7})
	regs2, ress2 := b.counters()
	assert.Equal(t, regs, regs2)
	assert.Equal(t, ress, ress2)
}

func TestUnpin_AllowsRebuild(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	PinRegistry()
	PinResolver()
	reg1, res1 := Registry(), Resolver()
	SetConfig(testConfig(4))
	assert.Same(t, reg1, Registry())
	assert.Same(t, res1, Resolver())

	UnpinRegistry()
	UnpinResolver()
	assert.False(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())
	SetConfig(testConfig(6))
	assert.NotSame(t, reg1, Registry())
	assert.NotSame(t, res1, Resolver())
}

func TestSetAll_PinsExplicitLayers(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	reg := newMockRegistry("explicit")
	cfg := testConfig(2)
	SetAll(&cfg, "ext", reg, nil, nil)

	assert.Same(t, reg, Registry())
	assert.True(t, IsRegistryPinned())
	assert.False(t, IsResolverPinned())
	assert.Equal(t, 2, Config().MaxDepth)
	ext, ok := ExtAs[string]()
	require.True(t, ok)
	assert.Equal(t, "ext", ext)
}

type nilBuilder struct{}

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry { return nil }
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver, any) apis.Resolver {
	return nil
}

func TestSetBuilder_NilLayersPanic(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)
	before := Builder()

	assert.PanicsWithValue(t, ErrNilRegistry, func() { SetBuilder(nilBuilder{}) })
	assert.Same(t, before, Builder())
}

func TestCreateOf_ConcurrentWithSetConfig(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, testConfig(8), nil)

	var wg sync.WaitGroup
	readers := runtime.GOMAXPROCS(0) * 4
	errs := make(chan error, readers)
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s, err := CreateOf[string](context.Background(), nil)
				if err != nil {
					errs <- err
					return
				}
				if s == "" {
					errs <- assert.AnError
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			SetConfig(testConfig(4 + i%5))
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
	<-done
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
