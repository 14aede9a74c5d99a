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

package selector_test

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/node"
	"dirpx.dev/fabx/selector"
)

// Local test types.
type Phone struct {
	CountryCode string
	Number      string
}

type Address struct {
	Street       string
	PhoneNumbers []Phone
}

type Pet struct {
	Name string
}

type Person struct {
	Name    string
	Age     int
	Address Address
	Pets    []Pet
}

type Inner struct{ Value string }
type Middle struct{ Inner Inner }
type Outer struct{ Middles []Middle }

func build(t testing.TB, d apis.Descriptor, bindings ...apis.Descriptor) *node.Node {
	t.Helper()
	root, err := node.NewBuilder(config.DefaultConfig()).BuildRoot(context.Background(), d, bindings...)
	require.NoError(t, err)
	return root
}

func find(t testing.TB, root *node.Node, path string) *node.Node {
	t.Helper()
	var found *node.Node
	root.Walk(func(n *node.Node) bool {
		if n.Path() == path {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no node at %s", path)
	return found
}

type fixture struct {
	root        *node.Node
	personName  *node.Node
	phoneNumber *node.Node
	petName     *node.Node
}

func newFixture(t testing.TB) fixture {
	root := build(t, descriptor.For[Person]())
	return fixture{
		root:        root,
		personName:  find(t, root, "selector_test.Person.Name"),
		phoneNumber: find(t, root, "selector_test.Person.Address.PhoneNumbers[].Number"),
		petName:     find(t, root, "selector_test.Person.Pets[].Name"),
	}
}

var (
	person  = descriptor.For[Person]()
	address = descriptor.For[Address]()
	phone   = descriptor.For[Phone]()
	pet     = descriptor.For[Pet]()
	phones  = descriptor.For[[]Phone]()
	str     = descriptor.For[string]()
)

func TestResolve_Precedence(t *testing.T) {
	f := newFixture(t)
	m := selector.NewMap[string]()

	m.Put(selector.FieldOf[Person]("Name"), "foo")
	m.Put(selector.FieldOf[Person]("Name"), "bar")

	got, ok := m.Resolve(f.personName)
	require.True(t, ok)
	assert.Equal(t, "bar", got)
}

func TestResolve_PrecedenceWithScope(t *testing.T) {
	f := newFixture(t)
	m := selector.NewMap[string]()

	m.Put(selector.FieldOf[Person]("Name").Within(selector.ScopeOf(str)), "foo")
	m.Put(selector.FieldOf[Person]("Name").Within(selector.ScopeOf(str)), "bar")

	got, ok := m.Resolve(f.personName)
	require.True(t, ok)
	assert.Equal(t, "bar", got)
}

func TestResolve_LastWriteWinsOverSpecificity(t *testing.T) {
	f := newFixture(t)
	specific := selector.FieldOf[Phone]("Number").Within(
		selector.ScopeOf(person),
		selector.FieldScope(person, "Address"),
	)

	m := selector.NewMap[string]()
	m.Put(specific, "specific")
	m.Put(selector.AllStrings(), "broad")
	got, _ := m.Resolve(f.phoneNumber)
	assert.Equal(t, "broad", got)

	m = selector.NewMap[string]()
	m.Put(selector.AllStrings(), "broad")
	m.Put(specific, "specific")
	got, _ = m.Resolve(f.phoneNumber)
	assert.Equal(t, "specific", got)
}

func TestResolve_PhoneNumberScopeMatches(t *testing.T) {
	f := newFixture(t)
	number := selector.FieldOf[Phone]("Number")

	cases := map[string]selector.Selector{
		"person":                number.Within(selector.ScopeOf(person)),
		"own type":              number.Within(selector.ScopeOf(str)),
		"person, address field": number.Within(selector.ScopeOf(person), selector.FieldScope(person, "Address")),
		"person, address":       number.Within(selector.ScopeOf(person), selector.ScopeOf(address)),
		"person, list":          number.Within(selector.ScopeOf(person), selector.ScopeOf(phones)),
		"full path": number.Within(
			selector.ScopeOf(person),
			selector.FieldScope(person, "Address"),
			selector.FieldScope(address, "PhoneNumbers"),
			selector.FieldScope(phone, "Number"),
		),
		"person, address, list": number.Within(selector.ScopeOf(person), selector.ScopeOf(address), selector.ScopeOf(phones)),
		"phone":                 number.Within(selector.ScopeOf(phone)),
		"address":               number.Within(selector.ScopeOf(address)),
		"list":                  number.Within(selector.ScopeOf(phones)),
		"own field":             number.Within(selector.FieldScope(phone, "Number")),
		"accumulated":           number.Within(selector.ScopeOf(person)).Within(selector.ScopeOf(phone)),
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			m := selector.NewMap[string]()
			m.Put(sel, "foo")
			got, ok := m.Resolve(f.phoneNumber)
			require.True(t, ok, sel.String())
			assert.Equal(t, "foo", got)
		})
	}
}

func TestResolve_PhoneNumberScopeNonMatches(t *testing.T) {
	f := newFixture(t)
	number := selector.FieldOf[Phone]("Number")

	cases := map[string]selector.Selector{
		"pet":            number.Within(selector.ScopeOf(pet)),
		"sibling field":  number.Within(selector.FieldScope(phone, "CountryCode")),
		"any":            number.Within(selector.ScopeOf(descriptor.For[any]())),
		"reversed order": number.Within(selector.ScopeOf(address), selector.ScopeOf(person)),
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			m := selector.NewMap[string]()
			m.Put(sel, "foo")
			_, ok := m.Resolve(f.phoneNumber)
			assert.False(t, ok, sel.String())
		})
	}
}

func TestResolve_AllStringsWithinPet(t *testing.T) {
	f := newFixture(t)
	m := selector.NewMap[string]()
	m.Put(selector.AllStrings().Within(selector.ScopeOf(pet)), "foo")

	got, ok := m.Resolve(f.petName)
	require.True(t, ok)
	assert.Equal(t, "foo", got)

	_, ok = m.Resolve(f.personName)
	assert.False(t, ok)
	_, ok = m.Resolve(f.phoneNumber)
	assert.False(t, ok)

	_, ok = m.Resolve(build(t, str))
	assert.False(t, ok)
}

func TestResolve_SkipsIntermediateContainer(t *testing.T) {
	root := build(t, descriptor.For[Outer]())
	value := find(t, root, "selector_test.Outer.Middles[].Inner.Value")

	m := selector.NewMap[string]()
	m.Put(selector.FieldOf[Inner]("Value").Within(
		selector.ScopeOf(descriptor.For[Outer]()),
		selector.ScopeOf(descriptor.For[Inner]()),
	), "nested")

	got, ok := m.Resolve(value)
	require.True(t, ok)
	assert.Equal(t, "nested", got)
}

func TestResolve_TypeKindShapeRoot(t *testing.T) {
	f := newFixture(t)
	m := selector.NewMap[string]()
	m.Put(selector.AllOf[Phone](), "phone")
	m.Put(selector.Shape(apis.Container), "container")
	m.Put(selector.AllInts(), "int")
	m.Put(selector.Root(), "root")

	elem := f.phoneNumber.ParentNode()
	got, _ := m.Resolve(elem)
	assert.Equal(t, "phone", got)

	got, _ = m.Resolve(elem.ParentNode())
	assert.Equal(t, "container", got)

	got, _ = m.Resolve(find(t, f.root, "selector_test.Person.Age"))
	assert.Equal(t, "int", got)

	got, _ = m.Resolve(f.root)
	assert.Equal(t, "root", got)

	_, ok := m.Resolve(f.personName)
	assert.False(t, ok)
}

func TestResolve_GenericTargets(t *testing.T) {
	pair := descriptor.Record("Pair", []string{"L", "R"},
		descriptor.Field("left", apis.ParamRef(0)),
		descriptor.Field("right", apis.ParamRef(1)),
	)
	root := build(t, pair, str, descriptor.For[int]())
	left := find(t, root, "Pair[string,int].left")

	intInt, err := pair.Instantiate(descriptor.For[int](), descriptor.For[int]())
	require.NoError(t, err)

	m := selector.NewMap[string]()
	m.Put(selector.Field(pair, "left"), "any pair")
	got, ok := m.Resolve(left)
	require.True(t, ok)
	assert.Equal(t, "any pair", got)

	m.Put(selector.Field(intInt, "left"), "int pair")
	got, _ = m.Resolve(left)
	assert.Equal(t, "any pair", got, "other instantiations do not match")

	m.Put(selector.All(pair), "type")
	got, _ = m.Resolve(root)
	assert.Equal(t, "type", got)
}

func TestResolve_EmptyAndNil(t *testing.T) {
	f := newFixture(t)

	var nilMap *selector.Map[string]
	_, ok := nilMap.Resolve(f.root)
	assert.False(t, ok)
	assert.Zero(t, nilMap.Len())

	var zero selector.Map[string]
	zero.Put(selector.Root(), "x")
	got, ok := zero.Resolve(f.root)
	require.True(t, ok)
	assert.Equal(t, "x", got)
	assert.Equal(t, 1, zero.Len())
	assert.Len(t, zero.Selectors(), 1)
}

func TestSelector_String(t *testing.T) {
	s := selector.FieldOf[Phone]("Number").Within(selector.ScopeOf(person))
	assert.Equal(t, "field(selector_test.Phone, Number) within [all(selector_test.Person)]", s.String())
	assert.Equal(t, "kind(string)", selector.AllStrings().String())
	assert.Equal(t, "root()", selector.Root().String())
}

func TestSelector_WithinDoesNotAlias(t *testing.T) {
	base := selector.FieldOf[Phone]("Number").Within(selector.ScopeOf(person))
	a := base.Within(selector.ScopeOf(address))
	b := base.Within(selector.ScopeOf(pet))

	assert.Len(t, base.Scopes(), 1)
	assert.Len(t, a.Scopes(), 2)
	assert.Len(t, b.Scopes(), 2)
	assert.Equal(t, "all(selector_test.Address)", a.Scopes()[1].String())
}

// Concurrent readers of a populated map must observe identical results.
func TestResolve_ConcurrentReaders(t *testing.T) {
	f := newFixture(t)
	m := selector.NewMap[string]()
	m.Put(selector.AllStrings(), "s")
	m.Put(selector.FieldOf[Phone]("Number"), "n")

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if got, _ := m.Resolve(f.phoneNumber); got != "n" {
					errCh <- got
					return
				}
				if got, _ := m.Resolve(f.petName); got != "s" {
					errCh <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%q", e)
	}
}
