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

package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
	"dirpx.dev/fabx/descriptor"
	"dirpx.dev/fabx/engine"
	"dirpx.dev/fabx/node"
	"dirpx.dev/fabx/schema"
)

func load(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Load(context.Background(), "testdata/people.hcl")
	require.NoError(t, err)
	return s
}

func TestLoad_Types(t *testing.T) {
	s := load(t)
	assert.Equal(t, []string{"Address", "Node", "Pair", "Person", "Phone"}, s.Names())

	person, ok := s.Lookup("Person")
	require.True(t, ok)
	assert.Equal(t, apis.Record, person.Kind())

	var names []string
	for _, m := range person.Members() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"name", "age", "born", "address", "phones", "labels", "scores"}, names)

	pair, ok := s.Lookup("Pair")
	require.True(t, ok)
	assert.Equal(t, []string{"L", "R"}, pair.TypeParams())
	assert.True(t, apis.IsUnbound(pair))

	str, ok := s.Lookup("string")
	require.True(t, ok)
	assert.Equal(t, descriptor.For[string](), str)
}

func TestLoad_NodeTree(t *testing.T) {
	s := load(t)
	person, _ := s.Lookup("Person")

	root, err := node.NewBuilder(config.DefaultConfig()).BuildRoot(context.Background(), person)
	require.NoError(t, err)

	paths := map[string]apis.Kind{}
	root.Walk(func(n *node.Node) bool {
		paths[n.Path()] = n.Kind()
		return true
	})
	assert.Equal(t, apis.Container, paths["Person.phones"])
	assert.Equal(t, apis.Leaf, paths["Person.phones[].number"])
	assert.Equal(t, apis.Map, paths["Person.labels"])
	assert.Equal(t, apis.Leaf, paths["Person.labels[key]"])
	assert.Equal(t, apis.Array, paths["Person.scores"])
	assert.Equal(t, apis.Record, paths["Person.address"])
}

func TestType_Expressions(t *testing.T) {
	s := load(t)
	ctx := context.Background()

	d, err := s.Type(ctx, "Pair(string, int)")
	require.NoError(t, err)
	assert.Equal(t, "Pair[string,int]", d.Name())
	assert.False(t, apis.IsUnbound(d))

	d, err = s.Type(ctx, "list(Phone)")
	require.NoError(t, err)
	assert.Equal(t, apis.Container, d.Kind())

	d, err = s.Type(ctx, "array(int, 4)")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())

	d, err = s.Type(ctx, "Pair")
	require.NoError(t, err)
	assert.True(t, apis.IsUnbound(d))

	_, err = s.Type(ctx, "Pair(string)")
	var ue *descriptor.UnresolvedGenericsError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 1, ue.Got)

	_, err = s.Type(ctx, "Missing")
	assert.ErrorIs(t, err, schema.ErrUnknownType)
}

func TestLoad_GenericRecursion(t *testing.T) {
	s := load(t)
	d, err := s.Type(context.Background(), "Node(string)")
	require.NoError(t, err)

	root, err := node.NewBuilder(config.DefaultConfig()).BuildRoot(context.Background(), d)
	require.NoError(t, err)

	var terminal int
	root.Walk(func(n *node.Node) bool {
		if n.Terminal() {
			terminal++
		}
		return true
	})
	assert.Equal(t, 1, terminal)
}

func TestCreate_FromSchema(t *testing.T) {
	s := load(t)
	person, _ := s.Lookup("Person")

	e := engine.New(config.NewConfig(config.WithSeed(9)), nil)
	v, err := e.Create(context.Background(), person, nil, apis.All)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.IsType(t, "", m["name"])
	assert.IsType(t, 0, m["age"])
	require.IsType(t, map[string]any{}, m["address"])
	assert.NotEmpty(t, m["address"].(map[string]any)["street"])
	require.IsType(t, []any{}, m["phones"])
	assert.NotEmpty(t, m["phones"])
	require.IsType(t, []any{}, m["scores"])
	assert.Len(t, m["scores"], 3)
}

func TestParse_Errors(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"syntax":        `type "A" {`,
		"unknown field": `type "A" { field "x" { type = Nope } }`,
		"duplicate": `
type "A" {}
type "A" {}`,
		"shadows builtin":  `type "string" {}`,
		"bad array length": `type "A" { field "x" { type = array(int, "two") } }`,
		"negative length":  `type "A" { field "x" { type = array(int, -1) } }`,
		"unsupported expr": `type "A" { field "x" { type = "string" } }`,
		"unknown attr":     `type "A" { nope = 1 }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schema.Parse(ctx, []byte(src), "test.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := schema.Load(context.Background(), "testdata/missing.hcl")
	assert.Error(t, err)
}
