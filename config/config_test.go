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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/fabx/apis"
	"dirpx.dev/fabx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	assert.Equal(t, config.DefaultMaxDepth, got.MaxDepth)
	assert.Equal(t, config.DefaultRecursionLimit, got.RecursionLimit)
	assert.Equal(t, config.DefaultMaxUnwrap, got.MaxUnwrap)
	assert.Equal(t, config.DefaultMinSize, got.MinSize)
	assert.Equal(t, config.DefaultMaxSize, got.MaxSize)
	assert.Equal(t, apis.NullsAndDefaultPrimitives, got.Action)
	assert.Zero(t, got.Seed)
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	require.Equal(t, config.DefaultConfig(), config.NewConfig())
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithMaxDepth(3),
		config.WithMaxDepth(5),
		config.WithSeed(1),
		config.WithSeed(7),
		config.WithAction(apis.All),
		config.WithAction(apis.ApplySelectors),
	)

	assert.Equal(t, 5, c.MaxDepth)
	assert.Equal(t, uint64(7), c.Seed)
	assert.Equal(t, apis.ApplySelectors, c.Action)
}

func TestNewConfig_Guardrails(t *testing.T) {
	c := config.NewConfig(
		config.WithMaxDepth(-1),
		config.WithMaxUnwrap(-1),
		config.WithRecursionLimit(0),
		config.WithSize(5, 1),
		config.WithStringLength(-3, -1),
	)

	assert.Equal(t, config.DefaultMaxDepth, c.MaxDepth)
	assert.Equal(t, config.DefaultMaxUnwrap, c.MaxUnwrap)
	assert.Equal(t, config.DefaultRecursionLimit, c.RecursionLimit)
	assert.Equal(t, 5, c.MinSize)
	assert.Equal(t, 5, c.MaxSize, "max below min is raised to min")
	assert.Equal(t, 0, c.MinStringLength)
	assert.Equal(t, 0, c.MaxStringLength)
}

func TestParse_FullFile(t *testing.T) {
	src := []byte(`
max_depth       = 4
recursion_limit = 2
max_unwrap      = 3
seed            = 42
action          = "apply-selectors"

collection {
  min_size = 1
  max_size = 3
}

strings {
  min_length = 5
  max_length = 5
}
`)
	c, err := config.Parse(src, "fabx.hcl")
	require.NoError(t, err)

	want := apis.Config{
		MaxDepth:        4,
		RecursionLimit:  2,
		MaxUnwrap:       3,
		MinSize:         1,
		MaxSize:         3,
		MinStringLength: 5,
		MaxStringLength: 5,
		Seed:            42,
		Action:          apis.ApplySelectors,
	}
	assert.Equal(t, want, c)
}

func TestParse_OptionsOverrideFile(t *testing.T) {
	c, err := config.Parse([]byte(`seed = 1`), "fabx.hcl", config.WithSeed(9))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), c.Seed)
	assert.Equal(t, config.DefaultMaxDepth, c.MaxDepth)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `max_depth = `},
		{"unknown attribute", `max_dept = 3`},
		{"wrong type", `max_depth = "deep"`},
		{"unknown action", `action = "sometimes"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "fabx(config)")
		})
	}
}

func TestLoadFile(t *testing.T) {
	c, err := config.LoadFile("testdata/fabx.hcl")
	require.NoError(t, err)
	assert.Equal(t, 6, c.MaxDepth)
	assert.Equal(t, apis.All, c.Action)

	_, err = config.LoadFile("testdata/missing.hcl")
	require.Error(t, err)
}
