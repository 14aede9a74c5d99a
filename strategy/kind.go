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

package strategy

import (
	"math"
	"math/rand/v2"
	"reflect"
	"sync"
	"time"

	"dirpx.dev/fabx/apis"
	uref "dirpx.dev/fabx/utils/reflect"
)

const (
	// maxDefaultInt caps default integers and floats. 8-bit kinds are
	// capped by their own range.
	maxDefaultInt = 10000
	// letters used by default strings.
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	timeType = reflect.TypeFor[time.Time]()
	// epoch bounds default timestamps to [2000-01-01, 2030-01-01).
	epochStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	epochSpan  = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix() - epochStart
)

// NewKindStrategy creates an apis.Strategy that generates leaf values from
// the reflect kind of their storage type. It is the fallback of the chain.
func NewKindStrategy() apis.Strategy {
	return kindStrategy{}
}

// kindStrategy produces uniform values for booleans, numbers, strings and
// time.Time, converted to the (possibly named) storage type.
type kindStrategy struct{}

// Ensure kindStrategy implements apis.Strategy.
var _ apis.Strategy = (*kindStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect generation.
type cacheKey struct {
	t         reflect.Type
	minLen    int
	maxLen    int
	maxUnwrap int16
}

// generatorCache caches per-type generators by (type, config knobs).
var generatorCache sync.Map // key: cacheKey, val: apis.Generator (nil when unsupported)

// TryGenerator returns a producer for leaf descriptors of a supported kind.
func (kindStrategy) TryGenerator(d apis.Descriptor, r *rand.Rand, cfg apis.Config) (apis.Producer, bool) {
	if d == nil || d.Kind() != apis.Leaf {
		return nil, false
	}
	g := byType(d.GoType(), cfg)
	if g == nil {
		return nil, false
	}
	return func() (any, error) { return g(r) }, true
}

// byType resolves the default generator for t with memoization.
func byType(t reflect.Type, cfg apis.Config) apis.Generator {
	key := cacheKey{
		t:         t,
		minLen:    cfg.MinStringLength,
		maxLen:    cfg.MaxStringLength,
		maxUnwrap: int16(cfg.MaxUnwrap),
	}
	if v, ok := generatorCache.Load(key); ok {
		return v.(apis.Generator)
	}

	var g apis.Generator
	if base, _, err := uref.Normalize(t, cfg); err == nil {
		g = forBase(base, cfg)
	}
	generatorCache.Store(key, g)
	return g
}

// forBase builds the generator for a non-pointer type, or nil.
func forBase(base reflect.Type, cfg apis.Config) apis.Generator {
	if base == timeType {
		return func(r *rand.Rand) (any, error) {
			return time.Unix(epochStart+r.Int64N(epochSpan), 0).UTC(), nil
		}
	}

	var raw func(r *rand.Rand) any
	switch base.Kind() {
	case reflect.Bool:
		raw = func(r *rand.Rand) any { return r.IntN(2) == 1 }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		hi := int64(maxDefaultInt)
		if base.Kind() == reflect.Int8 {
			hi = math.MaxInt8
		}
		raw = func(r *rand.Rand) any { return 1 + r.Int64N(hi) }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		hi := uint64(maxDefaultInt)
		if base.Kind() == reflect.Uint8 {
			hi = math.MaxUint8
		}
		raw = func(r *rand.Rand) any { return 1 + r.Uint64N(hi) }
	case reflect.Float32, reflect.Float64:
		raw = func(r *rand.Rand) any { return math.Round(r.Float64()*maxDefaultInt*100) / 100 }
	case reflect.Complex64, reflect.Complex128:
		raw = func(r *rand.Rand) any { return complex(r.Float64()*maxDefaultInt, r.Float64()*maxDefaultInt) }
	case reflect.String:
		lo, hi := cfg.MinStringLength, cfg.MaxStringLength
		if lo < 1 {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
		raw = func(r *rand.Rand) any {
			b := make([]byte, lo+r.IntN(hi-lo+1))
			for i := range b {
				b[i] = letters[r.IntN(len(letters))]
			}
			return string(b)
		}
	default:
		// Interfaces, funcs, chans and non-leaf structs have no default.
		return nil
	}

	return func(r *rand.Rand) (any, error) {
		return reflect.ValueOf(raw(r)).Convert(base).Interface(), nil
	}
}
