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

package apis

// Config carries read-only population knobs shared by the node builder,
// the engine and the default generators.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxDepth caps the node tree depth. Nodes at MaxDepth are terminal.
	MaxDepth int

	// RecursionLimit is how many times a type may appear in its own
	// ancestry before expansion stops. 1 stops at the first reappearance.
	RecursionLimit int

	// MaxUnwrap limits pointer unwrapping when normalizing Go types.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int

	// MinSize and MaxSize bound the element count of containers and maps
	// when no size rule applies (inclusive).
	MinSize, MaxSize int

	// MinStringLength and MaxStringLength bound default string generation.
	MinStringLength, MaxStringLength int

	// Seed makes an invocation reproducible. Zero draws a random seed.
	Seed uint64

	// Action is the default population action.
	Action Action
}
