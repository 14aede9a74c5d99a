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

// Node is one position in a built type structure: the root, a record
// member, or the shared template of container/array/map elements.
//
// Parent is a navigation link only; ownership of the tree is top-down.
type Node interface {
	// Type is the resolved descriptor at this position.
	Type() Descriptor
	// Field is the owning member, or nil for root and element nodes.
	Field() *Member
	// Owner is the record descriptor that declares Field, or nil.
	Owner() Descriptor
	// Parent is the enclosing node, or nil for the root.
	Parent() Node
	// Depth is 0 for the root and grows by one per level.
	Depth() int
}
