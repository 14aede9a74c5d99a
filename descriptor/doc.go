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

// Package descriptor provides the type descriptors the node builder
// consumes.
//
// Two providers are available:
//
//   - Reflect-backed descriptors (Of, For) describe Go types. Pointers are
//     folded into the descriptor of the pointed-to type, so a rule written
//     for Phone also applies to a *Phone field. Go types are always fully
//     instantiated, so reflect-backed descriptors never carry unbound type
//     parameters.
//
//   - Declared descriptors (Declare, Record, List, ...) are registered
//     explicitly and may declare type parameters. Values of declared types
//     are stored as map[string]any (records, maps) and []any (containers,
//     arrays).
//
// Declared members may reference reflect-backed descriptors, which is how
// declared types obtain their leaves.
package descriptor
