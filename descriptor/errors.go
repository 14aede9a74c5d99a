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

package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotGeneric is returned when type arguments are applied to a
	// descriptor that declares no type parameters.
	ErrNotGeneric = errors.New("fabx(descriptor): type is not generic")
	// ErrAlreadyBound is returned when Instantiate is called on an instance.
	ErrAlreadyBound = errors.New("fabx(descriptor): type parameters already bound")
)

// UnresolvedGenericsError reports a generic type whose parameters could
// not be bound from context or from caller-supplied type arguments.
type UnresolvedGenericsError struct {
	// Type names the generic type.
	Type string
	// Params lists every declared type parameter of Type.
	Params []string
	// Got is the number of type arguments that were available.
	Got int
}

// Error implements error.
func (e *UnresolvedGenericsError) Error() string {
	return fmt.Sprintf(
		"generic type %s has %d type parameters: [%s]; specify all type parameters using type arguments (got %d)",
		e.Type, len(e.Params), strings.Join(e.Params, ", "), e.Got,
	)
}
