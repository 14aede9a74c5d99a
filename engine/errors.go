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

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGenerator is returned when a leaf node has neither a directive
	// nor a generator.
	ErrNoGenerator = errors.New("fabx(engine): no generator for type")
	// ErrTypeMismatch is returned when a produced value cannot be stored
	// at its node.
	ErrTypeMismatch = errors.New("fabx(engine): produced value does not fit node type")
	// ErrInvalidTarget is returned by Populate for targets that are not
	// non-nil pointers.
	ErrInvalidTarget = errors.New("fabx(engine): populate target must be a non-nil pointer")
)

// GenerationFailure reports the node at which population failed.
// The whole invocation is aborted; no partial object is returned.
type GenerationFailure struct {
	// Path is the node path, e.g. "Person.Address.Street".
	Path string
	// Type is the name of the node type.
	Type string
	// Err is the underlying cause.
	Err error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("fabx(engine): generate %s (%s): %v", e.Path, e.Type, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }
