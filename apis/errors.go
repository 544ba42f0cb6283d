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

import (
	"errors"
	"fmt"
)

// The error kinds below are part of the public contract. Implementation
// packages wrap them with context; callers match them with errors.Is.
// All of them fail fast and surface synchronously, with no partial-document
// recovery.
var (
	// ErrUnintrospectableSignature indicates that a target's parameters
	// cannot be statically enumerated, so no auto-codec can be built for it.
	ErrUnintrospectableSignature = errors.New("xser: signature cannot be introspected")

	// ErrFieldNameCollision indicates that a variadic-keyword entry collides
	// with a fixed field name while the root kwargs level forbids nesting.
	ErrFieldNameCollision = errors.New("xser: field name collision")

	// ErrDuplicateSignature indicates an attempt to bind a signature that is
	// already bound to a different codec without an explicit override.
	ErrDuplicateSignature = errors.New("xser: duplicate signature")

	// ErrUnregisteredType indicates that encode found no codec for a runtime
	// type, or decode found no codec for a signature.
	ErrUnregisteredType = errors.New("xser: unregistered type")

	// ErrMalformedDocument indicates a tagged mapping missing required
	// fields, or a tagged node whose shape does not match its rule.
	ErrMalformedDocument = errors.New("xser: malformed document")
)

// AbstractRegistrationError is returned when registration is forced for a
// declaration without encode capability.
type AbstractRegistrationError struct {
	// Name identifies the abstract declaration, normally its signature.
	Name string
}

// Error returns the fixed message form for abstract registrations.
func (e *AbstractRegistrationError) Error() string {
	return fmt.Sprintf("Cannot register abstract class %s.", e.Name)
}
