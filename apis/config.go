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

// Config carries read-only knobs that influence encoding and decoding.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxUnwrap limits pointer unwrapping depth when matching a runtime
	// type against the registry's encode view. Acts as a safety guard
	// against pathological pointer nesting.
	MaxUnwrap int

	// MaxDepth limits recursion depth during the tree walk. Documents are
	// acyclic by construction, but Go values are not; the guard turns a
	// cyclic input into an error instead of a stack overflow.
	// A value <= 0 selects the default.
	MaxDepth int

	// Lenient substitutes a types.Opaque placeholder when decode meets an
	// unregistered signature instead of failing. Off by default; this is a
	// documented extension point, not part of the guaranteed contract.
	Lenient bool

	// Indent selects pretty-printed JSON output when non-empty.
	Indent string
}
