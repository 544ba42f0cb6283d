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

import "io"

// Engine performs the recursive tree walk between caller values and the
// plain Document representation, dispatching tagged nodes through a
// Registry. Both directions are total, synchronous recursive walks with no
// shared mutable traversal state; concurrent calls against a stable
// registry are safe.
type Engine interface {
	// EncodeValue converts a value into its Document form: a tree of nil,
	// booleans, numbers, text, []any sequences and map[string]any mappings.
	EncodeValue(v any) (any, error)

	// DecodeValue converts a Document back into a value, resolving tagged
	// mappings through the registry.
	DecodeValue(node any) (any, error)

	// Encode serializes v to JSON text.
	Encode(v any) ([]byte, error)

	// Decode parses JSON or YAML text (YAML is the accepted textual
	// superset for input) and decodes the resulting Document.
	Decode(data []byte) (any, error)

	// EncodeTo streams the JSON text form of v to w.
	EncodeTo(w io.Writer, v any) error

	// DecodeFrom reads one JSON/YAML document from r and decodes it.
	DecodeFrom(r io.Reader) (any, error)

	// EncodeCBOR serializes v to deterministically encoded CBOR.
	EncodeCBOR(v any) ([]byte, error)

	// DecodeCBOR parses CBOR data and decodes the resulting Document.
	DecodeCBOR(data []byte) (any, error)
}
