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

import "reflect"

// Registry owns codec entries and provides the two dispatch views: a
// signature-keyed decode view (a bijection) and a type-keyed encode view.
// Registrations normally happen during program initialization; concurrent
// reads against a stable registry are safe.
type Registry interface {
	// Register inserts a codec into both views. It is idempotent for the
	// same codec and fails with ErrDuplicateSignature when the signature
	// (or one of its aliases) is already bound to a different codec.
	// Abstract declarations fail with *AbstractRegistrationError.
	Register(c Codec) error

	// Override behaves like Register but replaces an existing binding for
	// the codec's signature and aliases. Builtin signatures remain
	// non-overridable.
	Override(c Codec) error

	// Unregister removes a signature binding. Removing a primary signature
	// also removes its aliases and its encode-view binding. Idempotent when
	// the signature is absent.
	Unregister(signature string)

	// BySignature returns the enabled codec bound to a signature.
	BySignature(signature string) (Codec, bool)

	// ByType returns the enabled encoder whose handled type most
	// specifically matches t: exact type first, then the pointer-normalized
	// type, then interface-typed handled types (larger method sets win,
	// registration order breaks ties).
	ByType(t reflect.Type) (Encoder, bool)

	// Enable re-activates a disabled codec. Reports whether the signature
	// is known.
	Enable(signature string) bool

	// Disable deactivates a codec without removing it; disabled codecs are
	// skipped by both lookup views. Reports whether the signature is known.
	Disable(signature string) bool

	// Entries returns a snapshot in registration order (aliases follow
	// their primary entry).
	Entries() []Entry

	// Listing returns the sorted signature lists of the two views.
	Listing() Listing

	// Count returns the number of registered codecs (aliases excluded).
	Count() int

	// Reset clears both views entirely.
	Reset()
}

// Entry is a single binding in a Registry snapshot.
type Entry struct {
	// Signature is the bound signature (primary or alias).
	Signature string
	// Type is the handled type, nil for decode-only codecs and aliases.
	Type reflect.Type
	// Codec is the bound codec.
	Codec Codec
	// Enabled reports whether lookups currently see this binding.
	Enabled bool
	// Alias is true when the binding is an alias of another signature.
	Alias bool
}

// Listing is an introspection snapshot of the two registry views.
type Listing struct {
	// Encode holds the signatures reachable from the encode (type) view.
	Encode []string
	// Decode holds the signatures reachable from the decode view,
	// aliases included.
	Decode []string
}
