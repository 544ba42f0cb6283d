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

// TypeKey is the reserved mapping key that carries a codec signature on
// tagged Document nodes. A plain mapping that needs the literal key is
// wrapped in the tagged "dict"/"value" form by the engine before emission.
const TypeKey = "__type__"

// Fields is the constructor-argument view of an encoded value: the tagged
// mapping minus its TypeKey entry. On encode, field values are raw values
// that the engine recursively encodes afterwards; on decode, field values
// have already been recursively decoded before the codec sees them.
type Fields map[string]any

// Codec identifies one encode/decode pairing. Concrete codecs implement
// Encoder, Decoder, or both; a codec implementing neither usable capability
// is abstract and cannot be registered.
type Codec interface {
	// Signature returns the globally unique identifier written to the
	// TypeKey field of the tagged mapping. At most one codec may be bound
	// to a signature in a Registry's decode view.
	Signature() string
}

// Encoder is the encode capability of a Codec.
type Encoder interface {
	Codec

	// HandledType returns the concrete runtime type this codec encodes.
	// A nil handled type means the codec has no encode capability.
	HandledType() reflect.Type

	// Encode captures v's constructor arguments. The returned Fields must
	// not contain the reserved TypeKey key.
	Encode(v any) (Fields, error)
}

// Decoder is the decode capability of a Codec.
type Decoder interface {
	Codec

	// Decode rebuilds a value from its constructor arguments.
	Decode(fields Fields) (any, error)
}

// Aliaser optionally declares alternate signatures under which a codec is
// also bound in the decode view. Aliases obey the same uniqueness rules as
// primary signatures.
type Aliaser interface {
	Aliases() []string
}

// Abstracter marks declarations that lack the capability to encode a
// concrete instance. Registering an abstract declaration fails.
type Abstracter interface {
	Abstract() bool
}
