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

// Package xser provides a global, process-wide recursive serialization
// service.
//
// xser converts arbitrary structured values (nested mappings, sequences,
// domain types) into a plain JSON/YAML-compatible Document and back,
// preserving type identity for values outside the plain JSON data model:
// tuples, sets, slice ranges, timestamps, raw bytes, structured numeric
// arrays, and any caller type with a declared codec.
//
// # Document model
//
// A Document is a tree of nil, booleans, numbers, text, []any sequences and
// map[string]any mappings. Values outside that model are written as tagged
// mappings: a mapping carrying the reserved "__type__" key whose value is a
// codec signature, with every other key holding a constructor argument for
// decoding:
//
//	{"__type__": "tuple", "value": [1, 2, 3]}
//	{"__type__": "audio.Sound", "path": "a.wav", "rate": 44100}
//
// One disambiguation rule is absolute and precedes every other tagging
// rule: a plain mapping that needs the literal "__type__" key for non-tag
// purposes is itself tagged with signature "dict" and its true contents
// nested under a "value" key, so decoding returns the original mapping
// unchanged.
//
// Text output is JSON; text input is parsed as YAML, which accepts JSON as
// a subset and keeps hand-written documents comfortable. A deterministic
// CBOR form is available for binary transport.
//
// # Design
//
// The core of xser is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: limits and toggles that control the tree walk (pointer
//     unwrap depth, maximum nesting depth, lenient decoding, text
//     indentation).
//
//   - Registry: a process-wide codec store with two views: signature to
//     codec for decoding (a bijection) and handled type to codec for
//     encoding. The registry can be written to at runtime (Register,
//     Override, Unregister, Reset) and never mutates implicitly during
//     encode or decode calls.
//
//   - Engine: a read-only recursive walker that answers "what is the
//     Document form of this value?" and the inverse. The engine tries
//     rules in priority order:
//     1. Native scalars, sequences and mappings encode structurally.
//     2. Builtin rules (tuple, set, slice, bytes, datetime, dtype,
//     ndarray, the dict disambiguation wrap) apply next and cannot be
//     overridden.
//     3. Registered codecs apply by handled type on encode and by
//     signature on decode.
//     The engine is concurrency-safe: both directions are pure recursive
//     walks with no shared mutable traversal state.
//
//   - Builder: a pluggable factory that constructs Registry and Engine
//     instances for a given Config (and optional extension data), allowed
//     to migrate entries from previous instances.
//
// All of these live inside a single immutable struct called state. The
// package holds an atomic pointer to the current state. Readers load that
// pointer, use it, and never mutate it. Writers build a brand-new state
// and atomically swap it in, so
//
//	data, err := xser.Encode(v)
//	v2, err := xser.Decode(data)
//
// are lock-free on the hot path and concurrent callers always see a
// consistent snapshot.
//
// # Declaring codecs
//
// Most caller types never hand-write a codec. Declare derives one from a
// struct's fields and tags, mirroring a constructor parameter list:
//
//	type Sound struct {
//		Path string `xser:"path"`
//		Rate int    `xser:"rate,default"`
//		Rest []any          `xser:"args,variadic"`
//		Opts map[string]any `xser:"kwargs,keywords"`
//	}
//
//	codec, err := xser.Declare(Sound{})
//
// Fixed parameters appear on the tagged mapping by name. Extra positional
// values surface as a sequence field (default name "args"); extra keyword
// values are flattened at the root unless one of their names collides with
// a root-level field, in which case that one encoded value falls back to a
// nested "kwargs" mapping. The collision policy is selectable per
// declaration (auto, root, safe), and decoding always accepts both
// layouts for a signature.
//
// Declarations may opt out of registration, and derived declarations
// inherit the opt-out; a per-declaration forced flag overrides the
// inherited behavior for exactly one declaration and fails loudly when it
// forces an abstract (encode-incapable) declaration into the registry.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Read helpers:
//
//     Encode, Decode, EncodeValue, DecodeValue,
//     EncodeTo, DecodeFrom, EncodeCBOR, DecodeCBOR,
//     Registry(), Engine(), Config(), Builder()
//
//     These are safe for concurrent use without additional locking. They
//     always read from the latest published snapshot.
//
//  2. Mutation helpers:
//
//     Register, Unregister, Reset, Declare, Derive,
//     SetConfig, SetBuilder, SetExt, SetRegistry, SetEngine,
//     PinRegistry/UnpinRegistry, PinEngine/UnpinEngine, SetAll
//
//     Registration calls mutate the current registry in place. The Set*
//     helpers acquire an internal build lock, derive a new snapshot
//     (rebuilding or reusing Registry / Engine as needed), and then
//     atomically publish that snapshot. SetRegistry and SetEngine pin the
//     layer they replace: pinned layers are not rebuilt on later
//     SetConfig/SetBuilder/SetExt calls until unpinned. SetAll is the
//     hard-reset API used by tests to get a clean deterministic state.
//
//  3. Introspection:
//
//     ExtAs[T](), Registry().Entries(), Registry().Listing()
//
// # Concurrency model
//
// Reads are wait-free: they load the current *state atomically and never
// take locks. Writes take a short build mutex, assemble a brand-new state
// struct, and publish it via an atomic pointer swap, giving last-write-wins
// behavior without per-call locking.
//
// # Scope
//
// xser is intentionally small. It solves one job:
//
//	"Given any Go value, produce a human-editable document that rebuilds
//	 an equal value, preserving type identity beyond the JSON data model."
//
// Schema validation, streaming of multi-document feeds, and RPC transport
// belong to higher layers.
package xser
