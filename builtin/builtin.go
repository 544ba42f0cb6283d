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

// Package builtin holds the fixed codecs the engine consults before the
// registry: tuple, set, slice, bytes, datetime, dtype and ndarray, plus the
// decode-only list codec. Their signatures are reserved; a registry refuses
// to bind them to user codecs, which is what makes the builtin rules
// non-overridable.
//
// The "dict" signature is also reserved but has no codec here: its
// disambiguation rule needs non-uniform recursion (inner values are walked,
// the inner mapping node is not), so the engine implements it inline.
package builtin

import (
	"reflect"

	"dirpx.dev/xser/apis"
)

// DictSignature tags a mapping that needs the literal TypeKey key; its true
// contents nest under DictValueKey. Handled by the engine walk itself.
const (
	DictSignature = "dict"
	DictValueKey  = "value"
)

// codecs lists every builtin codec in rule order.
var codecs = []apis.Codec{
	tupleCodec{},
	setCodec{},
	sliceCodec{},
	bytesCodec{},
	datetimeCodec{},
	dtypeCodec{},
	ndarrayCodec{},
	listCodec{},
}

var (
	byType      = map[reflect.Type]apis.Encoder{}
	bySignature = map[string]apis.Decoder{}
	reserved    = map[string]bool{DictSignature: true}
)

func init() {
	for _, c := range codecs {
		reserved[c.Signature()] = true
		if enc, ok := c.(apis.Encoder); ok && enc.HandledType() != nil {
			byType[enc.HandledType()] = enc
		}
		if dec, ok := c.(apis.Decoder); ok {
			bySignature[c.Signature()] = dec
		}
	}
}

// ByType returns the builtin encoder for an exact runtime type.
func ByType(t reflect.Type) (apis.Encoder, bool) {
	enc, ok := byType[t]
	return enc, ok
}

// BySignature returns the builtin decoder for a reserved signature.
func BySignature(sig string) (apis.Decoder, bool) {
	dec, ok := bySignature[sig]
	return dec, ok
}

// IsReserved reports whether sig is claimed by a builtin rule and therefore
// closed to user registration.
func IsReserved(sig string) bool {
	return reserved[sig]
}
