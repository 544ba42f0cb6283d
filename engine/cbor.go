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
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"dirpx.dev/xser/apis"
)

// CBOR modes are built once. Core Deterministic Encoding keeps equal
// Documents byte-identical, so encoded output is safe to hash or compare.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// EncodeCBOR serializes v to deterministically encoded CBOR.
func (e *engine) EncodeCBOR(v any) ([]byte, error) {
	node, err := e.EncodeValue(v)
	if err != nil {
		return nil, err
	}
	return cborEnc.Marshal(node)
}

// DecodeCBOR parses CBOR data and decodes the resulting Document.
func (e *engine) DecodeCBOR(data []byte) (any, error) {
	var node any
	if err := cborDec.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("xser(engine): %v: %w", err, apis.ErrMalformedDocument)
	}
	return e.DecodeValue(node)
}
