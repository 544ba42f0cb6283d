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

package builtin

import (
	"encoding/base64"
	"fmt"
	"reflect"

	"dirpx.dev/xser/apis"
)

// bytesCodec encodes []byte as {"value": <base64>}.
type bytesCodec struct{}

var (
	_ apis.Encoder = bytesCodec{}
	_ apis.Decoder = bytesCodec{}
)

func (bytesCodec) Signature() string { return "bytes" }

func (bytesCodec) HandledType() reflect.Type { return reflect.TypeOf([]byte(nil)) }

func (bytesCodec) Encode(v any) (apis.Fields, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("builtin: bytes codec cannot encode %T", v)
	}
	return apis.Fields{"value": base64.StdEncoding.EncodeToString(b)}, nil
}

func (bytesCodec) Decode(fields apis.Fields) (any, error) {
	raw, ok := fields["value"]
	if !ok || len(fields) != 1 {
		return nil, fmt.Errorf("builtin: bytes tag requires exactly a value field: %w", apis.ErrMalformedDocument)
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("builtin: bytes tag value is %T, want text: %w", raw, apis.ErrMalformedDocument)
	}
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("builtin: bytes tag value is not base64: %w", apis.ErrMalformedDocument)
	}
	return b, nil
}
