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
	"fmt"
	"reflect"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/types"
)

// tupleCodec encodes types.Tuple as {"value": [...]}.
type tupleCodec struct{}

var (
	_ apis.Encoder = tupleCodec{}
	_ apis.Decoder = tupleCodec{}
)

func (tupleCodec) Signature() string { return "tuple" }

func (tupleCodec) HandledType() reflect.Type { return reflect.TypeOf(types.Tuple(nil)) }

func (tupleCodec) Encode(v any) (apis.Fields, error) {
	t, ok := v.(types.Tuple)
	if !ok {
		return nil, fmt.Errorf("builtin: tuple codec cannot encode %T", v)
	}
	return apis.Fields{"value": []any(t)}, nil
}

func (tupleCodec) Decode(fields apis.Fields) (any, error) {
	seq, err := sequenceValue("tuple", fields)
	if err != nil {
		return nil, err
	}
	return types.Tuple(seq), nil
}

// sequenceValue extracts the single required "value" sequence of the
// tuple/set/list tag forms.
func sequenceValue(sig string, fields apis.Fields) ([]any, error) {
	raw, ok := fields["value"]
	if !ok {
		return nil, fmt.Errorf("builtin: %s tag without a value sequence: %w", sig, apis.ErrMalformedDocument)
	}
	if len(fields) != 1 {
		return nil, fmt.Errorf("builtin: %s tag carries unexpected fields: %w", sig, apis.ErrMalformedDocument)
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("builtin: %s tag value is %T, want a sequence: %w", sig, raw, apis.ErrMalformedDocument)
	}
	return seq, nil
}
