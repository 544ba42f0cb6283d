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

// sliceCodec encodes types.Slice as start/stop/step fields, omitting any
// field equal to its nil default.
type sliceCodec struct{}

var (
	_ apis.Encoder = sliceCodec{}
	_ apis.Decoder = sliceCodec{}
)

func (sliceCodec) Signature() string { return "slice" }

func (sliceCodec) HandledType() reflect.Type { return reflect.TypeOf(types.Slice{}) }

func (sliceCodec) Encode(v any) (apis.Fields, error) {
	s, ok := v.(types.Slice)
	if !ok {
		return nil, fmt.Errorf("builtin: slice codec cannot encode %T", v)
	}
	fields := apis.Fields{}
	if s.Start != nil {
		fields["start"] = *s.Start
	}
	if s.Stop != nil {
		fields["stop"] = *s.Stop
	}
	if s.Step != nil {
		fields["step"] = *s.Step
	}
	return fields, nil
}

func (sliceCodec) Decode(fields apis.Fields) (any, error) {
	var s types.Slice
	for name, raw := range fields {
		n, ok := asInt(raw)
		if !ok {
			return nil, fmt.Errorf("builtin: slice tag field %q is %T, want an integer: %w", name, raw, apis.ErrMalformedDocument)
		}
		switch name {
		case "start":
			s.Start = types.Int(n)
		case "stop":
			s.Stop = types.Int(n)
		case "step":
			s.Step = types.Int(n)
		default:
			return nil, fmt.Errorf("builtin: slice tag carries unknown field %q: %w", name, apis.ErrMalformedDocument)
		}
	}
	return s, nil
}
