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
	"time"

	"dirpx.dev/xser/apis"
)

// datetimeCodec encodes time.Time as {"value": <RFC 3339 text>}, keeping
// the document human-editable.
type datetimeCodec struct{}

var (
	_ apis.Encoder = datetimeCodec{}
	_ apis.Decoder = datetimeCodec{}
)

func (datetimeCodec) Signature() string { return "datetime" }

func (datetimeCodec) HandledType() reflect.Type { return reflect.TypeOf(time.Time{}) }

func (datetimeCodec) Encode(v any) (apis.Fields, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("builtin: datetime codec cannot encode %T", v)
	}
	return apis.Fields{"value": t.Format(time.RFC3339Nano)}, nil
}

func (datetimeCodec) Decode(fields apis.Fields) (any, error) {
	raw, ok := fields["value"]
	if !ok || len(fields) != 1 {
		return nil, fmt.Errorf("builtin: datetime tag requires exactly a value field: %w", apis.ErrMalformedDocument)
	}
	// Some text parsers resolve timestamp scalars before the codec runs.
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("builtin: datetime tag value is %T, want text: %w", raw, apis.ErrMalformedDocument)
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return nil, fmt.Errorf("builtin: datetime tag value %q is not RFC 3339: %w", text, apis.ErrMalformedDocument)
	}
	return t, nil
}
