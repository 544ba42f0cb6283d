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

// dtypeCodec encodes types.DType as {"value": descr}. A descr is a scalar
// kind string, or a sequence of [name, descr] / [name, descr, shape]
// entries for structured dtypes; nested field descriptors recurse through
// the same form.
type dtypeCodec struct{}

var (
	_ apis.Encoder = dtypeCodec{}
	_ apis.Decoder = dtypeCodec{}
)

func (dtypeCodec) Signature() string { return "dtype" }

func (dtypeCodec) HandledType() reflect.Type { return reflect.TypeOf(types.DType{}) }

func (dtypeCodec) Encode(v any) (apis.Fields, error) {
	d, ok := v.(types.DType)
	if !ok {
		return nil, fmt.Errorf("builtin: dtype codec cannot encode %T", v)
	}
	return apis.Fields{"value": descrOf(d)}, nil
}

func (dtypeCodec) Decode(fields apis.Fields) (any, error) {
	raw, ok := fields["value"]
	if !ok || len(fields) != 1 {
		return nil, fmt.Errorf("builtin: dtype tag requires exactly a value field: %w", apis.ErrMalformedDocument)
	}
	return parseDescr(raw)
}

// descrOf renders a DType into its wire descriptor.
func descrOf(d types.DType) any {
	if d.Scalar() {
		return d.Kind
	}
	out := make([]any, 0, len(d.Fields))
	for _, f := range d.Fields {
		entry := []any{f.Name, descrOf(f.Type)}
		if len(f.Shape) > 0 {
			shape := make([]any, len(f.Shape))
			for i, n := range f.Shape {
				shape[i] = n
			}
			entry = append(entry, shape)
		}
		out = append(out, entry)
	}
	return out
}

// parseDescr rebuilds a DType from its wire descriptor.
func parseDescr(v any) (types.DType, error) {
	switch descr := v.(type) {
	case string:
		if descr == "" {
			return types.DType{}, fmt.Errorf("builtin: empty dtype kind: %w", apis.ErrMalformedDocument)
		}
		return types.DType{Kind: descr}, nil
	case []any:
		d := types.DType{Fields: make([]types.DTypeField, 0, len(descr))}
		for _, raw := range descr {
			entry, ok := raw.([]any)
			if !ok || len(entry) < 2 || len(entry) > 3 {
				return types.DType{}, fmt.Errorf("builtin: dtype field descriptor %v is not a [name, descr, shape?] entry: %w", raw, apis.ErrMalformedDocument)
			}
			name, ok := entry[0].(string)
			if !ok {
				return types.DType{}, fmt.Errorf("builtin: dtype field name is %T, want text: %w", entry[0], apis.ErrMalformedDocument)
			}
			sub, err := parseDescr(entry[1])
			if err != nil {
				return types.DType{}, err
			}
			field := types.DTypeField{Name: name, Type: sub}
			if len(entry) == 3 {
				shape, ok := asIntSlice(entry[2])
				if !ok {
					return types.DType{}, fmt.Errorf("builtin: dtype field %q has a non-integer shape: %w", name, apis.ErrMalformedDocument)
				}
				field.Shape = shape
			}
			d.Fields = append(d.Fields, field)
		}
		return d, nil
	default:
		return types.DType{}, fmt.Errorf("builtin: dtype descriptor is %T, want text or sequence: %w", v, apis.ErrMalformedDocument)
	}
}

// ndarrayCodec encodes types.NDArray as dtype descriptor, shape and nested
// data. The data nests per shape; structured records are inner sequences in
// field order.
type ndarrayCodec struct{}

var (
	_ apis.Encoder = ndarrayCodec{}
	_ apis.Decoder = ndarrayCodec{}
)

func (ndarrayCodec) Signature() string { return "ndarray" }

func (ndarrayCodec) HandledType() reflect.Type { return reflect.TypeOf(types.NDArray{}) }

func (ndarrayCodec) Encode(v any) (apis.Fields, error) {
	a, ok := v.(types.NDArray)
	if !ok {
		return nil, fmt.Errorf("builtin: ndarray codec cannot encode %T", v)
	}
	fields := apis.Fields{
		"dtype": descrOf(a.DType),
		"value": a.Data,
	}
	if a.Shape != nil {
		shape := make([]any, len(a.Shape))
		for i, n := range a.Shape {
			shape[i] = n
		}
		fields["shape"] = shape
	}
	return fields, nil
}

func (ndarrayCodec) Decode(fields apis.Fields) (any, error) {
	rawDescr, ok := fields["dtype"]
	if !ok {
		return nil, fmt.Errorf("builtin: ndarray tag without a dtype field: %w", apis.ErrMalformedDocument)
	}
	d, err := parseDescr(rawDescr)
	if err != nil {
		return nil, err
	}
	rawData, ok := fields["value"]
	if !ok {
		return nil, fmt.Errorf("builtin: ndarray tag without a value field: %w", apis.ErrMalformedDocument)
	}
	data, ok := rawData.([]any)
	if !ok {
		return nil, fmt.Errorf("builtin: ndarray tag value is %T, want a sequence: %w", rawData, apis.ErrMalformedDocument)
	}
	a := types.NDArray{DType: d, Data: data}
	if rawShape, ok := fields["shape"]; ok {
		shape, ok := asIntSlice(rawShape)
		if !ok {
			return nil, fmt.Errorf("builtin: ndarray tag shape is not an integer sequence: %w", apis.ErrMalformedDocument)
		}
		a.Shape = shape
	}
	for name := range fields {
		switch name {
		case "dtype", "value", "shape":
		default:
			return nil, fmt.Errorf("builtin: ndarray tag carries unknown field %q: %w", name, apis.ErrMalformedDocument)
		}
	}
	return a, nil
}
