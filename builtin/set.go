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

// setCodec encodes *types.Set as {"value": [...]} in insertion order.
// The member order in the document reflects how this particular set was
// built, not a canonical order.
type setCodec struct{}

var (
	_ apis.Encoder = setCodec{}
	_ apis.Decoder = setCodec{}
)

func (setCodec) Signature() string { return "set" }

func (setCodec) HandledType() reflect.Type { return reflect.TypeOf((*types.Set)(nil)) }

func (setCodec) Encode(v any) (apis.Fields, error) {
	s, ok := v.(*types.Set)
	if !ok {
		return nil, fmt.Errorf("builtin: set codec cannot encode %T", v)
	}
	return apis.Fields{"value": s.Members()}, nil
}

func (setCodec) Decode(fields apis.Fields) (any, error) {
	seq, err := sequenceValue("set", fields)
	if err != nil {
		return nil, err
	}
	// Sequence and mapping members decode to uncomparable Go values; reject
	// them here so wire input fails instead of panicking in Set.Add.
	for _, m := range seq {
		if m != nil && !reflect.TypeOf(m).Comparable() {
			return nil, fmt.Errorf("builtin: set member of type %T is not hashable: %w", m, apis.ErrMalformedDocument)
		}
	}
	return types.NewSet(seq...), nil
}
