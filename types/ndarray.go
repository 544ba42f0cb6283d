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

package types

// DType describes the element type of an NDArray: either a scalar kind
// (e.g. "int64", "float32", "datetime64[D]") or a structured record of
// named fields, each with its own DType and optional inner shape. Nested
// structured fields recurse arbitrarily.
type DType struct {
	// Kind is the scalar kind name; empty for structured dtypes.
	Kind string
	// Fields holds the record fields of a structured dtype, in order.
	Fields []DTypeField
}

// DTypeField is one named field of a structured DType.
type DTypeField struct {
	Name string
	Type DType
	// Shape is the field's inner shape; empty for scalar fields.
	Shape []int
}

// Scalar reports whether the dtype is a plain scalar kind.
func (d DType) Scalar() bool {
	return len(d.Fields) == 0
}

// NDArray is a shaped, typed numeric array carried as nested Document
// sequences. Data nests per Shape, with structured records represented as
// inner sequences in field order.
type NDArray struct {
	DType DType
	Shape []int
	Data  []any
}
