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

// Slice is an index range with optional bounds and stride. A nil field
// means "unset" and is omitted from the encoded form.
type Slice struct {
	Start *int
	Stop  *int
	Step  *int
}

// NewSlice builds a Slice; pass nil for unset bounds.
func NewSlice(start, stop, step *int) Slice {
	return Slice{Start: start, Stop: stop, Step: step}
}

// Int returns a pointer to v, for filling optional Slice bounds inline.
func Int(v int) *int {
	return &v
}
