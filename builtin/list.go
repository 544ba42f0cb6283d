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
	"dirpx.dev/xser/apis"
)

// listCodec is decode-only: sequences always encode to the bare Document
// form, but the explicit {"__type__": "list", "value": [...]} spelling is
// accepted on input for hand-written documents.
type listCodec struct{}

var _ apis.Decoder = listCodec{}

func (listCodec) Signature() string { return "list" }

func (listCodec) Decode(fields apis.Fields) (any, error) {
	return sequenceValue("list", fields)
}
