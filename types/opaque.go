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

// Opaque is the placeholder a lenient decode substitutes for a tagged node
// whose signature has no registered codec. It preserves the signature and
// the decoded constructor arguments so the document survives a read-modify-
// write cycle without the handling type being installed.
type Opaque struct {
	Signature string
	Fields    map[string]any
}
