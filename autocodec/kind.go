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

package autocodec

// Kind classifies one declared parameter of a target's construction
// signature.
type Kind int

const (
	// Positional parameters are bound by position only.
	Positional Kind = iota
	// PositionalOrKeyword parameters bind by position or by name. Plain
	// declared fields resolve to this kind.
	PositionalOrKeyword
	// VariadicPositional collects extra positional values into a sequence
	// field.
	VariadicPositional
	// KeywordOnly parameters bind by name only.
	KeywordOnly
	// VariadicKeyword collects extra named values into a mapping that is
	// flattened or nested per the kwargs level.
	VariadicKeyword
)

// String returns the declaration-tag spelling of k.
func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case VariadicPositional:
		return "variadic-positional"
	case KeywordOnly:
		return "keyword-only"
	case VariadicKeyword:
		return "variadic-keyword"
	default:
		return "unknown"
	}
}

// KwargsLevel selects how variadic-keyword entries are laid out on the
// tagged mapping.
type KwargsLevel int

const (
	// KwargsAuto flattens entries at the root unless a name collision is
	// detected for the value being encoded, in which case that one value
	// falls back to the nested form. The choice is per encoded value, not
	// per declaration, so decoding accepts both forms for one signature.
	KwargsAuto KwargsLevel = iota
	// KwargsRoot always flattens and fails the encode on collision.
	KwargsRoot
	// KwargsSafe always nests entries under the kwargs field.
	KwargsSafe
)

// String returns the configuration spelling of l.
func (l KwargsLevel) String() string {
	switch l {
	case KwargsAuto:
		return "auto"
	case KwargsRoot:
		return "root"
	case KwargsSafe:
		return "safe"
	default:
		return "unknown"
	}
}
