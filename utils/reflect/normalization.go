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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTooDeep indicates that pointer unwrapping did not reach a
	// non-pointer type within the configured depth.
	ErrReflectTooDeep = errors.New("reflect: pointer nesting exceeds unwrap limit")
)

// Normalize unwraps pointer types according to config (MaxUnwrap) and
// returns the pointed-to type. Containers (slices, maps, channels) are NOT
// unwrapped: a codec handling an element type must not receive container
// values.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap; i++ {
		if t.Kind() != reflect.Ptr {
			return t, nil
		}
		t = t.Elem()
	}
	if t.Kind() == reflect.Ptr {
		return nil, ErrReflectTooDeep
	}
	return t, nil
}
