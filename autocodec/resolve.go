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

import (
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/xser/apis"
)

// TagName is the struct tag key declaring construction-signature metadata:
//
//	Field T   `xser:"name"`                  positional-or-keyword
//	Field T   `xser:"name,positional"`       positional
//	Field T   `xser:"name,keyword"`          keyword-only
//	Field T   `xser:"name,default"`          has a declared default
//	Rest  []any          `xser:"args,variadic"`      variadic-positional
//	Extra map[string]any `xser:"kwargs,keywords"`    variadic-keyword
//	Skip  T   `xser:"-"`                    excluded
//
// An empty name keeps the lower-cased field name. Unexported fields are
// excluded.
const TagName = "xser"

// Default field names for the two variadic collectors.
const (
	DefaultArgsName   = "args"
	DefaultKwargsName = "kwargs"
)

var (
	anySliceType = reflect.TypeOf([]any(nil))
	anyMapType   = reflect.TypeOf(map[string]any(nil))
)

// Param is one resolved parameter of a construction signature.
type Param struct {
	// Name is the field name on the tagged mapping.
	Name string
	// Kind classifies how the parameter binds.
	Kind Kind
	// HasDefault reports a declared default; parameters without one are
	// required on decode.
	HasDefault bool
	// Default holds the declared default value. Zero of the field type
	// unless a prototype supplies one.
	Default any
	// field indexes into the target struct.
	field int
}

// Schema is the resolved, ordered parameter list of one target type,
// derived once at declaration time and immutable afterwards.
type Schema struct {
	// Params lists parameters in declaration order.
	Params []Param
	// ArgsName and KwargsName are the wire field names of the variadic
	// collectors, empty when the signature has none.
	ArgsName   string
	KwargsName string

	fixed  map[string]int // fixed parameter name -> Params index
	args   int            // Params index of the variadic-positional, -1 if none
	kwargs int            // Params index of the variadic-keyword, -1 if none
}

// Resolve enumerates the construction signature of a struct type from its
// declared fields and tags. It is a pure function of the declaration; any
// layout that cannot be statically enumerated fails with
// ErrUnintrospectableSignature.
func Resolve(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("autocodec: nil target: %w", apis.ErrUnintrospectableSignature)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("autocodec: target %s is a %s, want a struct: %w", t, t.Kind(), apis.ErrUnintrospectableSignature)
	}

	s := &Schema{fixed: make(map[string]int), args: -1, kwargs: -1}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || f.Anonymous {
			continue // not part of the construction signature
		}
		name, opts, skip := splitTag(f)
		if skip {
			continue
		}

		p := Param{Name: name, Kind: PositionalOrKeyword, field: i}
		for _, opt := range opts {
			switch opt {
			case "positional":
				p.Kind = Positional
			case "keyword":
				p.Kind = KeywordOnly
			case "variadic":
				p.Kind = VariadicPositional
			case "keywords":
				p.Kind = VariadicKeyword
			case "default":
				p.HasDefault = true
			default:
				return nil, fmt.Errorf("autocodec: field %s.%s: unknown tag option %q: %w", t, f.Name, opt, apis.ErrUnintrospectableSignature)
			}
		}

		switch p.Kind {
		case VariadicPositional:
			if f.Type != anySliceType {
				return nil, fmt.Errorf("autocodec: field %s.%s is %s, variadic-positional requires []any: %w", t, f.Name, f.Type, apis.ErrUnintrospectableSignature)
			}
			if s.args >= 0 {
				return nil, fmt.Errorf("autocodec: %s declares two variadic-positional fields: %w", t, apis.ErrUnintrospectableSignature)
			}
			s.args = len(s.Params)
			s.ArgsName = p.Name
		case VariadicKeyword:
			if f.Type != anyMapType {
				return nil, fmt.Errorf("autocodec: field %s.%s is %s, variadic-keyword requires map[string]any: %w", t, f.Name, f.Type, apis.ErrUnintrospectableSignature)
			}
			if s.kwargs >= 0 {
				return nil, fmt.Errorf("autocodec: %s declares two variadic-keyword fields: %w", t, apis.ErrUnintrospectableSignature)
			}
			s.kwargs = len(s.Params)
			s.KwargsName = p.Name
		default:
			if _, dup := s.fixed[p.Name]; dup {
				return nil, fmt.Errorf("autocodec: %s declares parameter %q twice: %w", t, p.Name, apis.ErrUnintrospectableSignature)
			}
			p.Default = reflect.Zero(f.Type).Interface()
			s.fixed[p.Name] = len(s.Params)
		}
		s.Params = append(s.Params, p)
	}

	for _, name := range []string{s.ArgsName, s.KwargsName} {
		if name == "" {
			continue
		}
		if _, dup := s.fixed[name]; dup {
			return nil, fmt.Errorf("autocodec: %s binds %q both fixed and variadic: %w", t, name, apis.ErrUnintrospectableSignature)
		}
	}
	if s.ArgsName != "" && s.ArgsName == s.KwargsName {
		return nil, fmt.Errorf("autocodec: %s binds %q to both variadic collectors: %w", t, s.ArgsName, apis.ErrUnintrospectableSignature)
	}
	for name := range s.fixed {
		if name == apis.TypeKey {
			return nil, fmt.Errorf("autocodec: %s binds the reserved %q field: %w", t, apis.TypeKey, apis.ErrUnintrospectableSignature)
		}
	}
	if s.ArgsName == apis.TypeKey || s.KwargsName == apis.TypeKey {
		return nil, fmt.Errorf("autocodec: %s binds the reserved %q field: %w", t, apis.TypeKey, apis.ErrUnintrospectableSignature)
	}
	return s, nil
}

// splitTag extracts the wire name and options of one struct field.
func splitTag(f reflect.StructField) (name string, opts []string, skip bool) {
	tag, ok := f.Tag.Lookup(TagName)
	if !ok {
		return strings.ToLower(f.Name), nil, false
	}
	if tag == "-" {
		return "", nil, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	for _, p := range parts[1:] {
		if p != "" {
			opts = append(opts, p)
		}
	}
	return name, opts, false
}

// FixedNames returns the fixed parameter names (every kind except the two
// variadic collectors), used for collision detection.
func (s *Schema) FixedNames() map[string]bool {
	out := make(map[string]bool, len(s.fixed))
	for name := range s.fixed {
		out[name] = true
	}
	return out
}
