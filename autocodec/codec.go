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

	"dirpx.dev/xser/apis"
	uref "dirpx.dev/xser/utils/reflect"
)

// Codec is an auto-derived codec for a struct type whose instances are
// fully described by their declared fields. The schema is resolved once at
// declaration time; Encode and Decode are pure afterwards.
type Codec struct {
	target reflect.Type // struct type; nil for abstract declarations
	ptr    bool         // declared as *T, so Decode returns pointers
	sig    string
	schema *Schema

	implicitDefaults bool
	level            KwargsLevel
	aliases          []string

	register bool
	forced   *bool
}

var (
	_ apis.Encoder    = (*Codec)(nil)
	_ apis.Decoder    = (*Codec)(nil)
	_ apis.Aliaser    = (*Codec)(nil)
	_ apis.Abstracter = (*Codec)(nil)
)

// New derives a codec from target, which must be a struct value, a pointer
// to one, or nil for an abstract declaration. Abstract declarations require
// an explicit signature and carry no encode capability.
func New(target any, opts ...Option) (*Codec, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return build(target, s)
}

// Derive builds a codec for target inheriting parent's declaration options:
// the defaults policy, the kwargs level and the registration opt-out carry
// over; a forced-registration override does not. Options passed here apply
// on top of the inherited ones.
func (c *Codec) Derive(target any, opts ...Option) (*Codec, error) {
	s := settings{
		implicitDefaults: c.implicitDefaults,
		level:            c.level,
		noRegister:       !c.register,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return build(target, s)
}

func build(target any, s settings) (*Codec, error) {
	c := &Codec{
		sig:              s.sig,
		implicitDefaults: s.implicitDefaults,
		level:            s.level,
		aliases:          s.aliases,
		register:         !s.noRegister,
		forced:           s.forced,
	}

	if target == nil {
		if c.sig == "" {
			return nil, fmt.Errorf("autocodec: abstract declaration without a signature: %w", apis.ErrUnintrospectableSignature)
		}
		return c, nil
	}

	t := reflect.TypeOf(target)
	if t.Kind() == reflect.Ptr {
		c.ptr = true
		t = t.Elem()
	}
	schema, err := Resolve(t)
	if err != nil {
		return nil, err
	}
	c.target = t
	c.schema = schema
	if c.sig == "" {
		c.sig = uref.EntityName(t)
		if c.sig == "" {
			return nil, fmt.Errorf("autocodec: unnamed type %s needs an explicit signature: %w", t, apis.ErrUnintrospectableSignature)
		}
	}
	if s.prototype != nil {
		if err := c.adoptDefaults(s.prototype); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// adoptDefaults captures declared defaults from a prototype instance.
func (c *Codec) adoptDefaults(prototype any) error {
	rv := reflect.ValueOf(prototype)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Type() != c.target {
		return fmt.Errorf("autocodec: defaults prototype is %T, want %s: %w", prototype, c.target, apis.ErrUnintrospectableSignature)
	}
	for i := range c.schema.Params {
		p := &c.schema.Params[i]
		if p.HasDefault {
			p.Default = rv.Field(p.field).Interface()
		}
	}
	return nil
}

// Signature returns the codec's signature.
func (c *Codec) Signature() string { return c.sig }

// Aliases returns alternate decode-view signatures.
func (c *Codec) Aliases() []string { return c.aliases }

// Abstract reports whether this declaration lacks encode capability.
func (c *Codec) Abstract() bool { return c.target == nil }

// AutoRegister reports the inherited registration flag.
func (c *Codec) AutoRegister() bool { return c.register }

// ForcedRegister returns the non-inherited per-declaration override and
// whether one was set.
func (c *Codec) ForcedRegister() (on, ok bool) {
	if c.forced == nil {
		return false, false
	}
	return *c.forced, true
}

// HandledType returns the declared target type, nil for abstract
// declarations.
func (c *Codec) HandledType() reflect.Type {
	if c.target == nil {
		return nil
	}
	if c.ptr {
		return reflect.PtrTo(c.target)
	}
	return c.target
}

// Encode captures v's construction arguments. Fixed parameters appear by
// name, extra positional values under the args field, and extra keyword
// values flattened or nested per the kwargs level. The collision check and
// the auto fallback run against this one value only.
func (c *Codec) Encode(v any) (apis.Fields, error) {
	if c.target == nil {
		return nil, &apis.AbstractRegistrationError{Name: c.sig}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("autocodec: %s codec cannot encode a nil pointer", c.sig)
		}
		rv = rv.Elem()
	}
	if rv.Type() != c.target {
		return nil, fmt.Errorf("autocodec: %s codec cannot encode %T", c.sig, v)
	}

	fields := make(apis.Fields, len(c.schema.Params))
	var extra map[string]any
	for _, p := range c.schema.Params {
		fv := rv.Field(p.field)
		switch p.Kind {
		case VariadicPositional:
			if seq := fv.Interface().([]any); len(seq) > 0 {
				fields[c.schema.ArgsName] = seq
			}
		case VariadicKeyword:
			extra = fv.Interface().(map[string]any)
		default:
			val := fv.Interface()
			if c.implicitDefaults && p.HasDefault && reflect.DeepEqual(val, p.Default) {
				continue
			}
			fields[p.Name] = val
		}
	}

	if len(extra) == 0 {
		return fields, nil
	}
	nest := c.level == KwargsSafe
	if !nest {
		if name, collides := c.collision(extra); collides {
			if c.level == KwargsRoot {
				return nil, fmt.Errorf("autocodec: %s: variadic-keyword entry %q collides with a root field: %w", c.sig, name, apis.ErrFieldNameCollision)
			}
			nest = true // auto level: this value only
		}
	}
	if nest {
		nested := make(map[string]any, len(extra))
		for k, v := range extra {
			nested[k] = v
		}
		fields[c.schema.KwargsName] = nested
		return fields, nil
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields, nil
}

// collision reports the first variadic-keyword key that would clash with a
// root-level field: a fixed parameter name, either collector name, or the
// reserved type tag.
func (c *Codec) collision(extra map[string]any) (string, bool) {
	for k := range extra {
		if _, fixed := c.schema.fixed[k]; fixed {
			return k, true
		}
		switch k {
		case c.schema.ArgsName, c.schema.KwargsName, apis.TypeKey:
			return k, true
		}
	}
	return "", false
}

// Decode rebuilds an instance from its construction arguments. Both kwargs
// layouts are accepted for one signature: the nested form is recognized
// when the only leftover field is the kwargs field holding a mapping.
func (c *Codec) Decode(fields apis.Fields) (any, error) {
	if c.target == nil {
		return nil, fmt.Errorf("autocodec: abstract declaration %s cannot decode: %w", c.sig, apis.ErrUnregisteredType)
	}
	rest := make(map[string]any, len(fields))
	for k, v := range fields {
		rest[k] = v
	}

	out := reflect.New(c.target).Elem()
	for _, p := range c.schema.Params {
		switch p.Kind {
		case VariadicPositional, VariadicKeyword:
			continue
		}
		raw, ok := rest[p.Name]
		if !ok {
			if !p.HasDefault {
				return nil, fmt.Errorf("autocodec: %s document missing required field %q: %w", c.sig, p.Name, apis.ErrMalformedDocument)
			}
			raw = p.Default
		} else {
			delete(rest, p.Name)
		}
		if err := assign(out.Field(p.field), raw); err != nil {
			return nil, fmt.Errorf("autocodec: %s field %q: %w", c.sig, p.Name, err)
		}
	}

	if c.schema.args >= 0 {
		if raw, ok := rest[c.schema.ArgsName]; ok {
			seq, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("autocodec: %s field %q is %T, want a sequence: %w", c.sig, c.schema.ArgsName, raw, apis.ErrMalformedDocument)
			}
			out.Field(c.schema.Params[c.schema.args].field).Set(reflect.ValueOf(seq))
			delete(rest, c.schema.ArgsName)
		}
	}

	if c.schema.kwargs >= 0 {
		extra := map[string]any{}
		if m, ok := nestedKwargs(rest, c.schema.KwargsName); ok {
			extra = m
		} else {
			for k, v := range rest {
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			out.Field(c.schema.Params[c.schema.kwargs].field).Set(reflect.ValueOf(extra))
		}
	} else if len(rest) > 0 {
		for k := range rest {
			return nil, fmt.Errorf("autocodec: %s document carries unknown field %q: %w", c.sig, k, apis.ErrMalformedDocument)
		}
	}

	if c.ptr {
		return out.Addr().Interface(), nil
	}
	return out.Interface(), nil
}

// nestedKwargs recognizes the collision-safe nested layout: exactly one
// leftover field, named as the kwargs collector, holding a mapping.
func nestedKwargs(rest map[string]any, name string) (map[string]any, bool) {
	if len(rest) != 1 || name == "" {
		return nil, false
	}
	raw, ok := rest[name]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	return m, ok
}

// assign stores a decoded document value into a struct field, converting
// between numeric representations where the document form is wider or
// narrower than the declared field.
func assign(field reflect.Value, v any) error {
	if v == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	ft := field.Type()
	if rv.Type().AssignableTo(ft) {
		field.Set(rv)
		return nil
	}
	if numericKind(rv.Kind()) && numericKind(ft.Kind()) && rv.Type().ConvertibleTo(ft) {
		field.Set(rv.Convert(ft))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s: %w", v, ft, apis.ErrMalformedDocument)
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
