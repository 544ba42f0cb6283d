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

package engine

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/builtin"
	"dirpx.dev/xser/config"
	"dirpx.dev/xser/types"
)

// ErrDepthExceeded is returned when the tree walk passes the configured
// MaxDepth. Go values, unlike Documents, can be cyclic; the guard turns a
// cycle into an error instead of a stack overflow.
var ErrDepthExceeded = errors.New("xser(engine): nesting depth exceeds limit")

// New constructs an apis.Engine over reg. The engine holds no mutable
// traversal state; concurrent encode/decode calls against a stable registry
// are safe.
func New(reg apis.Registry, cfg apis.Config) apis.Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	return &engine{reg: reg, cfg: cfg}
}

// engine is an immutable recursive walker over one registry.
type engine struct {
	reg apis.Registry
	cfg apis.Config
}

// Ensure engine implements apis.Engine.
var _ apis.Engine = (*engine)(nil)

// EncodeValue converts v into its plain Document form.
func (e *engine) EncodeValue(v any) (any, error) {
	return e.walkEncode(v, 0)
}

// DecodeValue converts a Document back into a value.
func (e *engine) DecodeValue(node any) (any, error) {
	return e.walkDecode(node, 0)
}

// walkEncode dispatches one node. Rule order: native scalars and
// containers, builtin codec table (non-overridable), registry, reflect
// structural fallback for unnamed composites.
func (e *engine) walkEncode(v any, depth int) (any, error) {
	if depth > e.cfg.MaxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrDepthExceeded, e.cfg.MaxDepth)
	}

	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x, nil
	case []any:
		return e.encodeSequence(x, depth)
	case map[string]any:
		return e.encodeMapping(x, depth)
	}

	t := reflect.TypeOf(v)
	if enc, ok := builtin.ByType(t); ok {
		return e.encodeTagged(enc, v, depth)
	}
	if enc, ok := e.reg.ByType(t); ok {
		return e.encodeTagged(enc, v, depth)
	}

	// Structural fallback for unnamed composites and named basic kinds.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return e.walkEncode(rv.Elem().Interface(), depth)
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		seq := make([]any, rv.Len())
		for i := range seq {
			ev, err := e.walkEncode(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			seq[i] = ev
		}
		return seq, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("xser(engine): mapping with non-text keys %s: %w", rv.Type(), apis.ErrUnregisteredType)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return e.encodeMapping(m, depth)
	}

	return nil, fmt.Errorf("xser(engine): no codec for type %T: %w", v, apis.ErrUnregisteredType)
}

func (e *engine) encodeSequence(seq []any, depth int) (any, error) {
	out := make([]any, len(seq))
	for i, v := range seq {
		ev, err := e.walkEncode(v, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

// encodeMapping encodes a plain mapping node. A mapping whose encoded form
// would carry the literal TypeKey key is wrapped in the tagged dict/value
// form; the check runs before the structural rule emits the node.
func (e *engine) encodeMapping(m map[string]any, depth int) (any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		ev, err := e.walkEncode(v, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = ev
	}
	if _, collides := out[apis.TypeKey]; collides {
		return map[string]any{
			apis.TypeKey:         builtin.DictSignature,
			builtin.DictValueKey: out,
		}, nil
	}
	return out, nil
}

// encodeTagged produces the tagged mapping for a codec-handled value,
// recursively encoding every field value.
func (e *engine) encodeTagged(enc apis.Encoder, v any, depth int) (any, error) {
	fields, err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields)+1)
	for k, fv := range fields {
		if k == apis.TypeKey {
			return nil, fmt.Errorf("xser(engine): codec %q emitted the reserved %q field: %w",
				enc.Signature(), apis.TypeKey, apis.ErrMalformedDocument)
		}
		ev, err := e.walkEncode(fv, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = ev
	}
	out[apis.TypeKey] = enc.Signature()
	return out, nil
}

// walkDecode dispatches one Document node. Tagged mappings resolve through
// the builtin table first, then the registry.
func (e *engine) walkDecode(node any, depth int) (any, error) {
	if depth > e.cfg.MaxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrDepthExceeded, e.cfg.MaxDepth)
	}

	switch x := node.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time: // yaml resolves timestamp scalars
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, v := range x {
			dv, err := e.walkDecode(v, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case map[string]any:
		raw, tagged := x[apis.TypeKey]
		if !tagged {
			out := make(map[string]any, len(x))
			for k, v := range x {
				dv, err := e.walkDecode(v, depth+1)
				if err != nil {
					return nil, err
				}
				out[k] = dv
			}
			return out, nil
		}
		sig, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("xser(engine): %s is %T, want text: %w", apis.TypeKey, raw, apis.ErrMalformedDocument)
		}
		return e.decodeTagged(sig, x, depth)
	}

	return nil, fmt.Errorf("xser(engine): invalid document node of type %T: %w", node, apis.ErrMalformedDocument)
}

func (e *engine) decodeTagged(sig string, node map[string]any, depth int) (any, error) {
	if sig == builtin.DictSignature {
		return e.decodeDictTag(node, depth)
	}
	if dec, ok := builtin.BySignature(sig); ok {
		return e.invokeDecoder(dec, node, depth)
	}
	if c, ok := e.reg.BySignature(sig); ok {
		if dec, ok := c.(apis.Decoder); ok {
			return e.invokeDecoder(dec, node, depth)
		}
	}
	if e.cfg.Lenient {
		fields, err := e.decodeFields(node, depth)
		if err != nil {
			return nil, err
		}
		return types.Opaque{Signature: sig, Fields: fields}, nil
	}
	return nil, fmt.Errorf("xser(engine): no codec for signature %q: %w", sig, apis.ErrUnregisteredType)
}

// decodeDictTag unwraps the tagged dict/value form. Recursion here is
// non-uniform: the wrapped mapping's values are walked, but the mapping
// itself is not, so its literal TypeKey entry survives untouched.
func (e *engine) decodeDictTag(node map[string]any, depth int) (any, error) {
	for k := range node {
		if k != apis.TypeKey && k != builtin.DictValueKey {
			return nil, fmt.Errorf("xser(engine): dict tag carries unknown field %q: %w", k, apis.ErrMalformedDocument)
		}
	}
	raw, ok := node[builtin.DictValueKey]
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("xser(engine): dict tag value is %T, want a mapping: %w", raw, apis.ErrMalformedDocument)
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		dv, err := e.walkDecode(v, depth+1)
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

func (e *engine) invokeDecoder(dec apis.Decoder, node map[string]any, depth int) (any, error) {
	fields, err := e.decodeFields(node, depth)
	if err != nil {
		return nil, err
	}
	return dec.Decode(fields)
}

// decodeFields recursively decodes every non-tag field of a tagged node.
func (e *engine) decodeFields(node map[string]any, depth int) (apis.Fields, error) {
	fields := make(apis.Fields, len(node)-1)
	for k, v := range node {
		if k == apis.TypeKey {
			continue
		}
		dv, err := e.walkDecode(v, depth+1)
		if err != nil {
			return nil, err
		}
		fields[k] = dv
	}
	return fields, nil
}
