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
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"dirpx.dev/xser/apis"
)

// Text output is JSON; text input is parsed as YAML, which accepts JSON as
// a subset while keeping integer scalars integral and allowing comments and
// unquoted keys in hand-written documents.

// Encode serializes v to JSON text, honoring the configured Indent.
func (e *engine) Encode(v any) ([]byte, error) {
	node, err := e.EncodeValue(v)
	if err != nil {
		return nil, err
	}
	if e.cfg.Indent != "" {
		return json.MarshalIndent(node, "", e.cfg.Indent)
	}
	return json.Marshal(node)
}

// Decode parses one text document and decodes it.
func (e *engine) Decode(data []byte) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("xser(engine): %v: %w", err, apis.ErrMalformedDocument)
	}
	return e.DecodeValue(normalizeNode(node))
}

// EncodeTo streams the JSON text form of v to w.
func (e *engine) EncodeTo(w io.Writer, v any) error {
	node, err := e.EncodeValue(v)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if e.cfg.Indent != "" {
		enc.SetIndent("", e.cfg.Indent)
	}
	return enc.Encode(node)
}

// DecodeFrom reads one text document from r and decodes it.
func (e *engine) DecodeFrom(r io.Reader) (any, error) {
	var node any
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("xser(engine): empty input: %w", apis.ErrMalformedDocument)
		}
		return nil, fmt.Errorf("xser(engine): %v: %w", err, apis.ErrMalformedDocument)
	}
	return e.DecodeValue(normalizeNode(node))
}

// normalizeNode rewrites parser output into canonical Document node types.
// The yaml package produces map[string]any for string-keyed mappings but
// can surface map[any]any for merge and non-scalar keys.
func normalizeNode(node any) any {
	switch x := node.(type) {
	case []any:
		for i, v := range x {
			x[i] = normalizeNode(v)
		}
		return x
	case map[string]any:
		for k, v := range x {
			x[k] = normalizeNode(v)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[fmt.Sprint(k)] = normalizeNode(v)
		}
		return out
	default:
		return x
	}
}
