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

package engine_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/config"
	"dirpx.dev/xser/types"
)

func TestEncode_JSONText(t *testing.T) {
	eng, _ := newEngine(t)

	data, err := eng.Encode(types.Tuple{1, 2})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := `{"__type__":"tuple","value":[1,2]}`
	if string(data) != want {
		t.Fatalf("Encode = %s, want %s", data, want)
	}

	// text round trip
	got, err := eng.Decode(data)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(types.Tuple{1, 2}, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Indent(t *testing.T) {
	eng, _ := newEngine(t, config.WithIndent("  "))
	data, err := eng.Encode(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	want := "{\n  \"a\": 1\n}"
	if string(data) != want {
		t.Fatalf("Encode = %q, want %q", data, want)
	}
}

func TestDecode_YAMLInput(t *testing.T) {
	eng, _ := newEngine(t)

	// YAML input: unquoted keys, comments, integer scalars stay integral
	doc := `
# a hand-written document
__type__: audio.Sound
path: a.wav
rate: 44100
gain: 3
`
	got, err := eng.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := Sound{Path: "a.wav", Rate: 44100, Opts: map[string]any{"gain": 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("YAML decode mismatch (-want +got):\n%s", diff)
	}

	// integers survive as ints through the plain path too
	got, err = eng.Decode([]byte(`{a: 1}`))
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, got); diff != "" {
		t.Fatalf("int fidelity mismatch (-want +got):\n%s", diff)
	}

	// garbage is malformed
	if _, err := eng.Decode([]byte("{::::")); !errors.Is(err, apis.ErrMalformedDocument) {
		t.Fatalf("garbage: want ErrMalformedDocument, got %v", err)
	}
}

func TestEncodeTo_DecodeFrom(t *testing.T) {
	eng, _ := newEngine(t)

	var buf bytes.Buffer
	v := Sound{Path: "a.wav", Rate: 1}
	if err := eng.EncodeTo(&buf, v); err != nil {
		t.Fatalf("EncodeTo: unexpected error: %v", err)
	}
	got, err := eng.DecodeFrom(&buf)
	if err != nil {
		t.Fatalf("DecodeFrom: unexpected error: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("stream round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := eng.DecodeFrom(strings.NewReader("")); !errors.Is(err, apis.ErrMalformedDocument) {
		t.Fatalf("empty input: want ErrMalformedDocument, got %v", err)
	}
}

func TestCBOR_RoundTripAndDeterminism(t *testing.T) {
	eng, _ := newEngine(t)

	v := map[string]any{
		"tuple": types.Tuple{1, 2},
		"text":  "x",
		"n":     7,
	}
	data, err := eng.EncodeCBOR(v)
	if err != nil {
		t.Fatalf("EncodeCBOR: unexpected error: %v", err)
	}
	got, err := eng.DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR: unexpected error: %v", err)
	}
	gm, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("DecodeCBOR: got %T, want mapping", got)
	}
	if diff := cmp.Diff(types.Tuple{uint64(1), uint64(2)}, gm["tuple"]); diff != "" {
		t.Fatalf("CBOR tuple mismatch (-want +got):\n%s", diff)
	}

	// deterministic encoding: same document, same bytes
	again, err := eng.EncodeCBOR(map[string]any{
		"n":     7,
		"text":  "x",
		"tuple": types.Tuple{1, 2},
	})
	if err != nil {
		t.Fatalf("EncodeCBOR: unexpected error: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("EncodeCBOR not deterministic:\n%x\n%x", data, again)
	}

	if _, err := eng.DecodeCBOR([]byte{0xff, 0x00}); !errors.Is(err, apis.ErrMalformedDocument) {
		t.Fatalf("bad CBOR: want ErrMalformedDocument, got %v", err)
	}
}
