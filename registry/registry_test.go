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

package registry_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/config"
	"dirpx.dev/xser/registry"
)

type T1 struct{ A int }
type T2 struct{ B string }

// fullCodec has both capabilities and optional aliases.
type fullCodec struct {
	sig     string
	typ     reflect.Type
	aliases []string
}

func (c *fullCodec) Signature() string         { return c.sig }
func (c *fullCodec) HandledType() reflect.Type { return c.typ }
func (c *fullCodec) Encode(v any) (apis.Fields, error) {
	return apis.Fields{"value": v}, nil
}
func (c *fullCodec) Decode(fields apis.Fields) (any, error) {
	return fields["value"], nil
}
func (c *fullCodec) Aliases() []string { return c.aliases }

// decCodec is decode-only.
type decCodec struct{ sig string }

func (c *decCodec) Signature() string { return c.sig }
func (c *decCodec) Decode(fields apis.Fields) (any, error) {
	return fields, nil
}

// encNilCodec claims encode capability but handles no type; registering it
// is an abstract registration.
type encNilCodec struct{ sig string }

func (c *encNilCodec) Signature() string               { return c.sig }
func (c *encNilCodec) HandledType() reflect.Type       { return nil }
func (c *encNilCodec) Encode(any) (apis.Fields, error) { return nil, nil }

func TestRegister_IdempotentAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	c := &fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T1{})}

	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	// idempotent re-register of the same codec
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register idempotent: unexpected error: %v", err)
	}

	if got, ok := reg.BySignature("domain.T1"); !ok || got != apis.Codec(c) {
		t.Fatalf("BySignature: got (%v,%v), want codec,true", got, ok)
	}
	if got, ok := reg.ByType(reflect.TypeOf(T1{})); !ok || got != apis.Encoder(c) {
		t.Fatalf("ByType: got (%v,%v), want codec,true", got, ok)
	}
	// pointer types normalize to the handled type
	if _, ok := reg.ByType(reflect.TypeOf(&T1{})); !ok {
		t.Fatalf("ByType(&T1{}): want normalized hit")
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegister_DuplicateAndOverride(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	c1 := &fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T1{})}
	c2 := &fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T2{})}

	if err := reg.Register(c1); err != nil {
		t.Fatalf("Register c1: unexpected error: %v", err)
	}
	if err := reg.Register(c2); !errors.Is(err, apis.ErrDuplicateSignature) {
		t.Fatalf("Register c2: want ErrDuplicateSignature, got %v", err)
	}
	if err := reg.Override(c2); err != nil {
		t.Fatalf("Override c2: unexpected error: %v", err)
	}
	got, ok := reg.BySignature("domain.T1")
	if !ok || got != apis.Codec(c2) {
		t.Fatalf("BySignature after override: got (%v,%v), want c2,true", got, ok)
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() after override = %d, want 1", reg.Count())
	}
}

func TestRegister_ReservedSignature(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	for _, sig := range []string{"tuple", "set", "slice", "dict", "ndarray"} {
		c := &fullCodec{sig: sig, typ: reflect.TypeOf(T1{})}
		if err := reg.Register(c); !errors.Is(err, apis.ErrDuplicateSignature) {
			t.Fatalf("Register(%q): want ErrDuplicateSignature, got %v", sig, err)
		}
	}
}

func TestRegister_Abstract(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	err := reg.Register(&encNilCodec{sig: "domain.Base"})
	var are *apis.AbstractRegistrationError
	if !errors.As(err, &are) {
		t.Fatalf("Register abstract: want AbstractRegistrationError, got %v", err)
	}
	if got, want := are.Error(), "Cannot register abstract class domain.Base."; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestRegister_Errors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	if err := reg.Register(nil); err != registry.ErrNilCodec {
		t.Fatalf("nil codec: want ErrNilCodec, got %v", err)
	}
	if err := reg.Register(&fullCodec{sig: "", typ: reflect.TypeOf(T1{})}); err != registry.ErrEmptySignature {
		t.Fatalf("empty signature: want ErrEmptySignature, got %v", err)
	}
}

func TestAliases(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	c := &fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T1{}), aliases: []string{"legacy.T1"}}
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}

	if got, ok := reg.BySignature("legacy.T1"); !ok || got != apis.Codec(c) {
		t.Fatalf("BySignature(alias): got (%v,%v), want codec,true", got, ok)
	}
	// aliases count as decode bindings, not separate codecs
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}

	// removing the alias keeps the primary
	reg.Unregister("legacy.T1")
	if _, ok := reg.BySignature("legacy.T1"); ok {
		t.Fatalf("BySignature(alias) after Unregister: want miss")
	}
	if _, ok := reg.BySignature("domain.T1"); !ok {
		t.Fatalf("BySignature(primary) after alias Unregister: want hit")
	}

	// removing the primary removes everything
	c2 := &fullCodec{sig: "domain.T2", typ: reflect.TypeOf(T2{}), aliases: []string{"legacy.T2"}}
	if err := reg.Register(c2); err != nil {
		t.Fatalf("Register c2: unexpected error: %v", err)
	}
	reg.Unregister("domain.T2")
	if _, ok := reg.BySignature("legacy.T2"); ok {
		t.Fatalf("alias survived primary Unregister")
	}
	if _, ok := reg.ByType(reflect.TypeOf(T2{})); ok {
		t.Fatalf("encode binding survived primary Unregister")
	}
}

func TestEnableDisable(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	c := &fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T1{}), aliases: []string{"legacy.T1"}}
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}

	if !reg.Disable("domain.T1") {
		t.Fatalf("Disable: want true for known signature")
	}
	if _, ok := reg.BySignature("domain.T1"); ok {
		t.Fatalf("BySignature after Disable: want miss")
	}
	if _, ok := reg.BySignature("legacy.T1"); ok {
		t.Fatalf("BySignature(alias) after primary Disable: want miss")
	}
	if _, ok := reg.ByType(reflect.TypeOf(T1{})); ok {
		t.Fatalf("ByType after Disable: want miss")
	}

	if !reg.Enable("domain.T1") {
		t.Fatalf("Enable: want true for known signature")
	}
	if _, ok := reg.BySignature("legacy.T1"); !ok {
		t.Fatalf("BySignature(alias) after Enable: want hit")
	}
	if reg.Disable("unknown") {
		t.Fatalf("Disable(unknown): want false")
	}
}

type named interface{ Name() string }

type withName struct{}

func (withName) Name() string { return "n" }

func TestByType_InterfaceMatch(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	c := &fullCodec{sig: "domain.Named", typ: reflect.TypeOf((*named)(nil)).Elem()}
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	if got, ok := reg.ByType(reflect.TypeOf(withName{})); !ok || got != apis.Encoder(c) {
		t.Fatalf("ByType(withName{}): got (%v,%v), want interface codec,true", got, ok)
	}
	// exact registrations beat interface matches
	exact := &fullCodec{sig: "domain.WithName", typ: reflect.TypeOf(withName{})}
	if err := reg.Register(exact); err != nil {
		t.Fatalf("Register exact: unexpected error: %v", err)
	}
	if got, _ := reg.ByType(reflect.TypeOf(withName{})); got != apis.Encoder(exact) {
		t.Fatalf("ByType(withName{}): got %v, want exact codec", got)
	}
}

func TestListingAndEntries(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	enc := &fullCodec{sig: "b.Codec", typ: reflect.TypeOf(T1{})}
	dec := &decCodec{sig: "a.Codec"}
	if err := reg.Register(enc); err != nil {
		t.Fatalf("Register enc: unexpected error: %v", err)
	}
	if err := reg.Register(dec); err != nil {
		t.Fatalf("Register dec: unexpected error: %v", err)
	}

	l := reg.Listing()
	if want := []string{"b.Codec"}; !reflect.DeepEqual(l.Encode, want) {
		t.Fatalf("Listing().Encode = %v, want %v", l.Encode, want)
	}
	if want := []string{"a.Codec", "b.Codec"}; !reflect.DeepEqual(l.Decode, want) {
		t.Fatalf("Listing().Decode = %v, want %v", l.Decode, want)
	}

	entries := reg.Entries()
	if len(entries) != 2 || entries[0].Signature != "b.Codec" || entries[1].Signature != "a.Codec" {
		t.Fatalf("Entries() = %+v, want registration order b.Codec, a.Codec", entries)
	}
}

func TestReset(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	if err := reg.Register(&fullCodec{sig: "domain.T1", typ: reflect.TypeOf(T1{})}); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	reg.Reset()
	if reg.Count() != 0 {
		t.Fatalf("Count() after Reset = %d, want 0", reg.Count())
	}
	if _, ok := reg.BySignature("domain.T1"); ok {
		t.Fatalf("BySignature after Reset: want miss")
	}
	if _, ok := reg.ByType(reflect.TypeOf(T1{})); ok {
		t.Fatalf("ByType after Reset: want miss")
	}
}
