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

package reflect_test

import (
	"reflect"
	"testing"

	"dirpx.dev/xser/config"
	uref "dirpx.dev/xser/utils/reflect"
)

type Thing struct{}

type Box[T any] struct{ V T }

func TestNormalize_UnwrapsPointers(t *testing.T) {
	cfg := config.DefaultConfig()

	got, err := uref.Normalize(reflect.TypeOf(&Thing{}), cfg)
	if err != nil {
		t.Fatalf("Normalize(*Thing): unexpected error: %v", err)
	}
	if got != reflect.TypeOf(Thing{}) {
		t.Fatalf("Normalize(*Thing) = %v, want Thing", got)
	}

	pp := new(*Thing)
	got, err = uref.Normalize(reflect.TypeOf(&pp), cfg)
	if err != nil {
		t.Fatalf("Normalize(***Thing): unexpected error: %v", err)
	}
	if got != reflect.TypeOf(Thing{}) {
		t.Fatalf("Normalize(***Thing) = %v, want Thing", got)
	}
}

func TestNormalize_KeepsContainers(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, typ := range []reflect.Type{
		reflect.TypeOf([]Thing{}),
		reflect.TypeOf(map[string]Thing{}),
	} {
		got, err := uref.Normalize(typ, cfg)
		if err != nil {
			t.Fatalf("Normalize(%v): unexpected error: %v", typ, err)
		}
		if got != typ {
			t.Fatalf("Normalize(%v) = %v, want unchanged", typ, got)
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	if _, err := uref.Normalize(nil, cfg); err != uref.ErrReflectNilType {
		t.Fatalf("nil type: want ErrReflectNilType, got %v", err)
	}

	// exceed the unwrap limit
	typ := reflect.TypeOf(Thing{})
	for i := 0; i < config.DefaultMaxUnwrap+1; i++ {
		typ = reflect.PtrTo(typ)
	}
	if _, err := uref.Normalize(typ, cfg); err != uref.ErrReflectTooDeep {
		t.Fatalf("deep pointer: want ErrReflectTooDeep, got %v", err)
	}
}

func TestEntityName(t *testing.T) {
	if got := uref.EntityName(reflect.TypeOf(Thing{})); got != "reflect_test.Thing" {
		t.Fatalf("EntityName(Thing) = %q, want reflect_test.Thing", got)
	}
	// generic instantiation parameters are stripped
	if got := uref.EntityName(reflect.TypeOf(Box[int]{})); got != "reflect_test.Box" {
		t.Fatalf("EntityName(Box[int]) = %q, want reflect_test.Box", got)
	}
	// unnamed types have no entity name
	if got := uref.EntityName(reflect.TypeOf(struct{}{})); got != "" {
		t.Fatalf("EntityName(struct{}) = %q, want empty", got)
	}
	if got := uref.EntityName(nil); got != "" {
		t.Fatalf("EntityName(nil) = %q, want empty", got)
	}
}
