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
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/config"
	"dirpx.dev/xser/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type C0 struct{}
type C1 struct{}
type C2 struct{}
type C3 struct{}
type C4 struct{}
type C5 struct{}
type C6 struct{}
type C7 struct{}
type C8 struct{}
type C9 struct{}

// TestConcurrentRegisterAndLookup verifies that Register/BySignature/
// ByType/Entries/Count are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	types := []reflect.Type{
		reflect.TypeOf(C0{}), reflect.TypeOf(C1{}), reflect.TypeOf(C2{}),
		reflect.TypeOf(C3{}), reflect.TypeOf(C4{}), reflect.TypeOf(C5{}),
		reflect.TypeOf(C6{}), reflect.TypeOf(C7{}), reflect.TypeOf(C8{}),
		reflect.TypeOf(C9{}),
	}
	codecs := make([]*fullCodec, len(types))
	for i, tt := range types {
		codecs[i] = &fullCodec{sig: "conc." + tt.Name(), typ: tt}
	}

	// Register once (sequential) to establish baseline.
	for _, c := range codecs {
		if err := reg.Register(c); err != nil {
			t.Fatalf("register %s: %v", c.sig, err)
		}
	}

	// Hammer with concurrent lookups and idempotent re-registrations.
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				c := codecs[i%len(codecs)]
				if got, ok := reg.BySignature(c.sig); !ok || got == nil {
					t.Errorf("BySignature failed for %q: ok=%v", c.sig, ok)
					return
				}
				if _, ok := reg.ByType(c.typ); !ok {
					t.Errorf("ByType failed for %v", c.typ)
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(codecs)
				_ = reg.Register(codecs[j]) // must be safe & idempotent
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if reg.Count() != len(codecs) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(codecs))
	}
	got := map[string]reflect.Type{}
	for _, e := range reg.Entries() {
		got[e.Signature] = e.Type
	}
	for _, c := range codecs {
		if got[c.sig] != c.typ {
			t.Fatalf("entry mismatch for %q: got %v want %v", c.sig, got[c.sig], c.typ)
		}
	}
}

// TestResetSnapshot ensures Reset is safe and Entries returns a stable snapshot.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_ = reg.Register(&fullCodec{sig: "conc.Snap0", typ: reflect.TypeOf(C0{})})
	_ = reg.Register(&fullCodec{sig: "conc.Snap1", typ: reflect.TypeOf(C1{})})

	snap := reg.Entries() // snapshot copy expected
	reg.Reset()

	// After Reset, Count() should be 0, but previous snapshot must still be usable.
	if reg.Count() != 0 {
		t.Fatalf("count after reset: got %d want 0", reg.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	// sanity
	if snap[0].Signature == "" || snap[1].Signature == "" {
		t.Fatalf("snapshot contents invalid after reset")
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())
