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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/builtin"
	uref "dirpx.dev/xser/utils/reflect"
)

var (
	// ErrNilCodec is returned when a nil codec is provided.
	ErrNilCodec = errors.New("xser(registry): nil codec provided")
	// ErrEmptySignature is returned when a codec declares an empty signature.
	ErrEmptySignature = errors.New("xser(registry): empty signature provided")
)

// New constructs an empty Registry. MaxUnwrap from cfg bounds pointer
// normalization during encode-view lookups.
func New(cfg apis.Config) apis.Registry {
	return &registry{cfg: cfg}
}

// registry keeps lock-free read paths on sync.Map and serializes all
// mutation on a mutex, following the write-side discipline of the rest of
// the package family.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and the registration order.
	mu sync.Mutex
	// bySig maps signature (primary or alias) to *entry.
	bySig sync.Map
	// byType maps a concrete or interface handled type to its *entry.
	byType sync.Map
	// order holds primary entries in registration order.
	order []*entry
}

// entry is one registered codec plus its bindings.
type entry struct {
	sig     string
	codec   apis.Codec
	typ     reflect.Type // non-nil when the codec has encode capability
	decode  bool         // decoder capability
	alias   bool
	aliases []string // alias signatures, primary entries only
	enabled atomic.Bool
}

// Register inserts a codec into both views. Idempotent for the same codec;
// a signature already bound to a different codec fails with
// ErrDuplicateSignature.
func (r *registry) Register(c apis.Codec) error {
	return r.register(c, false)
}

// Override replaces any existing binding for the codec's signature and
// aliases. Builtin signatures stay closed.
func (r *registry) Override(c apis.Codec) error {
	return r.register(c, true)
}

func (r *registry) register(c apis.Codec, override bool) error {
	if c == nil {
		return ErrNilCodec
	}
	sig := c.Signature()
	if sig == "" {
		return ErrEmptySignature
	}

	typ, decode := capabilities(c)
	if a, ok := c.(apis.Abstracter); (ok && a.Abstract()) || (typ == nil && !decode) {
		return &apis.AbstractRegistrationError{Name: sig}
	}

	sigs := append([]string{sig}, aliasesOf(c)...)
	for _, s := range sigs {
		if builtin.IsReserved(s) {
			return fmt.Errorf("xser(registry): signature %q is reserved by a builtin rule: %w", s, apis.ErrDuplicateSignature)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range sigs {
		old, ok := r.bySig.Load(s)
		if !ok {
			continue
		}
		if sameCodec(old.(*entry).codec, c) {
			return nil // idempotent re-registration
		}
		if !override {
			return fmt.Errorf("xser(registry): signature %q already bound: %w", s, apis.ErrDuplicateSignature)
		}
		r.removeLocked(s)
	}

	e := &entry{sig: sig, codec: c, typ: typ, decode: decode, aliases: sigs[1:]}
	e.enabled.Store(true)
	r.bySig.Store(sig, e)
	for _, a := range e.aliases {
		ae := &entry{sig: a, codec: c, typ: nil, decode: decode, alias: true}
		ae.enabled.Store(true)
		r.bySig.Store(a, ae)
	}
	if typ != nil {
		// Latest registration wins the encode view for a handled type;
		// distinct codecs for the same type are a caller choice.
		r.byType.Store(typ, e)
	}
	r.order = append(r.order, e)
	return nil
}

// Unregister removes a signature binding; removing a primary signature also
// removes its aliases and encode-view binding. Idempotent when absent.
func (r *registry) Unregister(signature string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(signature)
}

func (r *registry) removeLocked(signature string) {
	raw, ok := r.bySig.Load(signature)
	if !ok {
		return
	}
	e := raw.(*entry)
	if e.alias {
		r.bySig.Delete(signature)
		if praw, ok := r.bySig.Load(primaryOf(r.order, e.codec)); ok {
			p := praw.(*entry)
			p.aliases = without(p.aliases, signature)
		}
		return
	}
	r.bySig.Delete(e.sig)
	for _, a := range e.aliases {
		r.bySig.Delete(a)
	}
	if e.typ != nil {
		if cur, ok := r.byType.Load(e.typ); ok && cur.(*entry) == e {
			r.byType.Delete(e.typ)
		}
	}
	for i, oe := range r.order {
		if oe == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// BySignature returns the enabled codec bound to a signature.
func (r *registry) BySignature(signature string) (apis.Codec, bool) {
	raw, ok := r.bySig.Load(signature)
	if !ok {
		return nil, false
	}
	e := raw.(*entry)
	if !e.enabled.Load() {
		return nil, false
	}
	return e.codec, true
}

// ByType returns the enabled encoder most specifically matching t:
// exact type, then pointer-normalized type, then interface-typed handled
// types (largest method set wins, registration order breaks ties).
func (r *registry) ByType(t reflect.Type) (apis.Encoder, bool) {
	if t == nil {
		return nil, false
	}
	if enc, ok := r.loadType(t); ok {
		return enc, true
	}
	if nt, err := uref.Normalize(t, r.cfg); err == nil && nt != t {
		if enc, ok := r.loadType(nt); ok {
			return enc, true
		}
	}

	// Interface matches need a scan over registration order.
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *entry
	for _, e := range r.order {
		if e.typ == nil || e.typ.Kind() != reflect.Interface || !e.enabled.Load() {
			continue
		}
		if !t.Implements(e.typ) {
			continue
		}
		if best == nil || e.typ.NumMethod() > best.typ.NumMethod() {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best.codec.(apis.Encoder), true
}

func (r *registry) loadType(t reflect.Type) (apis.Encoder, bool) {
	raw, ok := r.byType.Load(t)
	if !ok {
		return nil, false
	}
	e := raw.(*entry)
	if !e.enabled.Load() {
		return nil, false
	}
	return e.codec.(apis.Encoder), true
}

// Enable re-activates a binding; a primary signature re-activates its
// aliases as well. Reports whether the signature is known.
func (r *registry) Enable(signature string) bool {
	return r.setEnabled(signature, true)
}

// Disable deactivates a binding without removing it; a primary signature
// deactivates its aliases as well.
func (r *registry) Disable(signature string) bool {
	return r.setEnabled(signature, false)
}

func (r *registry) setEnabled(signature string, enabled bool) bool {
	raw, ok := r.bySig.Load(signature)
	if !ok {
		return false
	}
	e := raw.(*entry)
	e.enabled.Store(enabled)
	if e.alias {
		return true
	}
	for _, a := range e.aliases {
		if araw, ok := r.bySig.Load(a); ok {
			araw.(*entry).enabled.Store(enabled)
		}
	}
	return true
}

// Entries returns a snapshot in registration order, aliases following their
// primary entry.
func (r *registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.Entry, 0, len(r.order))
	for _, e := range r.order {
		out = append(out, apis.Entry{
			Signature: e.sig,
			Type:      e.typ,
			Codec:     e.codec,
			Enabled:   e.enabled.Load(),
			Alias:     false,
		})
		for _, a := range e.aliases {
			araw, ok := r.bySig.Load(a)
			if !ok {
				continue
			}
			ae := araw.(*entry)
			out = append(out, apis.Entry{
				Signature: a,
				Codec:     e.codec,
				Enabled:   ae.enabled.Load(),
				Alias:     true,
			})
		}
	}
	return out
}

// Listing returns the sorted signatures visible to each view.
func (r *registry) Listing() apis.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	var l apis.Listing
	for _, e := range r.order {
		if !e.enabled.Load() {
			continue
		}
		if e.typ != nil {
			l.Encode = append(l.Encode, e.sig)
		}
		if e.decode {
			l.Decode = append(l.Decode, e.sig)
			for _, a := range e.aliases {
				if araw, ok := r.bySig.Load(a); ok && araw.(*entry).enabled.Load() {
					l.Decode = append(l.Decode, a)
				}
			}
		}
	}
	sort.Strings(l.Encode)
	sort.Strings(l.Decode)
	return l
}

// Count returns the number of registered codecs (aliases excluded).
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Reset clears all registered codecs.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySig = sync.Map{}
	r.byType = sync.Map{}
	r.order = nil
}

// capabilities derives the encode-view type and decode capability of c.
func capabilities(c apis.Codec) (reflect.Type, bool) {
	var typ reflect.Type
	if enc, ok := c.(apis.Encoder); ok {
		typ = enc.HandledType()
	}
	_, decode := c.(apis.Decoder)
	return typ, decode
}

// aliasesOf returns c's declared alias signatures, if any.
func aliasesOf(c apis.Codec) []string {
	if a, ok := c.(apis.Aliaser); ok {
		return a.Aliases()
	}
	return nil
}

// sameCodec reports whether two codec values are the identical codec,
// tolerating non-comparable codec implementations.
func sameCodec(a, b apis.Codec) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// primaryOf finds the primary signature owning codec c.
func primaryOf(order []*entry, c apis.Codec) string {
	for _, e := range order {
		if sameCodec(e.codec, c) {
			return e.sig
		}
	}
	return ""
}

// without returns ss minus s.
func without(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
