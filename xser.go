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

package xser

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/autocodec"
	"dirpx.dev/xser/builder"
	"dirpx.dev/xser/config"
	"dirpx.dev/xser/types"
)

// init initializes the global eng state.
func init() {
	// Initialize state with default cfg, reg, and eng.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.eng = b.BuildEngine(s.cfg, s.reg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("xser: builder returned nil registry")
	// ErrNilEngine is returned when a builder returns a nil engine.
	ErrNilEngine = errors.New("xser: builder returned nil engine")
)

// Convenience aliases so callers need only the root package for the common
// value types and interfaces.
type (
	// Fields is the constructor-argument view handed to codecs.
	Fields = apis.Fields
	// Tuple is the ordered immutable-sequence marker type.
	Tuple = types.Tuple
	// Set is the insertion-ordered set type.
	Set = types.Set
	// Slice is the start/stop/step range type.
	Slice = types.Slice
	// DType describes a scalar or structured array element type.
	DType = types.DType
	// DTypeField is one named field of a structured DType.
	DTypeField = types.DTypeField
	// NDArray is a shaped array with a DType descriptor.
	NDArray = types.NDArray
	// Opaque preserves an unresolvable tagged node under lenient decoding.
	Opaque = types.Opaque
)

// TypeKey is the reserved tag key on tagged Document mappings.
const TypeKey = apis.TypeKey

// Encode serializes v to JSON text using the global xser engine.
// This is a convenience wrapper around the global eng.
func Encode(v any) ([]byte, error) {
	return st.Load().eng.Encode(v)
}

// Decode parses JSON/YAML text and decodes it using the global xser engine.
// This is a convenience wrapper around the global eng.
func Decode(data []byte) (any, error) {
	return st.Load().eng.Decode(data)
}

// EncodeValue converts v to its Document form using the global xser engine.
func EncodeValue(v any) (any, error) {
	return st.Load().eng.EncodeValue(v)
}

// DecodeValue converts a Document back to a value using the global xser engine.
func DecodeValue(node any) (any, error) {
	return st.Load().eng.DecodeValue(node)
}

// EncodeTo streams the JSON text form of v to w using the global xser engine.
func EncodeTo(w io.Writer, v any) error {
	return st.Load().eng.EncodeTo(w, v)
}

// DecodeFrom reads one JSON/YAML document from r and decodes it using the
// global xser engine.
func DecodeFrom(r io.Reader) (any, error) {
	return st.Load().eng.DecodeFrom(r)
}

// EncodeCBOR serializes v to deterministic CBOR using the global xser engine.
func EncodeCBOR(v any) ([]byte, error) {
	return st.Load().eng.EncodeCBOR(v)
}

// DecodeCBOR parses CBOR data and decodes it using the global xser engine.
func DecodeCBOR(data []byte) (any, error) {
	return st.Load().eng.DecodeCBOR(data)
}

// Register adds a codec to the global xser reg.
// This is a convenience wrapper around the global reg.
func Register(c apis.Codec) error {
	return st.Load().reg.Register(c)
}

// Unregister removes a signature binding from the global xser reg.
func Unregister(signature string) {
	st.Load().reg.Unregister(signature)
}

// Reset clears all codecs from the global xser reg. Builtin rules are not
// registry entries and remain in force.
func Reset() {
	st.Load().reg.Reset()
}

// Declare derives an auto-codec for target and applies the registration
// policy against the global xser reg: a forced flag on the declaration wins
// over the inherited auto-registration flag, and forcing registration of an
// abstract declaration fails. A non-forced abstract declaration is built
// but never registered.
func Declare(target any, opts ...autocodec.Option) (*autocodec.Codec, error) {
	c, err := autocodec.New(target, opts...)
	if err != nil {
		return nil, err
	}
	if err := applyRegistration(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Derive builds a codec for target inheriting parent's declaration options
// and applies the same registration policy as Declare.
func Derive(parent *autocodec.Codec, target any, opts ...autocodec.Option) (*autocodec.Codec, error) {
	c, err := parent.Derive(target, opts...)
	if err != nil {
		return nil, err
	}
	if err := applyRegistration(c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyRegistration(c *autocodec.Codec) error {
	register := c.AutoRegister()
	forced, ok := c.ForcedRegister()
	if ok {
		register = forced
	}
	if !register {
		return nil
	}
	if c.Abstract() {
		if ok {
			return &apis.AbstractRegistrationError{Name: c.Signature()}
		}
		return nil // inherited flag, silently skipped
	}
	return st.Load().reg.Register(c)
}

// SetAll explicitly sets all global xser state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, eng apis.Engine, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Engine
	neng := eng
	npeng := false
	if neng == nil {
		neng = nbld.BuildEngine(ncfg, nreg, old.eng, next)
	} else {
		npeng = true
	}

	// Ensure non-nil reg and eng.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if neng == nil {
		panic(ErrNilEngine)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  next,
			reg:  nreg,
			eng:  neng,
			bld:  nbld,
			preg: npreg,
			peng: npeng,
		},
	)
}

// Config returns the global xser configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global xser configuration to cfg.
// It rebuilds the global reg and eng using the new configuration.
// This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg and eng based on the new cfg and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	neng := old.eng
	if !old.peng {
		neng = b.BuildEngine(cfg, nreg, old.eng, old.ext)
	}

	// Ensure non-nil reg and eng.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if neng == nil {
		panic(ErrNilEngine)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			eng:  neng,
			bld:  b,
			preg: old.preg,
			peng: old.peng,
		},
	)
}

// Registry returns the global xser reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global xser reg to reg.
// It uses the global xser configuration to rebuild the global eng.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new eng based on the old cfg and new reg.
	neng := old.eng
	if !old.peng {
		neng = b.BuildEngine(old.cfg, reg, old.eng, old.ext)
	}

	// Ensure non-nil eng.
	if neng == nil {
		panic(ErrNilEngine)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			eng:  neng,
			bld:  b,
			preg: true,
			peng: old.peng,
		},
	)
}

// Engine returns the global xser eng.
func Engine() apis.Engine {
	return st.Load().eng
}

// SetEngine sets the global xser eng to eng.
// It uses the global xser configuration and reg.
// This is a convenience wrapper around the global state.
func SetEngine(eng apis.Engine) {
	if eng == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			eng:  eng,
			bld:  old.bld,
			preg: old.preg,
			peng: true,
		},
	)
}

// Builder returns the global xser bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global xser bld to b.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and eng based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	neng := old.eng
	if !old.peng {
		neng = b.BuildEngine(old.cfg, nreg, old.eng, old.ext)
	}

	// Ensure non-nil reg and eng.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if neng == nil {
		panic(ErrNilEngine)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			eng:  neng,
			bld:  b,
			preg: old.preg,
			peng: old.peng,
		},
	)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg and eng based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	neng := old.eng
	if !old.peng {
		neng = b.BuildEngine(old.cfg, nreg, old.eng, ext)
	}

	// Ensure non-nil reg and eng.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if neng == nil {
		panic(ErrNilEngine)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			eng:  neng,
			bld:  b,
			preg: old.preg,
			peng: old.peng,
		},
	)
}

// ExtAs returns the global xser extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global xser reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global xser reg immutable.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			eng:  old.eng,
			bld:  old.bld,
			preg: true,
			peng: old.peng,
		},
	)
}

// UnpinRegistry makes the global xser reg mutable again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			eng:  old.eng,
			bld:  old.bld,
			preg: false,
			peng: old.peng,
		},
	)
}

// IsEnginePinned returns whether the global xser eng is pinned (immutable).
func IsEnginePinned() bool {
	return st.Load().peng
}

// PinEngine makes the global xser eng immutable.
func PinEngine() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			eng:  old.eng,
			bld:  old.bld,
			preg: old.preg,
			peng: true,
		},
	)
}

// UnpinEngine makes the global xser eng mutable again.
func UnpinEngine() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			eng:  old.eng,
			bld:  old.bld,
			preg: old.preg,
			peng: false,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global xser state.
var st atomic.Pointer[state]

// state is the global xser state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global xser configuration.
	cfg apis.Config
	// ext is the global xser extension configuration.
	ext any
	// reg is the global xser reg.
	reg apis.Registry
	// eng is the global xser eng.
	eng apis.Engine
	// bld is the global xser bld.
	bld apis.Builder
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// peng indicates whether the eng is pinned (immutable).
	peng bool
}
