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

// settings collects declaration options; zero values follow the documented
// defaults (explicit defaults on, auto kwargs level, registration on).
type settings struct {
	sig              string
	aliases          []string
	implicitDefaults bool
	level            KwargsLevel
	prototype        any
	noRegister       bool
	forced           *bool
}

// Option configures one declaration.
type Option func(*settings)

// WithSignature overrides the default "pkg.Type" signature.
func WithSignature(sig string) Option {
	return func(s *settings) { s.sig = sig }
}

// WithAliases declares alternate decode-view signatures.
func WithAliases(aliases ...string) Option {
	return func(s *settings) { s.aliases = append(s.aliases, aliases...) }
}

// WithImplicitDefaults omits fixed parameters whose encoded value equals
// their declared default, producing the compact document form. Off by
// default: every fixed parameter is written out.
func WithImplicitDefaults() Option {
	return func(s *settings) { s.implicitDefaults = true }
}

// WithKwargsLevel selects the variadic-keyword layout policy.
func WithKwargsLevel(level KwargsLevel) Option {
	return func(s *settings) { s.level = level }
}

// WithDefaults supplies a prototype instance whose field values become the
// declared defaults of parameters tagged with the default option. Without a
// prototype, defaults are the zero values of the field types.
func WithDefaults(prototype any) Option {
	return func(s *settings) { s.prototype = prototype }
}

// WithoutRegistration opts the declaration out of automatic registration.
// Derived declarations inherit the opt-out unless they override it.
func WithoutRegistration() Option {
	return func(s *settings) { s.noRegister = true }
}

// WithForcedRegistration pins registration on or off for exactly this
// declaration, overriding the inherited flag. Unlike the inherited flag it
// is never passed on through Derive. Forcing registration of an abstract
// declaration fails at registration time.
func WithForcedRegistration(on bool) Option {
	return func(s *settings) { s.forced = &on }
}
