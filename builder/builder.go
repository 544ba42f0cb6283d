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

package builder

import (
	"dirpx.dev/xser/apis"
	"dirpx.dev/xser/engine"
	"dirpx.dev/xser/registry"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration and pre-existing registry. If a pre-existing registry is
// provided, its primary entries are re-registered into the new registry,
// keeping their enabled state; alias entries follow their primary codec.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			if e.Alias {
				continue
			}
			if err := nreg.Register(e.Codec); err != nil {
				continue
			}
			if !e.Enabled {
				nreg.Disable(e.Signature)
			}
		}
	}
	return nreg
}

// BuildEngine builds and returns a new apis.Engine over the provided
// registry. Engines are stateless walkers, so no state migrates from a
// pre-existing engine.
func (b *builder) BuildEngine(cfg apis.Config, reg apis.Registry, _ apis.Engine, _ any) apis.Engine {
	return engine.New(reg, cfg)
}
