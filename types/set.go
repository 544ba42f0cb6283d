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

package types

// Set is a collection of unique comparable members that remembers insertion
// order. The order is what an encoding call iterates, so two sets built
// from the same members in different orders encode to different sequences
// while still comparing equal under set semantics.
//
// Members must be comparable in the Go sense; Add panics otherwise, the
// same way a map insertion would.
type Set struct {
	members []any
	index   map[any]int
}

// NewSet builds a Set from members in the given order, dropping duplicates.
func NewSet(members ...any) *Set {
	s := &Set{index: make(map[any]int, len(members))}
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts v if absent and reports whether it was inserted.
func (s *Set) Add(v any) bool {
	if s.index == nil {
		s.index = make(map[any]int)
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.members)
	s.members = append(s.members, v)
	return true
}

// Has reports membership.
func (s *Set) Has(v any) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Remove deletes v if present and reports whether it was present.
func (s *Set) Remove(v any) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	delete(s.index, v)
	s.members = append(s.members[:i], s.members[i+1:]...)
	for j := i; j < len(s.members); j++ {
		s.index[s.members[j]] = j
	}
	return true
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Members returns the members in insertion order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *Set) Members() []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s.members))
	copy(out, s.members)
	return out
}

// Equal compares two sets by membership only, ignoring insertion order.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, m := range s.members {
		if !o.Has(m) {
			return false
		}
	}
	return true
}
