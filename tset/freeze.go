// Tset
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tset

import (
	"github.com/purpleidea/tset/lang/types"
)

// Frozen is the result of freezing a session.
type Frozen struct {
	freezer *types.Freezer
	lookup  map[*MutableSet]*Set
	sets    []*Set
}

// Sets returns every frozen set, in the order they were built in.
func (obj *Frozen) Sets() []*Set {
	return append([]*Set{}, obj.sets...)
}

// Len returns the number of frozen sets.
func (obj *Frozen) Len() int { return len(obj.sets) }

// Lookup returns the frozen form of a set of the session.
func (obj *Frozen) Lookup(m *MutableSet) (*Set, bool) {
	s, exists := obj.lookup[m]
	return s, exists
}

// Value freezes a value which was built during the same evaluation as the sets.
// Any set it contains is replaced by the frozen set that was already made, so
// that it is shared. It's not safe to call this concurrently.
func (obj *Frozen) Value(v types.Value) (types.Value, error) {
	return obj.freezer.Freeze(v)
}
