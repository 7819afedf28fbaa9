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

package types

import (
	"github.com/purpleidea/tset/util"
	"github.com/purpleidea/tset/util/errwrap"
)

// ErrFrozen is returned when something tries to change a frozen value.
const ErrFrozen = util.Error("value is frozen")

// Freezable is implemented by values which have a distinct immutable form. A
// value which does not implement it is considered to be immutable already.
type Freezable interface {
	Value

	// Freeze returns the frozen version of this value. Nested values must
	// be frozen through the freezer that is passed in, so that values which
	// are shared by more than one parent stay shared afterwards.
	Freeze(*Freezer) (Value, error)
}

// Freezer converts the values that were built during a single evaluation into
// their immutable form. It remembers everything that it froze, so freezing the
// same value twice returns the very same frozen value. This is what preserves
// the sharing of sub-structures. A Freezer is not safe for concurrent use.
type Freezer struct {
	memo map[Value]Value
}

// NewFreezer returns a new freezer with an empty memo.
func NewFreezer() *Freezer {
	return &Freezer{
		memo: make(map[Value]Value),
	}
}

// Freeze returns the frozen form of the value. A nil value stays nil.
func (obj *Freezer) Freeze(v Value) (Value, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := v.(Freezable)
	if !ok {
		return v, nil // already immutable
	}
	if frozen, exists := obj.memo[v]; exists {
		return frozen, nil
	}
	frozen, err := f.Freeze(obj)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not freeze %s", v.Type())
	}
	obj.memo[v] = frozen
	return frozen, nil
}

// FreezeSlice freezes each value in the list, and returns a new list of the
// results in the same order.
func (obj *Freezer) FreezeSlice(values []Value) ([]Value, error) {
	if values == nil {
		return nil, nil
	}
	result := make([]Value, 0, len(values))
	for _, v := range values {
		frozen, err := obj.Freeze(v)
		if err != nil {
			return nil, err
		}
		result = append(result, frozen)
	}
	return result, nil
}

// Len returns the number of distinct values which were frozen so far.
func (obj *Freezer) Len() int {
	return len(obj.memo)
}
