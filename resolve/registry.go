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

// Package resolve plays the part of the action graph for transitive sets. It
// finds frozen sets again by their key, and expands the deferred inputs of a
// projection into the concrete artifacts that it needs.
package resolve

import (
	"sync"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/tset"
	"github.com/purpleidea/tset/util"
	"github.com/purpleidea/tset/util/errwrap"
)

// ErrNotFound is returned when no set is registered under a key.
const ErrNotFound = util.Error("transitive set not found")

// Registry holds frozen sets by key. It is safe for concurrent use.
type Registry struct {
	mutex *sync.RWMutex
	sets  map[artifact.SetKey]*tset.Set
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mutex: &sync.RWMutex{},
		sets:  make(map[artifact.SetKey]*tset.Set),
	}
}

// Add registers the set and everything reachable from it.
func (obj *Registry) Add(s *tset.Set) {
	obj.mutex.Lock()
	defer obj.mutex.Unlock()

	stack := []*tset.Set{s}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, exists := obj.sets[x.Key()]; exists {
			continue
		}
		obj.sets[x.Key()] = x
		stack = append(stack, x.Children()...)
	}
}

// AddFrozen registers every set of a frozen session.
func (obj *Registry) AddFrozen(frozen *tset.Frozen) {
	for _, s := range frozen.Sets() {
		obj.Add(s)
	}
}

// Lookup returns the set with this key.
func (obj *Registry) Lookup(key artifact.SetKey) (*tset.Set, error) {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	s, exists := obj.sets[key]
	if !exists {
		return nil, errwrap.Wrapf(ErrNotFound, "key %s", key)
	}
	return s, nil
}

// Len returns the number of registered sets.
func (obj *Registry) Len() int {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	return len(obj.sets)
}
