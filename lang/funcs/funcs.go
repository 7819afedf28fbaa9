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

// Package funcs provides the registry of builtin functions which can be used
// as projections and reductions, and the evaluator which calls them.
package funcs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/purpleidea/tset/lang/types"
)

const (
	// ModuleSep is the character used for the module scope separation. For
	// example when using `core.sum` the separator is the dot.
	ModuleSep = "."
)

var (
	// registeredFuncs is a global map of all possible funcs which can be
	// used. You should never touch this map directly. Use methods like
	// Register instead.
	registeredFuncs = make(map[string]*types.FuncValue) // must initialize
	registeredMutex = &sync.RWMutex{}
)

// Register takes a func and its name and makes it available for use. It is
// commonly called in the init() method of the func at program startup. There is
// no matching Unregister function.
func Register(name string, fn *types.FuncValue) {
	registeredMutex.Lock()
	defer registeredMutex.Unlock()
	if _, exists := registeredFuncs[name]; exists {
		panic(fmt.Sprintf("a func named %s is already registered", name))
	}
	if fn == nil || fn.V == nil {
		panic(fmt.Sprintf("func %s is empty", name))
	}
	if fn.Name == "" {
		fn.Name = name
	}
	registeredFuncs[name] = fn
}

// ModuleRegister is exactly like Register, except that it registers within a
// named module.
func ModuleRegister(module, name string, fn *types.FuncValue) {
	Register(module+ModuleSep+name, fn)
}

// Lookup returns the function registered under this name.
func Lookup(name string) (*types.FuncValue, error) {
	registeredMutex.RLock()
	defer registeredMutex.RUnlock()
	f, exists := registeredFuncs[name]
	if !exists {
		return nil, fmt.Errorf("func %s not found", name)
	}
	return f, nil
}

// Names returns the sorted list of registered function names.
func Names() []string {
	registeredMutex.RLock()
	defer registeredMutex.RUnlock()
	names := []string{}
	for name := range registeredFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
