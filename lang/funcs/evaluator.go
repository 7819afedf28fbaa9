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

package funcs

import (
	"fmt"
	"sync/atomic"

	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"
)

// DefaultMaxDepth is the nesting limit used when none is specified.
const DefaultMaxDepth = 64

// Evaluator calls function values on behalf of the transitive set session. A
// function can be passed in directly, or by the string name it was registered
// under. User functions run arbitrary code, so a panic inside one is returned
// as an error instead of taking down the caller.
type Evaluator struct {
	// MaxDepth is the maximum amount of nested calls that may be running at
	// once. Zero means DefaultMaxDepth.
	MaxDepth int

	Debug bool
	Logf  func(format string, v ...interface{})

	depth int
	calls uint64
}

// Init must be called before Call.
func (obj *Evaluator) Init() error {
	if obj.MaxDepth < 0 {
		return fmt.Errorf("invalid max depth of %d", obj.MaxDepth)
	}
	if obj.MaxDepth == 0 {
		obj.MaxDepth = DefaultMaxDepth
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	return nil
}

// Resolve returns the callable that this value refers to.
func (obj *Evaluator) Resolve(fn types.Value) (*types.FuncValue, error) {
	switch x := fn.(type) {
	case *types.FuncValue:
		return x, nil
	case *types.StrValue:
		return Lookup(x.V)
	case nil:
		return nil, fmt.Errorf("no function specified")
	}
	return nil, fmt.Errorf("value of type %s is not callable", fn.Type())
}

// Call runs the function with these arguments. A function which returns
// nothing returns None.
func (obj *Evaluator) Call(fn types.Value, args []types.Value) (result types.Value, reterr error) {
	f, err := obj.Resolve(fn)
	if err != nil {
		return nil, err
	}
	if f.V == nil {
		return nil, fmt.Errorf("function %s is not set", f)
	}
	if obj.depth >= obj.MaxDepth {
		return nil, fmt.Errorf("max call depth of %d exceeded in %s", obj.MaxDepth, f)
	}
	obj.depth++
	defer func() { obj.depth-- }()
	atomic.AddUint64(&obj.calls, 1)

	defer func() {
		if r := recover(); r != nil {
			result, reterr = nil, fmt.Errorf("function %s panicked: %v", f, r)
		}
	}()

	if obj.Debug {
		obj.Logf("call %s with %d args", f, len(args))
	}
	result, err = f.Call(args)
	if err != nil {
		return nil, errwrap.Wrapf(err, "function %s errored", f)
	}
	return result, nil
}

// Calls returns the number of function calls made so far.
func (obj *Evaluator) Calls() uint64 {
	return atomic.LoadUint64(&obj.calls)
}
