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
	"fmt"

	"github.com/purpleidea/tset/lang/types"
)

// Evaluator runs the projection and reduction functions of a definition. The
// build language provides it, and it may run arbitrary user code.
type Evaluator interface {
	// Call runs the function with these arguments. A nil result is read as
	// None.
	Call(fn types.Value, args []types.Value) (types.Value, error)
}

// DirectEvaluator calls function values directly, without any bookkeeping.
type DirectEvaluator struct{}

// Call runs the function with these arguments.
func (obj *DirectEvaluator) Call(fn types.Value, args []types.Value) (types.Value, error) {
	f, ok := fn.(*types.FuncValue)
	if !ok {
		return nil, fmt.Errorf("value of type %s is not callable", fn.Type())
	}
	return f.Call(args)
}
