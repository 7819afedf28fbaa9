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

// Package core contains the builtin functions which are available to every
// transitive set definition. Import it for its side effects to register them.
package core

import (
	"fmt"

	"github.com/purpleidea/tset/lang/types"
)

const (
	// ModuleName is the prefix given to all the functions in this module.
	ModuleName = "core"
)

// reductionArgs splits the input of a reduction into the child results and
// the node value. The value is None when the node has none.
func reductionArgs(input []types.Value) ([]types.Value, types.Value, error) {
	if len(input) != 2 {
		return nil, nil, fmt.Errorf("expected 2 args, got %d", len(input))
	}
	children, ok := input[0].(*types.ListValue)
	if !ok {
		return nil, nil, fmt.Errorf("expected list of child results, got %s", input[0].Type())
	}
	return children.List(), input[1], nil
}

// projectionArg returns the single node value passed to a projection.
func projectionArg(input []types.Value) (types.Value, error) {
	if len(input) != 1 {
		return nil, fmt.Errorf("expected 1 arg, got %d", len(input))
	}
	return input[0], nil
}

// intOf returns the integer held in a value.
func intOf(v types.Value) (int64, error) {
	x, ok := v.(*types.IntValue)
	if !ok {
		return 0, fmt.Errorf("expected int, got %s", v.Type())
	}
	return x.V, nil
}
