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

package core

import (
	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/cmdargs"
	"github.com/purpleidea/tset/lang/funcs"
	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"
)

func init() {
	funcs.ModuleRegister(ModuleName, "identity", types.NewFunc("", Identity))
	funcs.ModuleRegister(ModuleName, "str", types.NewFunc("", Str))
	funcs.ModuleRegister(ModuleName, "artifacts", types.NewFunc("", Artifacts))
	funcs.ModuleRegister(ModuleName, "cmdargs", types.NewFunc("", CmdArgs))
}

// Identity projects the node value as is.
func Identity(input []types.Value) (types.Value, error) {
	return projectionArg(input)
}

// Str projects the string form of the node value. Strings are returned
// unchanged.
func Str(input []types.Value) (types.Value, error) {
	v, err := projectionArg(input)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(*types.StrValue); ok {
		return s, nil
	}
	return types.NewStr(v.String()), nil
}

// Artifacts projects the list of every distinct artifact found in the node
// value, in the order they are first seen.
func Artifacts(input []types.Value) (types.Value, error) {
	v, err := projectionArg(input)
	if err != nil {
		return nil, err
	}
	visitor := &artifact.SimpleVisitor{}
	if err := langjson.VisitArtifacts(v, visitor); err != nil {
		return nil, err
	}
	l := types.NewList()
	for _, a := range visitor.Artifacts() {
		if err := l.Add(a); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// CmdArgs projects the node value as a command line.
func CmdArgs(input []types.Value) (types.Value, error) {
	v, err := projectionArg(input)
	if err != nil {
		return nil, err
	}
	return cmdargs.New(v)
}
