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
	"fmt"
	"sort"

	"github.com/purpleidea/tset/lang/funcs"
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util"
	"github.com/purpleidea/tset/util/errwrap"
)

func init() {
	funcs.ModuleRegister(ModuleName, "count", types.NewFunc("", Count))
	funcs.ModuleRegister(ModuleName, "sum", types.NewFunc("", Sum))
	funcs.ModuleRegister(ModuleName, "max", types.NewFunc("", Max))
	funcs.ModuleRegister(ModuleName, "concat", types.NewFunc("", Concat))
	funcs.ModuleRegister(ModuleName, "union", types.NewFunc("", Union))
}

// Count reduces to the number of nodes with a value in the set. Shared children
// are counted once per path that reaches them.
func Count(input []types.Value) (types.Value, error) {
	children, value, err := reductionArgs(input)
	if err != nil {
		return nil, err
	}
	var n int64
	for i, child := range children {
		x, err := intOf(child)
		if err != nil {
			return nil, errwrap.Wrapf(err, "child %d", i)
		}
		n += x
	}
	if !types.IsNone(value) {
		n++
	}
	return types.NewInt(n), nil
}

// Sum reduces to the sum of the integer node values. A node without a value
// adds nothing.
func Sum(input []types.Value) (types.Value, error) {
	children, value, err := reductionArgs(input)
	if err != nil {
		return nil, err
	}
	var n int64
	for i, child := range children {
		x, err := intOf(child)
		if err != nil {
			return nil, errwrap.Wrapf(err, "child %d", i)
		}
		n += x
	}
	if !types.IsNone(value) {
		x, err := intOf(value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "value")
		}
		n += x
	}
	return types.NewInt(n), nil
}

// Max reduces to the largest integer node value, or None if no node in the set
// has a value.
func Max(input []types.Value) (types.Value, error) {
	children, value, err := reductionArgs(input)
	if err != nil {
		return nil, err
	}
	var result types.Value = types.None
	var max int64
	for _, v := range append(append([]types.Value{}, children...), value) {
		if types.IsNone(v) {
			continue
		}
		x, err := intOf(v)
		if err != nil {
			return nil, err
		}
		if types.IsNone(result) || x > max {
			max = x
			result = v
		}
	}
	return result, nil
}

// Concat reduces to the concatenation of the child lists, followed by the node
// value. A list value is spliced in.
func Concat(input []types.Value) (types.Value, error) {
	children, value, err := reductionArgs(input)
	if err != nil {
		return nil, err
	}
	out := types.NewList()
	for i, child := range children {
		l, ok := child.(*types.ListValue)
		if !ok {
			return nil, fmt.Errorf("child %d: expected list, got %s", i, child.Type())
		}
		for _, x := range l.List() {
			if err := out.Add(x); err != nil {
				return nil, err
			}
		}
	}
	if types.IsNone(value) {
		return out, nil
	}
	if l, ok := value.(*types.ListValue); ok {
		for _, x := range l.List() {
			if err := out.Add(x); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	if err := out.Add(value); err != nil {
		return nil, err
	}
	return out, nil
}

// Union reduces to the sorted list of distinct strings found in the child
// results and the node value. The value may be a string or a list of strings.
func Union(input []types.Value) (types.Value, error) {
	children, value, err := reductionArgs(input)
	if err != nil {
		return nil, err
	}
	strs := []string{}
	add := func(v types.Value) error {
		switch x := v.(type) {
		case *types.NoneValue:
			return nil
		case *types.StrValue:
			strs = append(strs, x.V)
			return nil
		case *types.ListValue:
			for _, elem := range x.List() {
				s, ok := elem.(*types.StrValue)
				if !ok {
					return fmt.Errorf("expected str element, got %s", elem.Type())
				}
				strs = append(strs, s.V)
			}
			return nil
		}
		return fmt.Errorf("expected str or list, got %s", v.Type())
	}
	for _, v := range append(append([]types.Value{}, children...), value) {
		if err := add(v); err != nil {
			return nil, err
		}
	}
	keys := util.StrRemoveDuplicatesInList(strs)
	sort.Strings(keys)
	out := types.NewList()
	for _, k := range keys {
		if err := out.Add(types.NewStr(k)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
