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

//go:build !root

package funcs

import (
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/tset/lang/types"
)

func init() {
	ModuleRegister("test", "double", types.NewFunc("", func(input []types.Value) (types.Value, error) {
		if len(input) != 1 {
			return nil, fmt.Errorf("expected one arg, got %d", len(input))
		}
		i, ok := input[0].(*types.IntValue)
		if !ok {
			return nil, fmt.Errorf("expected int, got %s", input[0].Type())
		}
		return types.NewInt(i.V * 2), nil
	}))
	ModuleRegister("test", "panic", types.NewFunc("", func(input []types.Value) (types.Value, error) {
		panic("oops")
	}))
	ModuleRegister("test", "nothing", types.NewFunc("", func(input []types.Value) (types.Value, error) {
		return nil, nil
	}))
}

func TestLookup1(t *testing.T) {
	f, err := Lookup("test.double")
	if err != nil {
		t.Errorf("lookup failed: %+v", err)
		return
	}
	if f.Name != "test.double" {
		t.Errorf("unexpected name: %s", f.Name)
	}
	if _, err := Lookup("test.missing"); err == nil {
		t.Errorf("expected lookup error")
	}

	found := false
	for _, name := range Names() {
		if name == "test.double" {
			found = true
		}
	}
	if !found {
		t.Errorf("name not listed: %+v", Names())
	}
}

func TestRegisterDuplicate1(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic")
		}
	}()
	ModuleRegister("test", "double", types.NewFunc("", func([]types.Value) (types.Value, error) { return nil, nil }))
}

func TestEvaluator1(t *testing.T) {
	type test struct { // an individual test
		name string
		fn   types.Value
		args []types.Value
		fail bool
		exp  types.Value
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name: "by name",
			fn:   types.NewStr("test.double"),
			args: []types.Value{types.NewInt(21)},
			exp:  types.NewInt(42),
		})
	}
	{
		f, _ := Lookup("test.double")
		testCases = append(testCases, test{
			name: "by value",
			fn:   f,
			args: []types.Value{types.NewInt(2)},
			exp:  types.NewInt(4),
		})
	}
	{
		testCases = append(testCases, test{
			name: "returns none",
			fn:   types.NewStr("test.nothing"),
			exp:  types.None,
		})
	}
	{
		testCases = append(testCases, test{
			name: "function error",
			fn:   types.NewStr("test.double"),
			args: []types.Value{types.NewStr("x")},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "panic",
			fn:   types.NewStr("test.panic"),
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "unknown name",
			fn:   types.NewStr("test.unknown"),
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "not callable",
			fn:   types.NewInt(3),
			fail: true,
		})
	}

	for index, tc := range testCases { // run all the tests
		name, fn, args, fail, exp := tc.name, tc.fn, tc.args, tc.fail, tc.exp
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			evaluator := &Evaluator{
				Logf: func(format string, v ...interface{}) {
					t.Logf("evaluator: "+format, v...)
				},
			}
			if err := evaluator.Init(); err != nil {
				t.Errorf("test #%d: init failed: %+v", index, err)
				return
			}
			result, err := evaluator.Call(fn, args)
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: call failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: call passed, expected fail", index)
				return
			}
			if fail {
				return
			}
			if err := exp.Cmp(result); err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: got: %s, exp: %s", index, result, exp)
			}
		})
	}
}

func TestEvaluatorDepth1(t *testing.T) {
	evaluator := &Evaluator{
		MaxDepth: 3,
	}
	if err := evaluator.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	var recurse *types.FuncValue
	recurse = types.NewFunc("recurse", func(input []types.Value) (types.Value, error) {
		return evaluator.Call(recurse, input)
	})
	_, err := evaluator.Call(recurse, nil)
	if err == nil {
		t.Errorf("expected depth error")
		return
	}
	if !strings.Contains(err.Error(), "max call depth of 3 exceeded") {
		t.Errorf("unexpected error: %+v", err)
	}
	if c := evaluator.Calls(); c != 3 {
		t.Errorf("expected 3 calls, got %d", c)
	}
	if evaluator.depth != 0 {
		t.Errorf("depth was not unwound: %d", evaluator.depth)
	}
}
