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

package core

import (
	"fmt"
	"testing"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/lang/funcs"
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/tset"

	"github.com/kylelemons/godebug/pretty"
)

func ints(values ...int64) []types.Value {
	out := []types.Value{}
	for _, v := range values {
		out = append(out, types.NewInt(v))
	}
	return out
}

func strs(values ...string) *types.ListValue {
	l := types.NewList()
	for _, v := range values {
		l.V = append(l.V, types.NewStr(v))
	}
	return l
}

func TestPureFuncs1(t *testing.T) {
	type test struct { // an individual test
		name string
		fn   string
		args []types.Value
		fail bool
		exp  types.Value
	}
	testCases := []test{}

	testCases = append(testCases, test{
		name: "identity",
		fn:   "core.identity",
		args: ints(4),
		exp:  types.NewInt(4),
	})
	testCases = append(testCases, test{
		name: "str of int",
		fn:   "core.str",
		args: ints(4),
		exp:  types.NewStr("4"),
	})
	testCases = append(testCases, test{
		name: "str of str",
		fn:   "core.str",
		args: []types.Value{types.NewStr("x")},
		exp:  types.NewStr("x"),
	})
	testCases = append(testCases, test{
		name: "identity arity",
		fn:   "core.identity",
		args: ints(1, 2),
		fail: true,
	})
	testCases = append(testCases, test{
		name: "count leaf",
		fn:   "core.count",
		args: []types.Value{types.NewList(), types.NewInt(7)},
		exp:  types.NewInt(1),
	})
	testCases = append(testCases, test{
		name: "count no value",
		fn:   "core.count",
		args: []types.Value{types.NewList(ints(2, 3)...), types.None},
		exp:  types.NewInt(5),
	})
	testCases = append(testCases, test{
		name: "sum",
		fn:   "core.sum",
		args: []types.Value{types.NewList(ints(2, 3)...), types.NewInt(4)},
		exp:  types.NewInt(9),
	})
	testCases = append(testCases, test{
		name: "sum of str",
		fn:   "core.sum",
		args: []types.Value{types.NewList(), types.NewStr("4")},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "sum children not a list",
		fn:   "core.sum",
		args: []types.Value{types.NewInt(1), types.NewInt(4)},
		fail: true,
	})
	testCases = append(testCases, test{
		name: "max",
		fn:   "core.max",
		args: []types.Value{types.NewList(types.NewInt(8), types.None), types.NewInt(4)},
		exp:  types.NewInt(8),
	})
	testCases = append(testCases, test{
		name: "max of nothing",
		fn:   "core.max",
		args: []types.Value{types.NewList(types.None), types.None},
		exp:  types.None,
	})
	testCases = append(testCases, test{
		name: "concat",
		fn:   "core.concat",
		args: []types.Value{types.NewList(strs("a", "b"), strs("b")), strs("c", "d")},
		exp:  strs("a", "b", "b", "c", "d"),
	})
	testCases = append(testCases, test{
		name: "concat scalar",
		fn:   "core.concat",
		args: []types.Value{types.NewList(strs("a")), types.NewStr("z")},
		exp:  strs("a", "z"),
	})
	testCases = append(testCases, test{
		name: "union",
		fn:   "core.union",
		args: []types.Value{types.NewList(strs("b", "a"), strs("b")), types.NewStr("c")},
		exp:  strs("a", "b", "c"),
	})
	testCases = append(testCases, test{
		name: "union of int",
		fn:   "core.union",
		args: []types.Value{types.NewList(), types.NewInt(3)},
		fail: true,
	})

	for index, tc := range testCases { // run all the tests
		name, fn, args, fail, exp := tc.name, tc.fn, tc.args, tc.fail, tc.exp
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			f, err := funcs.Lookup(fn)
			if err != nil {
				t.Errorf("test #%d: lookup failed: %+v", index, err)
				return
			}
			result, err := f.Call(args)
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: func failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: func passed, expected fail", index)
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

func TestArtifacts1(t *testing.T) {
	a := artifact.NewSource("a.c")
	b := artifact.NewBuild("lib", "b.o")
	d := types.NewDict()
	if err := d.Set("srcs", types.NewList(a, b, a)); err != nil {
		t.Errorf("could not set: %+v", err)
		return
	}
	result, err := Artifacts([]types.Value{d})
	if err != nil {
		t.Errorf("artifacts failed: %+v", err)
		return
	}
	if err := types.NewList(a, b).Cmp(result); err != nil {
		t.Errorf("unexpected artifacts: %s", result)
	}

	result, err = CmdArgs([]types.Value{types.NewList(types.NewStr("-I"), b)})
	if err != nil {
		t.Errorf("cmdargs failed: %+v", err)
		return
	}
	if diff := pretty.Compare([]string{"-I", "b.o"}, result.Value()); diff != "" {
		t.Errorf("unexpected args:\n%s", diff)
	}
}

// TestSession1 builds a small graph with the builtins, referenced by name.
func TestSession1(t *testing.T) {
	evaluator := &funcs.Evaluator{}
	if err := evaluator.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	session := &tset.Session{
		Name:      "core",
		Evaluator: evaluator,
	}
	if err := session.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	def, err := tset.NewDefinition("core_test.go",
		[]*tset.ProjectionSpec{
			{Name: "str", Kind: tset.ProjectionArgs, Fn: types.NewStr("core.str")},
		},
		[]*tset.ReductionSpec{
			{Name: "sum", Fn: types.NewStr("core.sum")},
			{Name: "max", Fn: types.NewStr("core.max")},
		},
	)
	if err != nil {
		t.Errorf("definition failed: %+v", err)
		return
	}
	if err := def.Export("Numbers"); err != nil {
		t.Errorf("export failed: %+v", err)
		return
	}

	leaf, err := session.New(session.NewKey(), def, types.NewInt(5), nil)
	if err != nil {
		t.Errorf("leaf failed: %+v", err)
		return
	}
	mid, err := session.New(session.NewKey(), def, nil, []types.Value{leaf})
	if err != nil {
		t.Errorf("mid failed: %+v", err)
		return
	}
	root, err := session.New(session.NewKey(), def, types.NewInt(2), []types.Value{mid, leaf})
	if err != nil {
		t.Errorf("root failed: %+v", err)
		return
	}

	sum, err := root.Reduce("sum")
	if err != nil {
		t.Errorf("reduce failed: %+v", err)
		return
	}
	if err := types.NewInt(12).Cmp(sum); err != nil {
		t.Errorf("unexpected sum: %s", sum)
	}
	max, err := root.Reduce("max")
	if err != nil {
		t.Errorf("reduce failed: %+v", err)
		return
	}
	if err := types.NewInt(5).Cmp(max); err != nil {
		t.Errorf("unexpected max: %s", max)
	}

	p, err := root.ProjectAsArgs("str", tset.Preorder)
	if err != nil {
		t.Errorf("project failed: %+v", err)
		return
	}
	if diff := pretty.Compare([]string{"2", "5"}, p.Value()); diff != "" {
		t.Errorf("unexpected args:\n%s", diff)
	}
	// 2 sets with values, 2 reductions for each of the 3 sets
	if c := evaluator.Calls(); c != 8 {
		t.Errorf("expected 8 calls, got %d", c)
	}
}
