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

package tset

import (
	"fmt"
	"testing"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/lang/types"
)

// argsFn renders an int value as a flag, and an artifact as its path.
func argsFn() *types.FuncValue {
	return types.NewFunc("args", func(args []types.Value) (types.Value, error) {
		switch x := args[0].(type) {
		case *types.IntValue:
			return types.NewStr(fmt.Sprintf("-v%d", x.V)), nil
		case *artifact.Artifact:
			return types.NewList(types.NewStr("-i"), x), nil
		}
		return args[0], nil
	})
}

// jsonFn returns the value itself.
func jsonFn() *types.FuncValue {
	return types.NewFunc("json", func(args []types.Value) (types.Value, error) {
		return args[0], nil
	})
}

// sumFn adds up the reductions of the children and the value.
func sumFn() *types.FuncValue {
	return types.NewFunc("sum", func(args []types.Value) (types.Value, error) {
		total := int64(0)
		for _, x := range args[0].(*types.ListValue).List() {
			total += x.(*types.IntValue).V
		}
		if i, ok := args[1].(*types.IntValue); ok {
			total += i.V
		}
		return types.NewInt(total), nil
	})
}

// countFn counts the nodes, including the ones which are reachable twice.
func countFn() *types.FuncValue {
	return types.NewFunc("count", func(args []types.Value) (types.Value, error) {
		total := int64(0)
		for _, x := range args[0].(*types.ListValue).List() {
			total += x.(*types.IntValue).V
		}
		if !types.IsNone(args[1]) {
			total++
		}
		return types.NewInt(total), nil
	})
}

// newTestDefinition returns an exported definition with an args projection, a
// json projection, and the sum and count reductions.
func newTestDefinition(t *testing.T, name string) *Definition {
	def, err := NewDefinition("test.yaml",
		[]*ProjectionSpec{
			{Name: "args", Kind: ProjectionArgs, Fn: argsFn()},
			{Name: "json", Kind: ProjectionJSON, Fn: jsonFn()},
		},
		[]*ReductionSpec{
			{Name: "sum", Fn: sumFn()},
			{Name: "count", Fn: countFn()},
		},
	)
	if err != nil {
		t.Fatalf("could not build definition: %+v", err)
	}
	if err := def.Export(name); err != nil {
		t.Fatalf("could not export definition: %+v", err)
	}
	return def
}

func newTestSession(t *testing.T) *Session {
	session := &Session{
		Name:      "test",
		Evaluator: &DirectEvaluator{},
		Debug:     testing.Verbose(),
		Logf: func(format string, v ...interface{}) {
			t.Logf("session: "+format, v...)
		},
	}
	if err := session.Init(); err != nil {
		t.Fatalf("could not init session: %+v", err)
	}
	return session
}

// build is a helper which builds a set with an int value, or no value if it is
// negative.
func build(t *testing.T, session *Session, def *Definition, value int64, children ...types.Value) *MutableSet {
	var v types.Value
	if value >= 0 {
		v = types.NewInt(value)
	}
	s, err := session.New(session.NewKey(), def, v, children)
	if err != nil {
		t.Fatalf("could not build set: %+v", err)
	}
	return s
}

// diamond builds R(0) -> [A(1), B(2)], A -> [C(3)], B -> [C].
func diamond(t *testing.T, session *Session, def *Definition) *MutableSet {
	c := build(t, session, def, 3)
	a := build(t, session, def, 1, c)
	b := build(t, session, def, 2, c)
	return build(t, session, def, 0, a, b)
}

// ints returns the int values of the nodes.
func ints(t *testing.T, it Iterator) []int64 {
	out := []int64{}
	for _, node := range Collect(it) {
		i, ok := node.Value.(*types.IntValue)
		if !ok {
			t.Fatalf("node value is not an int: %s", node.Value)
		}
		out = append(out, i.V)
	}
	return out
}
