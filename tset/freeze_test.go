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
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/purpleidea/tset/lang/types"

	"github.com/davecgh/go-spew/spew"
)

func TestFreezeQueries1(t *testing.T) {
	def := newTestDefinition(t, "Deps")
	session := newTestSession(t)
	root := diamond(t, session, def)

	orderings := []Ordering{Preorder, Postorder, Topological, Bfs}
	before := [][]int64{}
	for _, ordering := range orderings {
		before = append(before, ints(t, root.Traverse(ordering)))
	}
	sum, _ := root.Reduce("sum")
	count, _ := root.Reduce("count")

	frozen, err := session.Freeze()
	if err != nil {
		t.Errorf("freeze error: %+v", err)
		return
	}
	s, exists := frozen.Lookup(root)
	if !exists {
		t.Errorf("root was not frozen")
		return
	}
	for i, ordering := range orderings {
		if after := ints(t, s.Traverse(ordering)); !reflect.DeepEqual(before[i], after) {
			t.Errorf("%s: traversal changed from %v to %v", ordering, before[i], after)
		}
	}
	if v, _ := s.Reduce("sum"); v.Cmp(sum) != nil {
		t.Errorf("sum changed from %s to %s", sum, v)
	}
	if v, _ := s.Reduce("count"); v.Cmp(count) != nil {
		t.Errorf("count changed from %s to %s", count, v)
	}
	if s.Key() != root.Key() || s.Definition() != root.Definition() {
		t.Errorf("key or definition changed")
	}
	if s.String() != root.String() {
		t.Errorf("string changed from %s to %s", root, s)
	}
	for i := 0; i < 2; i++ {
		p1, _ := root.ProjectionValue(i)
		p2, _ := s.ProjectionValue(i)
		if err := p1.Cmp(p2); err != nil {
			t.Errorf("projection %d changed: %+v", i, err)
		}
	}
}

func TestFreezeSharing1(t *testing.T) {
	def := newTestDefinition(t, "Deps")
	session := newTestSession(t)
	root := diamond(t, session, def)

	frozen, err := session.Freeze()
	if err != nil {
		t.Errorf("freeze error: %+v", err)
		return
	}
	if n := frozen.Len(); n != 4 {
		t.Errorf("expected 4 frozen sets, got %d", n)
	}
	sets := frozen.Sets()
	s, _ := frozen.Lookup(root)
	if sets[len(sets)-1] != s {
		t.Errorf("sets should be in construction order")
	}

	children := s.Children()
	if len(children) != 2 {
		t.Errorf("expected 2 children, got %d", len(children))
		return
	}
	a, b := children[0].Children(), children[1].Children()
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Errorf("the shared child is no longer shared: %s", spew.Sdump(a, b))
	}
	if a[0] != sets[0] {
		t.Errorf("the shared child is not the frozen one")
	}

	again, err := session.Freeze()
	if err != nil || again != frozen {
		t.Errorf("freezing again should return the same result")
	}
}

func TestFreezeValues1(t *testing.T) {
	def, err := NewDefinition("test.yaml",
		[]*ProjectionSpec{{Name: "json", Kind: ProjectionJSON, Fn: jsonFn()}},
		[]*ReductionSpec{{Name: "all", Fn: types.NewFunc("all", func(args []types.Value) (types.Value, error) {
			return types.NewList(args[0], args[1]), nil
		})}},
	)
	if err != nil {
		t.Errorf("definition error: %+v", err)
		return
	}
	if err := def.Export("Lists"); err != nil {
		t.Errorf("export error: %+v", err)
		return
	}
	session := newTestSession(t)
	value := types.NewList(types.NewStr("a"))
	m, err := session.New(session.NewKey(), def, value, nil)
	if err != nil {
		t.Errorf("construction error: %+v", err)
		return
	}
	if err := value.Add(types.NewStr("b")); err != nil { // still building
		t.Errorf("add error: %+v", err)
	}

	holder := types.NewList(m)
	frozen, err := session.Freeze()
	if err != nil {
		t.Errorf("freeze error: %+v", err)
		return
	}
	s, _ := frozen.Lookup(m)
	fv := s.Node().Value.(*types.ListValue)
	if !fv.Frozen() || fv.Len() != 2 {
		t.Errorf("unexpected frozen value: %s", fv)
	}
	if err := fv.Add(types.NewStr("c")); !errors.Is(err, types.ErrFrozen) {
		t.Errorf("expected a frozen error, got: %+v", err)
	}
	// the projection returned the value itself, which must stay shared
	if p, _ := s.ProjectionValue(0); p != types.Value(fv) {
		t.Errorf("the projection is no longer the same value as the node")
	}
	r, _ := s.Reduction(0)
	if !r.(*types.ListValue).Frozen() {
		t.Errorf("reductions should be frozen")
	}

	v, err := frozen.Value(holder)
	if err != nil {
		t.Errorf("value error: %+v", err)
		return
	}
	if x, _ := v.(*types.ListValue).Lookup(0); x != types.Value(s) {
		t.Errorf("a value which holds a set should get the frozen set")
	}
}

func TestMarshalSet1(t *testing.T) {
	def := newTestDefinition(t, "Deps")
	session := newTestSession(t)
	leaf := build(t, session, def, 3)
	root := build(t, session, def, -1, leaf, leaf)

	b, err := json.Marshal([]types.Value{leaf, root})
	if err != nil {
		t.Errorf("marshal error: %+v", err)
		return
	}
	exp := `[{"definition":"Deps","value":3,"children":0},{"definition":"Deps","children":2}]`
	if s := string(b); s != exp {
		t.Errorf("unexpected json: %s", s)
	}
}
