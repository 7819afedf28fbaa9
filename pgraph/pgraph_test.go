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

package pgraph

import (
	"reflect"
	"testing"
)

func TestCount1(t *testing.T) {
	G := &Graph{}

	if i := G.NumVertices(); i != 0 {
		t.Errorf("should have 0 vertices instead of: %d", i)
	}

	if i := G.NumEdges(); i != 0 {
		t.Errorf("should have 0 edges instead of: %d", i)
	}

	v1 := NV("v1")
	v2 := NV("v2")
	e1 := NE("e1")
	G.AddEdge(v1, v2, e1)

	if i := G.NumVertices(); i != 2 {
		t.Errorf("should have 2 vertices instead of: %d", i)
	}

	if i := G.NumEdges(); i != 1 {
		t.Errorf("should have 1 edges instead of: %d", i)
	}

	G.AddEdge(v1, v2, NE("e2")) // replaces
	if i := G.NumEdges(); i != 1 {
		t.Errorf("should have 1 edges instead of: %d", i)
	}
}

func TestInit1(t *testing.T) {
	if _, err := NewGraph(""); err == nil {
		t.Errorf("expected an error for an empty name")
	}
}

func TestAddVertex1(t *testing.T) {
	G := &Graph{Name: "g2"}
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	v5 := NV("v5")
	v6 := NV("v6")
	e1 := NE("e1")
	e2 := NE("e2")
	e3 := NE("e3")
	e4 := NE("e4")
	e5 := NE("e5")
	G.AddEdge(v1, v2, e1)
	G.AddEdge(v2, v3, e2)
	G.AddEdge(v3, v1, e3)

	G.AddEdge(v4, v5, e4)
	G.AddEdge(v5, v6, e5)

	if i := G.NumVertices(); i != 6 {
		t.Errorf("should have 6 vertices instead of: %d", i)
	}
	G.AddVertex(v1, v6)
	if i := G.NumVertices(); i != 6 {
		t.Errorf("should have 6 vertices instead of: %d", i)
	}
	if exp, got := []string{"v1", "v2", "v3", "v4", "v5", "v6"}, names(G.Vertices()); !reflect.DeepEqual(exp, got) {
		t.Errorf("unexpected vertices: %v", got)
	}
}

func TestDFS1(t *testing.T) {
	G, _ := NewGraph("g3")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	v5 := NV("v5")
	v6 := NV("v6")
	G.AddEdge(v1, v2, NE("e1"))
	G.AddEdge(v2, v3, NE("e2"))
	G.AddEdge(v1, v4, NE("e3"))
	G.AddEdge(v4, v3, NE("e4"))
	G.AddEdge(v5, v6, NE("e5"))

	out := G.DFS(v1)
	if exp, got := []string{"v1", "v2", "v3", "v4"}, names(out); !reflect.DeepEqual(exp, got) {
		t.Errorf("dfs of v1 should be %v instead of: %v", exp, got)
	}

	if out := G.DFS(NV("v7")); out != nil {
		t.Errorf("dfs of a missing vertex should be nil")
	}
}

func TestIncomingOutgoing1(t *testing.T) {
	G, _ := NewGraph("g4")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	G.AddEdge(v1, v3, NE("e1"))
	G.AddEdge(v2, v3, NE("e2"))
	G.AddEdge(v1, v2, NE("e3"))

	if exp, got := []string{"v1", "v2"}, names(G.IncomingGraphVertices(v3)); !reflect.DeepEqual(exp, got) {
		t.Errorf("incoming of v3 should be %v instead of: %v", exp, got)
	}
	if exp, got := []string{"v3", "v2"}, names(G.OutgoingGraphVertices(v1)); !reflect.DeepEqual(exp, got) {
		t.Errorf("outgoing of v1 should be %v instead of: %v", exp, got)
	}
	if d := G.InDegree()[v3]; d != 2 {
		t.Errorf("indegree of v3 should be 2 instead of: %d", d)
	}
	if d := G.OutDegree()[v1]; d != 2 {
		t.Errorf("outdegree of v1 should be 2 instead of: %d", d)
	}
}

func TestTopoSort1(t *testing.T) {
	G, _ := NewGraph("g5")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	// diamond
	G.AddEdge(v1, v2, NE("e1"))
	G.AddEdge(v1, v3, NE("e2"))
	G.AddEdge(v2, v4, NE("e3"))
	G.AddEdge(v3, v4, NE("e4"))

	out, err := G.TopologicalSort()
	if err != nil {
		t.Errorf("topological sort failed with: %+v", err)
		return
	}
	if exp, got := []string{"v1", "v2", "v3", "v4"}, names(out); !reflect.DeepEqual(exp, got) {
		t.Errorf("topological sort should be %v instead of: %v", exp, got)
	}
	if exp, got := []string{"v4", "v3", "v2", "v1"}, names(Reverse(out)); !reflect.DeepEqual(exp, got) {
		t.Errorf("reverse should be %v instead of: %v", exp, got)
	}
}

func TestTopoSort2(t *testing.T) {
	G, _ := NewGraph("g6")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	G.AddEdge(v1, v2, NE("e1"))
	G.AddEdge(v2, v3, NE("e2"))
	G.AddEdge(v3, v1, NE("e3"))

	if _, err := G.TopologicalSort(); err == nil {
		t.Errorf("topological sort of a cycle should fail")
	}
}
