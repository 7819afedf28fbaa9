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

	"github.com/purpleidea/tset/pgraph"
)

// vertex is a set in a graph.
type vertex struct {
	s *setData
}

func (obj *vertex) String() string {
	return fmt.Sprintf("%s %s", obj.s.key, obj.s.format())
}

// edge is the parent to child relation.
type edge struct {
	index int
}

func (obj *edge) String() string { return fmt.Sprintf("%d", obj.index) }

// Graph returns the graph of every set reachable from this one. Each edge
// points from a parent to a child, and is labelled with the position of the
// child. A child which appears more than once under the same parent is only
// drawn once.
func (obj *setData) Graph() (*pgraph.Graph, error) {
	g, err := pgraph.NewGraph(obj.key.String())
	if err != nil {
		return nil, err
	}
	vertices := make(map[*setData]*vertex)
	get := func(s *setData) *vertex {
		v, exists := vertices[s]
		if !exists {
			v = &vertex{s: s}
			vertices[s] = v
			g.AddVertex(v)
		}
		return v
	}

	stack := []*setData{obj}
	get(obj)
	seen := make(visited)
	seen.add(obj)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		v1 := get(s)
		for i, x := range s.children {
			c := x.data()
			v2 := get(c)
			if !g.HasEdge(v1, v2) {
				g.AddEdge(v1, v2, &edge{index: i})
			}
			if seen.add(c) {
				stack = append(stack, c)
			}
		}
	}
	return g, nil
}
