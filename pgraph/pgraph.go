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

// Package pgraph represents the internal "pointer graph" that we use.
package pgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is the graph structure in this library. The graph abstract data type
// (ADT) is defined as follows:
// * the directed graph arrows point from left to right ( -> )
// * the arrows point from a parent to each of its children
// * vertices and edges are kept in the order they were added in
type Graph struct {
	Name string

	adjacency map[Vertex]map[Vertex]Edge // Vertex -> Vertex (edge)
	vertices  []Vertex                   // insertion order
	outgoing  map[Vertex][]Vertex        // insertion order of edges
}

// Vertex is the primary vertex struct in this library. It can be anything that
// implements Stringer. The string output must be stable and unique in the
// graph.
type Vertex interface {
	fmt.Stringer // String() string
}

// Edge is the primary edge struct in this library. It can be anything that
// implements Stringer. The string output must be stable and unique in the
// graph.
type Edge interface {
	fmt.Stringer // String() string
}

// Init initializes the graph which populates all the internal structures.
func (g *Graph) Init() error {
	if g.Name == "" { // FIXME: is this really a good requirement?
		return fmt.Errorf("can't initialize graph with empty name")
	}

	g.adjacency = make(map[Vertex]map[Vertex]Edge)
	g.outgoing = make(map[Vertex][]Vertex)
	return nil
}

// NewGraph builds a new graph.
func NewGraph(name string) (*Graph, error) {
	g := &Graph{
		Name: name,
	}
	if err := g.Init(); err != nil {
		return nil, err
	}
	return g, nil
}

// GetName returns the name of the graph.
func (g *Graph) GetName() string {
	return g.Name
}

// Adjacency returns the adjacency map representing this graph. This can be
// used to range over the graph. The caller must not modify it.
func (g *Graph) Adjacency() map[Vertex]map[Vertex]Edge {
	if g.adjacency == nil { // initialize on first use
		g.adjacency = make(map[Vertex]map[Vertex]Edge)
		g.outgoing = make(map[Vertex][]Vertex)
	}
	return g.adjacency
}

// AddVertex uses variadic input to add all listed vertices to the graph.
func (g *Graph) AddVertex(xv ...Vertex) {
	adjacency := g.Adjacency()
	for _, v := range xv {
		if _, exists := adjacency[v]; !exists {
			adjacency[v] = make(map[Vertex]Edge)
			g.vertices = append(g.vertices, v)
		}
	}
}

// AddEdge adds a directed edge to the graph from v1 to v2. Adding the same
// edge again replaces it.
func (g *Graph) AddEdge(v1, v2 Vertex, e Edge) {
	// NOTE: this doesn't allow more than one edge between two vertexes...
	g.AddVertex(v1, v2) // supports adding N vertices now
	if _, exists := g.adjacency[v1][v2]; !exists {
		g.outgoing[v1] = append(g.outgoing[v1], v2)
	}
	g.adjacency[v1][v2] = e
}

// HasVertex returns if the input vertex exists in the graph.
func (g *Graph) HasVertex(v Vertex) bool {
	_, exists := g.Adjacency()[v]
	return exists
}

// HasEdge returns if there is an edge from v1 to v2.
func (g *Graph) HasEdge(v1, v2 Vertex) bool {
	_, exists := g.Adjacency()[v1][v2]
	return exists
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int {
	return len(g.vertices)
}

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int {
	count := 0
	for k := range g.Adjacency() {
		count += len(g.adjacency[k])
	}
	return count
}

// Vertices returns the vertices in the order they were added in.
func (g *Graph) Vertices() []Vertex {
	return append([]Vertex{}, g.vertices...)
}

// VerticesSorted returns a sorted slice of all vertices in the graph. The order
// is sorted by String() to avoid the non-determinism in the map type.
func (g *Graph) VerticesSorted() []Vertex {
	vs := g.Vertices()
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].String() < vs[j].String() })
	return vs
}

// String makes the graph pretty print.
func (g *Graph) String() string {
	return fmt.Sprintf("Vertices(%d), Edges(%d)", g.NumVertices(), g.NumEdges())
}

// Sprint prints a full graph in textual form in a deterministic way.
func (g *Graph) Sprint() string {
	lines := []string{}
	for _, v1 := range g.vertices {
		lines = append(lines, fmt.Sprintf("Vertex: %s", v1))
	}
	for _, v1 := range g.vertices {
		for _, v2 := range g.outgoing[v1] {
			lines = append(lines, fmt.Sprintf("Edge: %s -> %s # %s", v1, v2, g.adjacency[v1][v2]))
		}
	}
	return strings.Join(lines, "\n")
}

// IncomingGraphVertices returns an array (slice) of all directed vertices to
// vertex v (??? -> v).
func (g *Graph) IncomingGraphVertices(v Vertex) []Vertex {
	var s []Vertex
	for _, k := range g.vertices { // reverse paths
		if _, exists := g.adjacency[k][v]; exists {
			s = append(s, k)
		}
	}
	return s
}

// OutgoingGraphVertices returns an array (slice) of all vertices that vertex v
// points to (v -> ???), in the order the edges were added in.
func (g *Graph) OutgoingGraphVertices(v Vertex) []Vertex {
	return append([]Vertex{}, g.outgoing[v]...)
}

// DFS returns a depth first search for the graph, starting at the input vertex,
// and following the edges in their direction.
func (g *Graph) DFS(start Vertex) []Vertex {
	var d []Vertex // discovered
	var s []Vertex // stack
	discovered := make(map[Vertex]struct{})
	if !g.HasVertex(start) {
		return nil // TODO: error
	}
	v := start
	s = append(s, v)
	for len(s) > 0 {
		v, s = s[len(s)-1], s[:len(s)-1] // s.pop()

		if _, exists := discovered[v]; !exists { // if not discovered
			discovered[v] = struct{}{}
			d = append(d, v) // label as discovered

			out := g.outgoing[v]
			for i := len(out) - 1; i >= 0; i-- { // first edge on top
				s = append(s, out[i])
			}
		}
	}
	return d
}

// InDegree returns the count of vertices that point to me in one big lookup map.
func (g *Graph) InDegree() map[Vertex]int {
	result := make(map[Vertex]int)
	for k := range g.Adjacency() {
		result[k] = 0 // initialize
	}

	for k := range g.adjacency {
		for z := range g.adjacency[k] {
			result[z]++
		}
	}
	return result
}

// OutDegree returns the count of vertices that point away in one big lookup map.
func (g *Graph) OutDegree() map[Vertex]int {
	result := make(map[Vertex]int)

	for k := range g.Adjacency() {
		result[k] = len(g.adjacency[k])
	}
	return result
}

// TopologicalSort returns the sort of graph vertices in that order. It is
// deterministic, and it returns an error if the graph is not a DAG.
// based on descriptions and code from wikipedia and rosetta code
func (g *Graph) TopologicalSort() ([]Vertex, error) { // kahn's algorithm
	var L []Vertex                    // empty list that will contain the sorted elements
	var S []Vertex                    // set of all nodes with no incoming edges
	remaining := make(map[Vertex]int) // amount of edges remaining

	indegree := g.InDegree()
	for i := len(g.vertices) - 1; i >= 0; i-- { // so we pop the first one
		v := g.vertices[i]
		if d := indegree[v]; d == 0 {
			// accumulate set of all nodes with no incoming edges
			S = append(S, v)
		} else {
			// initialize remaining edge count from indegree
			remaining[v] = d
		}
	}

	for len(S) > 0 {
		last := len(S) - 1 // remove a node v from S
		v := S[last]
		S = S[:last]
		L = append(L, v) // add v to tail of L
		out := g.outgoing[v]
		for i := len(out) - 1; i >= 0; i-- {
			n := out[i]
			// for each node n remaining in the graph, consume from
			// remaining, so for remaining[n] > 0
			if remaining[n] > 0 {
				remaining[n]--         // remove edge from the graph
				if remaining[n] == 0 { // if n has no other incoming edges
					S = append(S, n) // insert n into S
				}
			}
		}
	}

	// if graph has edges, eg if any value in rem is > 0
	for _, in := range remaining {
		if in > 0 {
			return nil, fmt.Errorf("not a dag")
		}
	}

	return L, nil
}

// Reverse reverses a list of vertices.
func Reverse(vs []Vertex) []Vertex {
	out := make([]Vertex, 0, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		out = append(out, vs[i])
	}
	return out
}

// VertexContains is an "in array" function to test for a vertex in a slice of
// vertices.
func VertexContains(needle Vertex, haystack []Vertex) bool {
	for _, v := range haystack {
		if needle == v {
			return true
		}
	}
	return false
}
