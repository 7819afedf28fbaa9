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

package pgraph

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/purpleidea/tset/util/errwrap"

	"github.com/spf13/afero"
)

// Graphviz outputs the graph in graphviz format. Vertices are numbered in the
// order they were added in, so the output is deterministic.
// https://en.wikipedia.org/wiki/DOT_%28graph_description_language%29
func (g *Graph) Graphviz() string {
	//digraph g {
	//	label="hello world";
	//	node [shape=box];
	//	v0 [label="A"];
	//	v1 [label="B"];
	//	v0 -> v1 [label="f"];
	//}
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "digraph %s {\n", strconv.Quote(g.GetName()))
	fmt.Fprintf(buf, "\tlabel=%s;\n", strconv.Quote(g.GetName()))
	fmt.Fprintf(buf, "\tnode [shape=box];\n")
	ids := make(map[Vertex]string)
	for i, v := range g.vertices {
		ids[v] = fmt.Sprintf("v%d", i)
		fmt.Fprintf(buf, "\t%s [label=%s];\n", ids[v], strconv.Quote(v.String()))
	}
	for _, v1 := range g.vertices {
		for _, v2 := range g.outgoing[v1] {
			e := g.adjacency[v1][v2]
			fmt.Fprintf(buf, "\t%s -> %s [label=%s];\n", ids[v1], ids[v2], strconv.Quote(e.String()))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// WriteGraphviz writes out the graphviz data to the named file.
func (g *Graph) WriteGraphviz(fs afero.Fs, filename string) error {
	if filename == "" {
		return fmt.Errorf("no filename given")
	}
	if err := afero.WriteFile(fs, filename, []byte(g.Graphviz()), 0644); err != nil {
		return errwrap.Wrapf(err, "error writing to filename")
	}
	return nil
}

// ExecGraphviz writes out the graphviz data and runs the correct graphviz
// filter command to render a png next to it.
func (g *Graph) ExecGraphviz(program, filename string) error {
	switch program {
	case "dot", "neato", "twopi", "circo", "fdp":
	default:
		return fmt.Errorf("invalid graphviz program selected")
	}

	if err := g.WriteGraphviz(afero.NewOsFs(), filename); err != nil {
		return err
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return fmt.Errorf("the Graphviz program is missing")
	}

	out := fmt.Sprintf("%s.png", filename)
	cmd := exec.Command(path, "-Tpng", fmt.Sprintf("-o%s", out), filename)
	if _, err := cmd.Output(); err != nil {
		return errwrap.Wrapf(err, "error writing to image")
	}
	return nil
}
