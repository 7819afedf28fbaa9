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

package lib

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/tset"

	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/afero"
)

const buildGraph = `
graph: build
definitions:
  - name: Objs
    projections:
      - name: objs
        fn: core.artifacts
      - name: meta
        kind: json
        fn: core.identity
    reductions:
      - name: count
        fn: core.count
sets:
  - name: main
    definition: Objs
    value: {$artifact: main.o, $owner: "//app:main"}
    children: [util, log]
  - name: util
    definition: Objs
    value: [{$artifact: util.o, $owner: "//lib:util"}, {$artifact: util.h}]
    children: [log]
  - name: log
    definition: Objs
    value: {$artifact: log.o, $owner: "//lib:log"}
`

func newMain(t *testing.T, set string) (*Main, afero.Fs) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/build.yaml", []byte(buildGraph), 0644); err != nil {
		t.Fatalf("could not write: %+v", err)
	}
	main := &Main{
		Program: "tset",
		Version: "0.0.1",
		Config: &Config{
			File: "/build.yaml",
			Set:  set,
		},
		Fs:    fs,
		Debug: testing.Verbose(),
		Logf: func(format string, v ...interface{}) {
			t.Logf("main: "+format, v...)
		},
	}
	if err := main.Validate(); err != nil {
		t.Fatalf("could not validate: %+v", err)
	}
	if err := main.Init(); err != nil {
		t.Fatalf("could not init: %+v", err)
	}
	return main, fs
}

func TestValidate1(t *testing.T) {
	type test struct { // an individual test
		name string
		main *Main
		fail bool
	}
	testCases := []test{
		{
			name: "ok",
			main: &Main{Program: "tset", Version: "1", Config: &Config{File: "f", Set: "s"}},
		},
		{
			name: "no version",
			main: &Main{Program: "tset", Config: &Config{File: "f", Set: "s"}},
			fail: true,
		},
		{
			name: "no config",
			main: &Main{Program: "tset", Version: "1"},
			fail: true,
		},
		{
			name: "no set",
			main: &Main{Program: "tset", Version: "1", Config: &Config{File: "f"}},
			fail: true,
		},
		{
			name: "negative depth",
			main: &Main{Program: "tset", Version: "1", Config: &Config{File: "f", Set: "s", MaxDepth: -1}},
			fail: true,
		},
		{
			name: "listen without prometheus",
			main: &Main{Program: "tset", Version: "1", Config: &Config{File: "f", Set: "s", PrometheusListen: ":9233"}},
			fail: true,
		},
	}

	for index, tc := range testCases { // run all the tests
		name, main, fail := tc.name, tc.main, tc.fail
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			err := main.Validate()
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: validate failed with: %+v", index, err)
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: validate passed, expected fail", index)
			}
		})
	}
}

func TestQueries1(t *testing.T) {
	main, _ := newMain(t, "main")
	defer main.Close()

	count, err := main.Reduce("count")
	if err != nil {
		t.Errorf("reduce failed: %+v", err)
		return
	}
	if err := types.NewInt(4).Cmp(count); err != nil {
		t.Errorf("unexpected count: %s", count)
	}
	if _, err := main.Reduce("nope"); err == nil {
		t.Errorf("expected reduce error")
	}

	args, err := main.ProjectArgs("objs", tset.Postorder)
	if err != nil {
		t.Errorf("project failed: %+v", err)
		return
	}
	if diff := pretty.Compare([]string{"log.o", "util.o", "util.h", "main.o"}, args); diff != "" {
		t.Errorf("unexpected args:\n%s", diff)
	}

	b, err := main.ProjectJSON("meta", tset.Preorder)
	if err != nil {
		t.Errorf("project failed: %+v", err)
		return
	}
	if s := string(b); s != `["main.o",["util.o","util.h"],"log.o"]` {
		t.Errorf("unexpected json: %s", s)
	}
	if _, err := main.ProjectJSON("objs", tset.Preorder); err == nil {
		t.Errorf("expected projection kind error")
	}

	values, err := main.Traverse(tset.Bfs, "")
	if err != nil {
		t.Errorf("traverse failed: %+v", err)
		return
	}
	if len(values) != 3 {
		t.Errorf("expected 3 values, got %d", len(values))
	}
	values, err = main.Traverse(tset.Preorder, "objs")
	if err != nil {
		t.Errorf("traverse failed: %+v", err)
		return
	}
	if s := fmt.Sprintf("%s", values); !strings.HasPrefix(s, "[[<build main.o owned by //app:main>]") {
		t.Errorf("unexpected values: %s", s)
	}
	if _, err := main.Traverse(tset.Preorder, "nope"); err == nil {
		t.Errorf("expected projection error")
	}
}

func TestInputs1(t *testing.T) {
	main, _ := newMain(t, "main")
	defer main.Close()

	artifacts, err := main.Inputs(context.Background(), "objs", 2)
	if err != nil {
		t.Errorf("inputs failed: %+v", err)
		return
	}
	paths := []string{}
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	if diff := pretty.Compare([]string{"main.o", "util.o", "util.h", "log.o"}, paths); diff != "" {
		t.Errorf("unexpected inputs:\n%s", diff)
	}
}

func TestGraphviz1(t *testing.T) {
	main, fs := newMain(t, "util")
	defer main.Close()

	if err := main.Graphviz("/util.dot", ""); err != nil {
		t.Errorf("graphviz failed: %+v", err)
		return
	}
	b, err := afero.ReadFile(fs, "/util.dot")
	if err != nil {
		t.Errorf("could not read: %+v", err)
		return
	}
	if s := string(b); !strings.HasPrefix(s, "digraph ") || strings.Count(s, "->") != 1 {
		t.Errorf("unexpected graphviz output:\n%s", s)
	}
}

func TestInitErrors1(t *testing.T) {
	fs := afero.NewMemMapFs()
	main := &Main{
		Program: "tset",
		Version: "0.0.1",
		Config:  &Config{File: "/missing.yaml", Set: "x"},
		Fs:      fs,
	}
	if err := main.Init(); err == nil {
		t.Errorf("expected missing file error")
	}

	if err := afero.WriteFile(fs, "/build.yaml", []byte(buildGraph), 0644); err != nil {
		t.Errorf("could not write: %+v", err)
		return
	}
	main.Config = &Config{File: "/build.yaml", Set: "nope"}
	if err := main.Init(); err == nil {
		t.Errorf("expected missing set error")
	}
}
