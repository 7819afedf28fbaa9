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

package artifact

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/purpleidea/tset/lang/types"
)

func TestArtifactCmp1(t *testing.T) {
	type test struct { // an individual test
		name string
		a    types.Value
		b    types.Value
		fail bool
	}
	testCases := []test{
		{
			name: "same source",
			a:    NewSource("src/a.c"),
			b:    NewSource("src/a.c"),
		},
		{
			name: "same build",
			a:    NewBuild("//foo:bar", "out/a.o"),
			b:    NewBuild("//foo:bar", "out/a.o"),
		},
		{
			name: "different paths",
			a:    NewSource("src/a.c"),
			b:    NewSource("src/b.c"),
			fail: true,
		},
		{
			name: "different owners",
			a:    NewBuild("//foo:bar", "out/a.o"),
			b:    NewBuild("//foo:baz", "out/a.o"),
			fail: true,
		},
		{
			name: "not an artifact",
			a:    NewSource("src/a.c"),
			b:    types.NewStr("src/a.c"),
			fail: true,
		},
	}

	for index, tc := range testCases { // run all the tests
		name, a, b, fail := tc.name, tc.a, tc.b, tc.fail
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			err := a.Cmp(b)
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: cmp error: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: cmp passed, expected error", index)
				return
			}
		})
	}
}

func TestArtifactString1(t *testing.T) {
	if s := NewSource("src/a.c").String(); s != "<source src/a.c>" {
		t.Errorf("unexpected string: %s", s)
	}
	if s := NewBuild("//foo:bar", "out/a.o").String(); s != "<build out/a.o owned by //foo:bar>" {
		t.Errorf("unexpected string: %s", s)
	}
}

func TestArtifactJSON1(t *testing.T) {
	b, err := json.Marshal([]*Artifact{NewSource("a b"), NewBuild("//x", "c")})
	if err != nil {
		t.Errorf("marshal error: %+v", err)
		return
	}
	if s := string(b); s != `["a b","c"]` {
		t.Errorf("unexpected json: %s", s)
	}
}

func TestKeyString1(t *testing.T) {
	key := SetKey{Owner: "eval", ID: 42}
	if s := key.String(); s != "eval#42" {
		t.Errorf("unexpected key: %s", s)
	}
	pk := ProjectionKey{Key: key, Projection: 1}
	if s := pk.String(); s != "eval#42[1]" {
		t.Errorf("unexpected projection key: %s", s)
	}
	if s := (&Projection{ProjectionKey: pk}).String(); s != "<projection eval#42[1]>" {
		t.Errorf("unexpected projection: %s", s)
	}
}

func TestSimpleVisitor1(t *testing.T) {
	visitor := &SimpleVisitor{}
	a := NewSource("src/a.c")
	if err := a.VisitArtifacts(visitor); err != nil {
		t.Errorf("visit error: %+v", err)
		return
	}
	key := ProjectionKey{Key: SetKey{Owner: "eval", ID: 1}, Projection: 0}
	if err := visitor.VisitProjection(key); err != nil {
		t.Errorf("visit error: %+v", err)
		return
	}
	// duplicates are dropped
	if err := NewSource("src/a.c").VisitArtifacts(visitor); err != nil {
		t.Errorf("visit error: %+v", err)
		return
	}
	if err := visitor.VisitProjection(key); err != nil {
		t.Errorf("visit error: %+v", err)
		return
	}
	if l := len(visitor.Inputs); l != 2 {
		t.Errorf("expected 2 inputs, got %d", l)
		return
	}
	if visitor.Inputs[0] != Group(a) {
		t.Errorf("expected the artifact first, got %s", visitor.Inputs[0])
	}
	p, ok := visitor.Inputs[1].(*Projection)
	if !ok || p.ProjectionKey != key {
		t.Errorf("expected the projection second, got %s", visitor.Inputs[1])
	}
	if artifacts := visitor.Artifacts(); len(artifacts) != 1 || artifacts[0] != a {
		t.Errorf("unexpected artifacts: %v", artifacts)
	}
}
