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

package artifact

// Visitor receives every artifact reference found inside of a value.
type Visitor interface {
	// VisitArtifact is called for every artifact.
	VisitArtifact(*Artifact) error

	// VisitProjection is called for every transitive set projection which
	// is embedded in a value. Its inputs are not expanded.
	VisitProjection(ProjectionKey) error
}

// Visitable is implemented by values which contain artifact references.
type Visitable interface {
	// VisitArtifacts calls the visitor once for each contained reference.
	VisitArtifacts(Visitor) error
}

// SimpleVisitor collects every reference it sees into a list of inputs. Each
// distinct input is only added once, in the order it was first seen.
type SimpleVisitor struct {
	Inputs []Group

	seen map[interface{}]struct{}
}

func (obj *SimpleVisitor) add(id interface{}, g Group) {
	if obj.seen == nil {
		obj.seen = make(map[interface{}]struct{})
	}
	if _, exists := obj.seen[id]; exists {
		return
	}
	obj.seen[id] = struct{}{}
	obj.Inputs = append(obj.Inputs, g)
}

// VisitArtifact adds the artifact to the inputs.
func (obj *SimpleVisitor) VisitArtifact(a *Artifact) error {
	obj.add(*a, a)
	return nil
}

// VisitProjection adds a deferred projection to the inputs.
func (obj *SimpleVisitor) VisitProjection(key ProjectionKey) error {
	obj.add(key, &Projection{ProjectionKey: key})
	return nil
}

// Artifacts returns only the artifacts among the collected inputs.
func (obj *SimpleVisitor) Artifacts() []*Artifact {
	artifacts := []*Artifact{}
	for _, x := range obj.Inputs {
		if a, ok := x.(*Artifact); ok {
			artifacts = append(artifacts, a)
		}
	}
	return artifacts
}
