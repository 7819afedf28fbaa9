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
	"github.com/purpleidea/tset/artifact"
	langjson "github.com/purpleidea/tset/lang/types/json"
	"github.com/purpleidea/tset/util/errwrap"
)

// ProjectionSubInputs returns the inputs that are needed to use a projection of
// this set. The artifacts in the projection value of this node are returned as
// they are, and each child only contributes a deferred reference to the same
// projection of itself, which the action graph resolves on its own. This keeps
// the cost of a set proportional to its number of children.
func (obj *setData) ProjectionSubInputs(projection int) ([]artifact.Group, error) {
	if err := obj.checkProjection(projection); err != nil {
		return nil, err
	}
	visitor := &artifact.SimpleVisitor{}
	if obj.node != nil {
		if err := langjson.VisitArtifacts(obj.node.Projections[projection], visitor); err != nil {
			return nil, errwrap.Wrapf(err, "could not visit projection %d of %s", projection, obj.key)
		}
	}
	inputs := visitor.Inputs
	for _, x := range obj.children { // one reference per child entry
		key := artifact.ProjectionKey{
			Key:        x.data().key,
			Projection: projection,
		}
		inputs = append(inputs, &artifact.Projection{ProjectionKey: key})
	}
	return inputs, nil
}
