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

import (
	"fmt"
)

// SetKey is the identity of a transitive set. It is handed out when the set is
// constructed, and the action graph uses it later on to find the set again and
// to compute its inputs. Its contents are not interpreted by the engine.
type SetKey struct {
	// Owner names the evaluation which built the set.
	Owner string

	// ID is unique among the sets of the same owner.
	ID uint64
}

// String returns the canonical form of the key.
func (obj SetKey) String() string {
	return fmt.Sprintf("%s#%d", obj.Owner, obj.ID)
}

// ProjectionKey identifies one projection of one transitive set.
type ProjectionKey struct {
	Key        SetKey
	Projection int
}

// String returns the canonical form of the key.
func (obj ProjectionKey) String() string {
	return fmt.Sprintf("%s[%d]", obj.Key, obj.Projection)
}

// Group is a build input. It is either a single *Artifact, or a *Projection
// which stands for all the inputs of some transitive set projection, and which
// gets resolved later and independently.
type Group interface {
	fmt.Stringer

	isGroup()
}

// Projection is a deferred reference to the inputs of a projection of a
// transitive set.
type Projection struct {
	ProjectionKey
}

// String returns a visual representation of this input.
func (obj *Projection) String() string {
	return fmt.Sprintf("<projection %s>", obj.ProjectionKey)
}

func (obj *Projection) isGroup() {}
