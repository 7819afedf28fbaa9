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

// Package artifact contains the references to build inputs and outputs which
// values can carry, and the visitor machinery used to find them again.
package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"
)

// TypeArtifact is the opaque type of all artifacts.
var TypeArtifact = types.NewOpaque("artifact")

// Artifact is a reference to a file which is either part of the source tree, or
// which is produced by some build action. It is immutable.
type Artifact struct {
	// Path is the path of the artifact, relative to the project root.
	Path string

	// Owner is the label of the target whose action produces this
	// artifact. It is empty for source artifacts.
	Owner string
}

// NewSource returns a new source artifact.
func NewSource(path string) *Artifact {
	return &Artifact{Path: path}
}

// NewBuild returns a new artifact produced by the target named owner.
func NewBuild(owner, path string) *Artifact {
	return &Artifact{Path: path, Owner: owner}
}

// IsSource returns true if this artifact is part of the source tree.
func (obj *Artifact) IsSource() bool { return obj.Owner == "" }

// String returns a visual representation of this value.
func (obj *Artifact) String() string {
	if obj.IsSource() {
		return fmt.Sprintf("<source %s>", obj.Path)
	}
	return fmt.Sprintf("<build %s owned by %s>", obj.Path, obj.Owner)
}

// Type returns the type data structure that represents this type.
func (obj *Artifact) Type() *types.Type { return TypeArtifact }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *Artifact) Cmp(val types.Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	cmp := val.(*Artifact)
	if obj.Path != cmp.Path {
		return fmt.Errorf("paths are different")
	}
	if obj.Owner != cmp.Owner {
		return fmt.Errorf("owners are different")
	}
	return nil
}

// Copy returns a copy of this value. Artifacts are immutable, so this is the
// same value.
func (obj *Artifact) Copy() types.Value { return obj }

// Value returns the raw value of this type, which is the path.
func (obj *Artifact) Value() interface{} { return obj.Path }

// MarshalJSON encodes the artifact as its path.
func (obj *Artifact) MarshalJSON() ([]byte, error) {
	return json.Marshal(obj.Path)
}

// VisitArtifacts passes this artifact to the visitor.
func (obj *Artifact) VisitArtifacts(visitor Visitor) error {
	return visitor.VisitArtifact(obj)
}

func (obj *Artifact) isGroup() {}
