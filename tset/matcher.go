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

	"github.com/purpleidea/tset/lang/types"
)

// Matcher checks whether values are sets of one particular definition. It only
// compares schema identities, so two definitions which happen to look the same
// never match each other.
type Matcher struct {
	id   SchemaID
	name string
}

// Matcher returns a matcher for sets of this definition. The definition must be
// exported.
func (obj *Definition) Matcher() (*Matcher, error) {
	if obj.id == 0 {
		return nil, ErrUsedBeforeAssignment
	}
	return &Matcher{
		id:   obj.id,
		name: obj.name,
	}, nil
}

// Matches returns true if the value is a set, in either phase, which was built
// against the definition of this matcher.
func (obj *Matcher) Matches(v types.Value) bool {
	s, ok := asSet(v)
	if !ok {
		return false
	}
	return s.data().definition.id == obj.id
}

// String returns the name of the matched type.
func (obj *Matcher) String() string {
	return fmt.Sprintf("TransitiveSet[%s]", obj.name)
}
