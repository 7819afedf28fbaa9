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
)

// Ordering is the order in which a traversal visits the nodes of a set.
type Ordering int

const (
	// Preorder visits a node before its children, depth first.
	Preorder Ordering = iota
	// Postorder visits a node after all of its children, depth first.
	Postorder
	// Topological visits a node only after every node which has it as a
	// child, directly or not.
	Topological
	// Bfs visits the nodes level by level.
	Bfs
)

// DefaultOrdering is used when no ordering is given.
const DefaultOrdering = Preorder

// Orderings lists the names of all the orderings.
var Orderings = []string{"preorder", "postorder", "topological", "bfs"}

// String returns the name of the ordering.
func (obj Ordering) String() string {
	if obj < 0 || int(obj) >= len(Orderings) {
		return fmt.Sprintf("Ordering(%d)", int(obj))
	}
	return Orderings[obj]
}

// ParseOrdering returns the ordering with this name. The empty string is the
// default ordering.
func ParseOrdering(s string) (Ordering, error) {
	if s == "" {
		return DefaultOrdering, nil
	}
	for i, x := range Orderings {
		if x == s {
			return Ordering(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transitive set ordering `%s`, expected one of: %s", s, quoteList(Orderings))
}
