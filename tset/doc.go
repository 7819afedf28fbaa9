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

// Package tset implements transitive sets. A transitive set is an immutable
// node in a directed acyclic graph of sets which share their children. Each
// set is built against a Definition, which fixes the projections that are
// computed from the value of every node, and the reductions that fold the
// values of a set together with the reductions of its children.
//
// Sets are built inside of a Session, and have the *MutableSet type while that
// is happening. Once the evaluation which built them is done, the session is
// frozen, and the sets become *Set values which can be shared and read from
// many goroutines at once. Both kinds can be traversed in four orders:
// preorder, postorder, topological and bfs. Each reachable node is only ever
// visited once, even if it is shared by many parents.
package tset
