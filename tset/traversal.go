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
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"
)

// Iterator produces the nodes of a traversal one at a time. It's not safe for
// concurrent use, but each traversal gets its own iterator.
type Iterator interface {
	// Next returns the next node, or false when there are no more.
	Next() (*Node, bool)
}

// Collect drains an iterator into a list.
func Collect(it Iterator) []*Node {
	nodes := []*Node{}
	for {
		node, ok := it.Next()
		if !ok {
			return nodes
		}
		nodes = append(nodes, node)
	}
}

// Traverse returns a new iterator over the nodes of this set.
func (obj *setData) Traverse(ordering Ordering) Iterator {
	switch ordering {
	case Postorder:
		return newPostorderIterator(obj)
	case Topological:
		return &topologicalIterator{root: obj}
	case Bfs:
		return newBfsIterator(obj)
	}
	return newPreorderIterator(obj)
}

// IterValues returns a new iterator over the values of the nodes of this set.
func (obj *setData) IterValues(ordering Ordering) *ValueIterator {
	return &ValueIterator{
		it:    obj.Traverse(ordering),
		index: -1,
	}
}

// IterProjectionValues returns a new iterator over the values of one projection
// of the nodes of this set. The index is checked against the first node, and
// the remaining ones have the same definition.
func (obj *setData) IterProjectionValues(ordering Ordering, index int) (*ValueIterator, error) {
	it := obj.Traverse(ordering)
	first, ok := it.Next()
	if ok && (index < 0 || index >= len(first.Projections)) {
		return nil, errwrap.Wrapf(ErrInvalidProjection, "projection %d of %s", index, obj.definition)
	}
	return &ValueIterator{
		it:    it,
		index: index,
		peek:  first,
	}, nil
}

// ValueIterator produces values from the nodes of a traversal.
type ValueIterator struct {
	it    Iterator
	index int   // projection index, or -1 for the node value
	peek  *Node // already taken from it
}

// Next returns the next value, or false when there are no more.
func (obj *ValueIterator) Next() (types.Value, bool) {
	node := obj.peek
	obj.peek = nil
	if node == nil {
		var ok bool
		if node, ok = obj.it.Next(); !ok {
			return nil, false
		}
	}
	if obj.index < 0 {
		return node.Value, true
	}
	return node.Projections[obj.index], true
}

// All drains the iterator into a list.
func (obj *ValueIterator) All() []types.Value {
	values := []types.Value{}
	for {
		v, ok := obj.Next()
		if !ok {
			return values
		}
		values = append(values, v)
	}
}

// visited is the set of already seen sets of a single traversal.
type visited map[*setData]struct{}

func (obj visited) has(s *setData) bool {
	_, exists := obj[s]
	return exists
}

func (obj visited) add(s *setData) bool {
	if _, exists := obj[s]; exists {
		return false
	}
	obj[s] = struct{}{}
	return true
}

// preorderIterator yields a node, then the nodes of its children in order.
type preorderIterator struct {
	stack []*setData
	seen  visited
}

func newPreorderIterator(root *setData) *preorderIterator {
	return &preorderIterator{
		stack: []*setData{root},
		seen:  make(visited),
	}
}

func (obj *preorderIterator) Next() (*Node, bool) {
	for len(obj.stack) > 0 {
		s := obj.stack[len(obj.stack)-1]
		obj.stack = obj.stack[:len(obj.stack)-1]
		if !obj.seen.add(s) {
			continue
		}
		for i := len(s.children) - 1; i >= 0; i-- { // first child on top
			if c := s.children[i].data(); !obj.seen.has(c) {
				obj.stack = append(obj.stack, c)
			}
		}
		if s.node != nil {
			return s.node, true
		}
	}
	return nil, false
}

// postorderFrame is a set on the postorder stack, and the index of its next
// child to visit.
type postorderFrame struct {
	s    *setData
	next int
}

// postorderIterator yields the nodes of the children in order, then the node.
type postorderIterator struct {
	stack   []postorderFrame
	seen    visited
	reverse bool // visit children last to first
}

func newPostorderIterator(root *setData) *postorderIterator {
	obj := &postorderIterator{
		seen: make(visited),
	}
	obj.push(root)
	return obj
}

func (obj *postorderIterator) push(s *setData) {
	obj.seen.add(s)
	obj.stack = append(obj.stack, postorderFrame{s: s})
}

func (obj *postorderIterator) Next() (*Node, bool) {
	for len(obj.stack) > 0 {
		top := &obj.stack[len(obj.stack)-1]
		if n := len(top.s.children); top.next < n {
			i := top.next
			if obj.reverse {
				i = n - 1 - i
			}
			top.next++
			if c := top.s.children[i].data(); !obj.seen.has(c) {
				obj.push(c)
			}
			continue
		}
		s := top.s
		obj.stack = obj.stack[:len(obj.stack)-1]
		if s.node != nil {
			return s.node, true
		}
	}
	return nil, false
}

// topologicalIterator yields a node only after all the nodes which have it as a
// child. It's the reverse of a postorder which visits children last to first,
// so siblings still come out in order. The whole order is computed the first
// time Next is called.
type topologicalIterator struct {
	root  *setData
	nodes []*Node
	done  bool
}

func (obj *topologicalIterator) Next() (*Node, bool) {
	if !obj.done {
		post := newPostorderIterator(obj.root)
		post.reverse = true
		obj.nodes = Collect(post)
		for i, j := 0, len(obj.nodes)-1; i < j; i, j = i+1, j-1 {
			obj.nodes[i], obj.nodes[j] = obj.nodes[j], obj.nodes[i]
		}
		obj.done = true
	}
	if len(obj.nodes) == 0 {
		return nil, false
	}
	node := obj.nodes[0]
	obj.nodes[0] = nil
	obj.nodes = obj.nodes[1:]
	return node, true
}

// bfsIterator yields the nodes level by level. A shared node is yielded at the
// depth where it was first discovered.
type bfsIterator struct {
	queue []*setData
	seen  visited
}

func newBfsIterator(root *setData) *bfsIterator {
	obj := &bfsIterator{
		seen: make(visited),
	}
	obj.seen.add(root)
	obj.queue = append(obj.queue, root)
	return obj
}

func (obj *bfsIterator) Next() (*Node, bool) {
	for len(obj.queue) > 0 {
		s := obj.queue[0]
		obj.queue[0] = nil
		obj.queue = obj.queue[1:]
		for _, x := range s.children {
			if c := x.data(); obj.seen.add(c) {
				obj.queue = append(obj.queue, c)
			}
		}
		if s.node != nil {
			return s.node, true
		}
	}
	return nil, false
}
