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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"
	"github.com/purpleidea/tset/util/errwrap"
)

// TypeSet is the opaque type of transitive sets, in both phases.
var TypeSet = types.NewOpaque("transitive_set")

// Node is the payload of a set which was given a value. Projections has one
// entry per projection of the definition, in the same order.
type Node struct {
	Value       types.Value
	Projections []types.Value
}

// transitiveSet is implemented by both phases of a set.
type transitiveSet interface {
	types.Value

	data() *setData
}

// asSet returns the set inside of a value if it is one.
func asSet(v types.Value) (transitiveSet, bool) {
	switch x := v.(type) {
	case *Set:
		return x, true
	case *MutableSet:
		return x, true
	}
	return nil, false
}

// setData is what both phases of a set have in common. Its methods are
// promoted onto *Set and *MutableSet.
type setData struct {
	key        artifact.SetKey
	definition *Definition
	node       *Node         // nil if the set has no value
	reductions []types.Value // one per reduction of the definition
	children   []transitiveSet
}

// Key returns the key the set was built with.
func (obj *setData) Key() artifact.SetKey { return obj.key }

// Definition returns the definition the set was built against.
func (obj *setData) Definition() *Definition { return obj.definition }

// Node returns the payload of the set, or nil if it was built without a value.
func (obj *setData) Node() *Node { return obj.node }

// ValueOrNone returns the value of the set, or None if it has none.
func (obj *setData) ValueOrNone() types.Value {
	if obj.node == nil {
		return types.None
	}
	return obj.node.Value
}

// NumChildren returns the number of direct children, duplicates included.
func (obj *setData) NumChildren() int { return len(obj.children) }

// Reduce returns the result of the reduction with this name.
func (obj *setData) Reduce(name string) (types.Value, error) {
	index, err := obj.definition.ReductionIndex(name)
	if err != nil {
		return nil, err
	}
	return obj.Reduction(index)
}

// Reduction returns the result of the reduction at this index.
func (obj *setData) Reduction(index int) (types.Value, error) {
	if index < 0 || index >= len(obj.reductions) {
		return nil, fmt.Errorf("reduction %d is out of range", index)
	}
	return obj.reductions[index], nil
}

func (obj *setData) checkProjection(index int) error {
	if index < 0 || index >= len(obj.definition.projections) {
		return errwrap.Wrapf(ErrInvalidProjection, "projection %d of %s", index, obj.definition)
	}
	return nil
}

// ProjectionName returns the name of the projection at this index.
func (obj *setData) ProjectionName(index int) (string, error) {
	if err := obj.checkProjection(index); err != nil {
		return "", err
	}
	return obj.definition.projections[index].Name, nil
}

// ProjectionKey returns the key the action graph uses for the projection at
// this index of this set.
func (obj *setData) ProjectionKey(index int) (artifact.ProjectionKey, error) {
	if err := obj.checkProjection(index); err != nil {
		return artifact.ProjectionKey{}, err
	}
	return artifact.ProjectionKey{Key: obj.key, Projection: index}, nil
}

// ProjectionValue returns the value of the projection at this index for the
// node of this set only. It is None if the set has no value.
func (obj *setData) ProjectionValue(index int) (types.Value, error) {
	if err := obj.checkProjection(index); err != nil {
		return nil, err
	}
	if obj.node == nil {
		return types.None, nil
	}
	return obj.node.Projections[index], nil
}

// format is the common String implementation.
func (obj *setData) format() string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%s(", obj.definition)
	if obj.node != nil {
		fmt.Fprintf(buf, "value=%s, ", obj.node.Value)
	}
	fmt.Fprintf(buf, "%d children)", len(obj.children))
	return buf.String()
}

// MarshalJSON renders the set for debugging. It can't be decoded again.
func (obj *setData) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(`{"definition":`)
	b, err := json.Marshal(obj.definition.String())
	if err != nil {
		return nil, err
	}
	buf.Write(b)
	if obj.node != nil {
		b, err := langjson.Marshal(obj.node.Value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not marshal value")
		}
		buf.WriteString(`,"value":`)
		buf.Write(b)
	}
	fmt.Fprintf(buf, `,"children":%d}`, len(obj.children))
	return buf.Bytes(), nil
}

// Set is a frozen transitive set. It's immutable, and safe to read from many
// goroutines at once.
type Set struct {
	setData
}

func (obj *Set) data() *setData { return &obj.setData }

// Children returns the direct children in order.
func (obj *Set) Children() []*Set {
	children := make([]*Set, 0, len(obj.children))
	for _, x := range obj.children {
		children = append(children, x.(*Set))
	}
	return children
}

// String returns a visual representation of this value.
func (obj *Set) String() string { return obj.format() }

// Type returns the type data structure that represents this type.
func (obj *Set) Type() *types.Type { return TypeSet }

// Cmp returns an error if this value isn't the same as the arg passed in. Sets
// are only equal to themselves.
func (obj *Set) Cmp(val types.Value) error { return cmpSet(obj, val) }

// Copy returns the same set.
func (obj *Set) Copy() types.Value { return obj }

// Value returns the raw value of this type.
func (obj *Set) Value() interface{} { return obj }

// ProjectAsArgs returns a command line value which contains the projection with
// this name of every node, in the given order.
func (obj *Set) ProjectAsArgs(name string, ordering Ordering) (*ArgsProjection, error) {
	return newArgsProjection(obj, name, ordering)
}

// ProjectAsJSON returns a json value which contains the projection with this
// name of every node, in the given order.
func (obj *Set) ProjectAsJSON(name string, ordering Ordering) (*JSONProjection, error) {
	return newJSONProjection(obj, name, ordering)
}

// Traversal returns a value which holds the values of every node.
func (obj *Set) Traversal(ordering Ordering) *Traversal {
	return &Traversal{set: obj, ordering: ordering}
}

// MutableSet is a set which was built in a session that isn't frozen yet. It
// can't be changed either, but it may only be shared inside of its session.
type MutableSet struct {
	setData

	session *Session
}

func (obj *MutableSet) data() *setData { return &obj.setData }

// Children returns the direct children in order. Each one is a *Set or a
// *MutableSet.
func (obj *MutableSet) Children() []types.Value {
	children := make([]types.Value, 0, len(obj.children))
	for _, x := range obj.children {
		children = append(children, x)
	}
	return children
}

// String returns a visual representation of this value.
func (obj *MutableSet) String() string { return obj.format() }

// Type returns the type data structure that represents this type.
func (obj *MutableSet) Type() *types.Type { return TypeSet }

// Cmp returns an error if this value isn't the same as the arg passed in. Sets
// are only equal to themselves.
func (obj *MutableSet) Cmp(val types.Value) error { return cmpSet(obj, val) }

// Copy returns the same set.
func (obj *MutableSet) Copy() types.Value { return obj }

// Value returns the raw value of this type.
func (obj *MutableSet) Value() interface{} { return obj }

// ProjectAsArgs returns a command line value which contains the projection with
// this name of every node, in the given order.
func (obj *MutableSet) ProjectAsArgs(name string, ordering Ordering) (*ArgsProjection, error) {
	return newArgsProjection(obj, name, ordering)
}

// ProjectAsJSON returns a json value which contains the projection with this
// name of every node, in the given order.
func (obj *MutableSet) ProjectAsJSON(name string, ordering Ordering) (*JSONProjection, error) {
	return newJSONProjection(obj, name, ordering)
}

// Traversal returns a value which holds the values of every node.
func (obj *MutableSet) Traversal(ordering Ordering) *Traversal {
	return &Traversal{set: obj, ordering: ordering}
}

// Freeze returns the frozen form of this set. Children are frozen through the
// same freezer, so a child that is shared stays shared.
func (obj *MutableSet) Freeze(freezer *types.Freezer) (types.Value, error) {
	s := &Set{}
	s.key = obj.key
	s.definition = obj.definition

	if obj.node != nil {
		value, err := freezer.Freeze(obj.node.Value)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze value of %s", obj.key)
		}
		projections, err := freezer.FreezeSlice(obj.node.Projections)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze projections of %s", obj.key)
		}
		s.node = &Node{
			Value:       value,
			Projections: projections,
		}
	}

	reductions, err := freezer.FreezeSlice(obj.reductions)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not freeze reductions of %s", obj.key)
	}
	s.reductions = reductions

	s.children = make([]transitiveSet, 0, len(obj.children))
	for i, x := range obj.children {
		v, err := freezer.Freeze(x)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze child %d of %s", i, obj.key)
		}
		child, ok := v.(*Set)
		if !ok {
			return nil, errwrap.Wrapf(ErrInternal, "child %d of %s froze into a %T", i, obj.key, v)
		}
		s.children = append(s.children, child)
	}
	return s, nil
}

func cmpSet(obj transitiveSet, val types.Value) error {
	if val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if s, ok := asSet(val); !ok || s.data() != obj.data() {
		return fmt.Errorf("sets are different")
	}
	return nil
}
