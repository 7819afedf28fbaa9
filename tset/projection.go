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
	"fmt"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/cmdargs"
	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"
	"github.com/purpleidea/tset/util/errwrap"
)

var (
	// TypeArgsProjection is the opaque type of args projections.
	TypeArgsProjection = types.NewOpaque("transitive_set_args_projection")

	// TypeJSONProjection is the opaque type of json projections.
	TypeJSONProjection = types.NewOpaque("transitive_set_json_projection")

	// TypeTraversal is the opaque type of traversals.
	TypeTraversal = types.NewOpaque("transitive_set_iterator")
)

// projection is what both projection values have in common.
type projection struct {
	set      transitiveSet
	index    int
	ordering Ordering
}

// Set returns the projected set. It's a *Set or a *MutableSet.
func (obj *projection) Set() types.Value { return obj.set }

// Index returns the index of the projection in the definition.
func (obj *projection) Index() int { return obj.index }

// Ordering returns the order the nodes are visited in.
func (obj *projection) Ordering() Ordering { return obj.ordering }

// Values returns the projection value of every node in order.
func (obj *projection) Values() ([]types.Value, error) {
	it, err := obj.set.data().IterProjectionValues(obj.ordering, obj.index)
	if err != nil {
		return nil, err
	}
	return it.All(), nil
}

// VisitArtifacts passes the projection as a single deferred input. The inputs
// of the nodes are resolved by the action graph.
func (obj *projection) VisitArtifacts(visitor artifact.Visitor) error {
	return visitor.VisitProjection(artifact.ProjectionKey{
		Key:        obj.set.data().key,
		Projection: obj.index,
	})
}

func (obj *projection) format(kind string) string {
	d := obj.set.data()
	return fmt.Sprintf("%s_projection(%s, projection=%s, ordering=%s)", kind, obj.set, d.definition.projections[obj.index].Name, obj.ordering)
}

func (obj *projection) cmp(val *projection) error {
	if obj.set.data() != val.set.data() {
		return fmt.Errorf("sets are different")
	}
	if obj.index != val.index {
		return fmt.Errorf("projections are different")
	}
	if obj.ordering != val.ordering {
		return fmt.Errorf("orderings are different")
	}
	return nil
}

// freeze returns the projection of the frozen set, or nil if the set is frozen
// already.
func (obj *projection) freeze(freezer *types.Freezer) (*projection, error) {
	if _, ok := obj.set.(*Set); ok {
		return nil, nil
	}
	v, err := freezer.Freeze(obj.set)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Set)
	if !ok {
		return nil, errwrap.Wrapf(ErrInternal, "set froze into a %T", v)
	}
	return &projection{set: s, index: obj.index, ordering: obj.ordering}, nil
}

func lookupProjection(s transitiveSet, kind ProjectionKind, name string, ordering Ordering) (*projection, error) {
	index, err := s.data().definition.ProjectionIndex(kind, name)
	if err != nil {
		return nil, err
	}
	return &projection{set: s, index: index, ordering: ordering}, nil
}

// ArgsProjection is a command line which holds the args projection of every
// node of a set.
type ArgsProjection struct {
	projection
}

func newArgsProjection(s transitiveSet, name string, ordering Ordering) (*ArgsProjection, error) {
	p, err := lookupProjection(s, ProjectionArgs, name, ordering)
	if err != nil {
		return nil, err
	}
	return &ArgsProjection{*p}, nil
}

// String returns a visual representation of this value.
func (obj *ArgsProjection) String() string { return obj.format("args") }

// Type returns the type data structure that represents this type.
func (obj *ArgsProjection) Type() *types.Type { return TypeArgsProjection }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *ArgsProjection) Cmp(val types.Value) error {
	x, ok := val.(*ArgsProjection)
	if !ok || x == nil {
		return fmt.Errorf("value is not an args projection")
	}
	return obj.cmp(&x.projection)
}

// Copy returns the same projection.
func (obj *ArgsProjection) Copy() types.Value { return obj }

// Value returns the rendered command line, or nil if it can't be rendered.
func (obj *ArgsProjection) Value() interface{} {
	args, err := cmdargs.Render(obj)
	if err != nil {
		return nil
	}
	return args
}

// AddToCommandLine adds the projection of every node in order.
func (obj *ArgsProjection) AddToCommandLine(builder *cmdargs.Builder) error {
	values, err := obj.Values()
	if err != nil {
		return err
	}
	for _, v := range values {
		arg, err := cmdargs.AsCommandLine(v)
		if err != nil {
			return errwrap.Wrapf(err, "invalid args projection")
		}
		if err := arg.AddToCommandLine(builder); err != nil {
			return err
		}
	}
	return nil
}

// Freeze returns the projection of the frozen set.
func (obj *ArgsProjection) Freeze(freezer *types.Freezer) (types.Value, error) {
	p, err := obj.freeze(freezer)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return obj, nil
	}
	return &ArgsProjection{*p}, nil
}

// JSONProjection is a json value which holds the json projection of every node
// of a set, as a list.
type JSONProjection struct {
	projection
}

func newJSONProjection(s transitiveSet, name string, ordering Ordering) (*JSONProjection, error) {
	p, err := lookupProjection(s, ProjectionJSON, name, ordering)
	if err != nil {
		return nil, err
	}
	return &JSONProjection{*p}, nil
}

// String returns a visual representation of this value.
func (obj *JSONProjection) String() string { return obj.format("json") }

// Type returns the type data structure that represents this type.
func (obj *JSONProjection) Type() *types.Type { return TypeJSONProjection }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *JSONProjection) Cmp(val types.Value) error {
	x, ok := val.(*JSONProjection)
	if !ok || x == nil {
		return fmt.Errorf("value is not a json projection")
	}
	return obj.cmp(&x.projection)
}

// Copy returns the same projection.
func (obj *JSONProjection) Copy() types.Value { return obj }

// Value returns the raw value of this type.
func (obj *JSONProjection) Value() interface{} { return obj }

// MarshalJSON encodes the projection of every node in order, as a list.
func (obj *JSONProjection) MarshalJSON() ([]byte, error) {
	values, err := obj.Values()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := langjson.Marshal(v)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not marshal node %d", i)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Freeze returns the projection of the frozen set.
func (obj *JSONProjection) Freeze(freezer *types.Freezer) (types.Value, error) {
	p, err := obj.freeze(freezer)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return obj, nil
	}
	return &JSONProjection{*p}, nil
}

// Traversal is a value which holds the values of every node of a set in order.
type Traversal struct {
	set      transitiveSet
	ordering Ordering
}

// Values returns the value of every node in order.
func (obj *Traversal) Values() []types.Value {
	return obj.set.data().IterValues(obj.ordering).All()
}

// List returns the values as a list value.
func (obj *Traversal) List() *types.ListValue {
	return types.NewList(obj.Values()...)
}

// String returns a visual representation of this value.
func (obj *Traversal) String() string {
	return fmt.Sprintf("traversal(%s, ordering=%s)", obj.set, obj.ordering)
}

// Type returns the type data structure that represents this type.
func (obj *Traversal) Type() *types.Type { return TypeTraversal }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *Traversal) Cmp(val types.Value) error {
	x, ok := val.(*Traversal)
	if !ok || x == nil {
		return fmt.Errorf("value is not a traversal")
	}
	if obj.set.data() != x.set.data() || obj.ordering != x.ordering {
		return fmt.Errorf("traversals are different")
	}
	return nil
}

// Copy returns the same traversal.
func (obj *Traversal) Copy() types.Value { return obj }

// Value returns the raw values of every node.
func (obj *Traversal) Value() interface{} {
	return obj.List().Value()
}

// Freeze returns the traversal of the frozen set.
func (obj *Traversal) Freeze(freezer *types.Freezer) (types.Value, error) {
	if _, ok := obj.set.(*Set); ok {
		return obj, nil
	}
	v, err := freezer.Freeze(obj.set)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Set)
	if !ok {
		return nil, errwrap.Wrapf(ErrInternal, "set froze into a %T", v)
	}
	return &Traversal{set: s, ordering: obj.ordering}, nil
}
