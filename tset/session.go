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

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/cmdargs"
	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"
	"github.com/purpleidea/tset/prometheus"
	"github.com/purpleidea/tset/util/errwrap"

	"github.com/google/uuid"
)

// Session builds the sets of a single evaluation. It hands out their keys, runs
// their projections and reductions, and freezes all of them together at the
// end. It's not safe for concurrent use. Run Init() on it.
type Session struct {
	// Name is the owner of the keys of this session. A random one is used
	// if it is empty.
	Name string

	// Evaluator runs the projection and reduction functions.
	Evaluator Evaluator

	// Prometheus collects metrics if it is set.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})

	nextID uint64
	keys   map[artifact.SetKey]struct{}
	sets   []*MutableSet // in construction order
	frozen *Frozen
}

// Init validates the session and gets it ready for use.
func (obj *Session) Init() error {
	if obj.Evaluator == nil {
		return fmt.Errorf("the Evaluator is missing")
	}
	if obj.Name == "" {
		obj.Name = uuid.New().String()
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	obj.keys = make(map[artifact.SetKey]struct{})
	return nil
}

// NewKey returns a fresh key owned by this session.
func (obj *Session) NewKey() artifact.SetKey {
	key := artifact.SetKey{Owner: obj.Name, ID: obj.nextID}
	obj.nextID++
	return key
}

// Len returns the number of sets that were built so far.
func (obj *Session) Len() int { return len(obj.sets) }

// New builds a new set against the definition. The value may be nil or None if
// the set has no value of its own. Each child must be a set of the same
// definition, either frozen, or built by this session. If anything fails, the
// session is left as it was.
func (obj *Session) New(key artifact.SetKey, def *Definition, value types.Value, children []types.Value) (*MutableSet, error) {
	s, err := obj.build(key, def, value, children)
	if def != nil {
		obj.Prometheus.UpdateSetsTotal(def.String(), err != nil)
	}
	if err != nil {
		return nil, err
	}
	obj.keys[key] = struct{}{}
	obj.sets = append(obj.sets, s)
	if obj.Debug {
		obj.Logf("built %s as %s", s, key)
	}
	return s, nil
}

// NewFromValues is like New, but the children are given as a single list value,
// or None.
func (obj *Session) NewFromValues(key artifact.SetKey, def *Definition, value types.Value, children types.Value) (*MutableSet, error) {
	if types.IsNone(children) {
		return obj.New(key, def, value, nil)
	}
	l, ok := children.(*types.ListValue)
	if !ok {
		return nil, fmt.Errorf("children must be a list, got %s", children.Type())
	}
	return obj.New(key, def, value, l.List())
}

func (obj *Session) build(key artifact.SetKey, def *Definition, value types.Value, children []types.Value) (*MutableSet, error) {
	if obj.frozen != nil {
		return nil, ErrSessionFrozen
	}
	if def == nil {
		return nil, fmt.Errorf("the definition is missing")
	}
	if !def.Exported() {
		return nil, ErrUsedBeforeAssignment
	}
	if _, exists := obj.keys[key]; exists {
		return nil, errwrap.Wrapf(ErrDuplicateKey, "key %s", key)
	}
	if types.IsNone(value) {
		value = nil
	}

	sets := make([]transitiveSet, 0, len(children))
	for _, v := range children {
		s, ok := asSet(v)
		if !ok {
			got := "nil"
			if v != nil {
				got = v.String()
			}
			return nil, &NotTransitiveSetError{Got: got}
		}
		if d := s.data().definition; d.id != def.id {
			return nil, &WrongTypeError{
				Expected: def.GoString(),
				Got:      d.GoString(),
			}
		}
		if m, ok := s.(*MutableSet); ok && m.session != obj {
			return nil, fmt.Errorf("child %s was built in another session which is not frozen", m.key)
		}
		sets = append(sets, s)
	}

	var node *Node
	if value != nil {
		projections := make([]types.Value, 0, len(def.projections))
		for _, spec := range def.projections {
			result, err := obj.Evaluator.Call(spec.Fn, []types.Value{value})
			if err != nil {
				return nil, &ProjectionError{Name: spec.Name, Err: err}
			}
			if result == nil {
				result = types.None
			}
			if err := checkProjection(spec.Kind, result); err != nil {
				return nil, &ProjectionError{Name: spec.Name, Err: err}
			}
			projections = append(projections, result)
		}
		node = &Node{
			Value:       value,
			Projections: projections,
		}
	}

	reductions := make([]types.Value, 0, len(def.reductions))
	for i, spec := range def.reductions {
		values := make([]types.Value, 0, len(sets))
		for _, s := range sets {
			d := s.data()
			if i >= len(d.reductions) {
				return nil, errwrap.Wrapf(ErrInternal, "child %s is missing reduction %d", s, i)
			}
			values = append(values, d.reductions[i])
		}
		arg := value
		if arg == nil {
			arg = types.None
		}
		result, err := obj.Evaluator.Call(spec.Fn, []types.Value{types.NewList(values...), arg})
		if err != nil {
			return nil, &ReductionError{Name: spec.Name, Err: err}
		}
		if result == nil {
			result = types.None
		}
		reductions = append(reductions, result)
	}

	return &MutableSet{
		setData: setData{
			key:        key,
			definition: def,
			node:       node,
			reductions: reductions,
			children:   sets,
		},
		session: obj,
	}, nil
}

// checkProjection returns an error if the result of a projection doesn't suit
// its kind.
func checkProjection(kind ProjectionKind, v types.Value) error {
	switch kind {
	case ProjectionArgs:
		if _, err := cmdargs.AsCommandLine(v); err != nil {
			return errwrap.Wrapf(err, "args projection must return a command line")
		}
		return nil
	case ProjectionJSON:
		if err := langjson.Validate(v); err != nil {
			return errwrap.Wrapf(err, "json projection must return a json value")
		}
		return nil
	}
	return errwrap.Wrapf(ErrInternal, "unknown projection kind %s", kind)
}

// Freeze freezes every set of this session, and returns the frozen sets. The
// session refuses to build any more sets afterwards. Freezing again returns the
// same result.
func (obj *Session) Freeze() (*Frozen, error) {
	if obj.frozen != nil {
		return obj.frozen, nil
	}
	freezer := types.NewFreezer()
	frozen := &Frozen{
		freezer: freezer,
		lookup:  make(map[*MutableSet]*Set),
	}
	for _, m := range obj.sets { // children always come first
		v, err := freezer.Freeze(m)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze %s", m.key)
		}
		s, ok := v.(*Set)
		if !ok {
			return nil, errwrap.Wrapf(ErrInternal, "%s froze into a %T", m.key, v)
		}
		frozen.lookup[m] = s
		frozen.sets = append(frozen.sets, s)
	}
	obj.frozen = frozen
	obj.Prometheus.UpdateFrozenTotal(len(frozen.sets))
	if obj.Debug {
		obj.Logf("froze %d sets", len(frozen.sets))
	}
	return frozen, nil
}
