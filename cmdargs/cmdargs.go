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

// Package cmdargs implements command line values. A command line is a list of
// strings, artifacts and nested command lines, which renders into the flat
// argument list of a build action.
package cmdargs

import (
	"fmt"
	"strings"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"
)

// TypeCmdArgs is the opaque type of command line values.
var TypeCmdArgs = types.NewOpaque("cmd_args")

// Arg is a value which can be added to a command line.
type Arg interface {
	types.Value
	artifact.Visitable

	// AddToCommandLine renders this value into the builder.
	AddToCommandLine(*Builder) error
}

// Builder accumulates the rendered form of a command line.
type Builder struct {
	args []string
}

// Add adds a single argument.
func (obj *Builder) Add(arg string) {
	obj.args = append(obj.args, arg)
}

// Args returns the arguments that were added so far.
func (obj *Builder) Args() []string {
	return obj.args
}

// Render runs the arg through a fresh builder and returns the result.
func Render(arg Arg) ([]string, error) {
	builder := &Builder{}
	if err := arg.AddToCommandLine(builder); err != nil {
		return nil, err
	}
	return builder.Args(), nil
}

// AsCommandLine coerces a value into something that can be added to a command
// line. Strings, artifacts, lists of those, and existing command line values
// are accepted. Anything else is an error.
func AsCommandLine(v types.Value) (Arg, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot use nil as a command line")
	}
	switch x := v.(type) {
	case Arg:
		return x, nil
	case *types.StrValue:
		return &strArg{x}, nil
	case *artifact.Artifact:
		return &artifactArg{x}, nil
	case *types.ListValue:
		c := &CmdArgs{}
		for i, elem := range x.List() {
			if err := c.Add(elem); err != nil {
				return nil, errwrap.Wrapf(err, "index %d", i)
			}
		}
		return c, nil
	}
	return nil, fmt.Errorf("value of type %s is not a command line", v.Type())
}

// CmdArgs is a mutable command line value. It becomes immutable when frozen.
type CmdArgs struct {
	items []Arg

	frozen bool
}

// New returns a command line made out of the given values.
func New(values ...types.Value) (*CmdArgs, error) {
	c := &CmdArgs{}
	for i, v := range values {
		if err := c.Add(v); err != nil {
			return nil, errwrap.Wrapf(err, "argument %d", i)
		}
	}
	return c, nil
}

// Add appends a value. Lists are flattened.
func (obj *CmdArgs) Add(v types.Value) error {
	if obj.frozen {
		return types.ErrFrozen
	}
	if l, ok := v.(*types.ListValue); ok {
		for i, elem := range l.List() {
			if err := obj.Add(elem); err != nil {
				return errwrap.Wrapf(err, "index %d", i)
			}
		}
		return nil
	}
	arg, err := AsCommandLine(v)
	if err != nil {
		return err
	}
	obj.items = append(obj.items, arg)
	return nil
}

// Len returns the number of top level items.
func (obj *CmdArgs) Len() int { return len(obj.items) }

// String returns a visual representation of this value.
func (obj *CmdArgs) String() string {
	var s []string
	for _, x := range obj.items {
		s = append(s, x.String())
	}
	return fmt.Sprintf("cmd_args(%s)", strings.Join(s, ", "))
}

// Type returns the type data structure that represents this type.
func (obj *CmdArgs) Type() *types.Type { return TypeCmdArgs }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *CmdArgs) Cmp(val types.Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	cmp := val.(*CmdArgs)
	if len(obj.items) != len(cmp.items) {
		return fmt.Errorf("command lines have different lengths")
	}
	for i := range obj.items {
		if err := obj.items[i].Cmp(cmp.items[i]); err != nil {
			return errwrap.Wrapf(err, "item %d did not cmp", i)
		}
	}
	return nil
}

// Copy returns a mutable shallow copy of this value.
func (obj *CmdArgs) Copy() types.Value {
	items := make([]Arg, len(obj.items))
	copy(items, obj.items)
	return &CmdArgs{items: items}
}

// Value returns the rendered arguments, or nil if they can't be rendered.
func (obj *CmdArgs) Value() interface{} {
	args, err := Render(obj)
	if err != nil {
		return nil
	}
	return args
}

// Freeze returns the immutable form of this command line.
func (obj *CmdArgs) Freeze(freezer *types.Freezer) (types.Value, error) {
	if obj.frozen {
		return obj, nil
	}
	c := &CmdArgs{frozen: true}
	for i, x := range obj.items {
		v, err := freezer.Freeze(x)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze item %d", i)
		}
		arg, ok := v.(Arg)
		if !ok {
			return nil, fmt.Errorf("item %d froze into a %s", i, v.Type())
		}
		c.items = append(c.items, arg)
	}
	return c, nil
}

// AddToCommandLine renders every item in order.
func (obj *CmdArgs) AddToCommandLine(builder *Builder) error {
	for _, x := range obj.items {
		if err := x.AddToCommandLine(builder); err != nil {
			return err
		}
	}
	return nil
}

// VisitArtifacts visits the artifacts of every item in order.
func (obj *CmdArgs) VisitArtifacts(visitor artifact.Visitor) error {
	for _, x := range obj.items {
		if err := x.VisitArtifacts(visitor); err != nil {
			return err
		}
	}
	return nil
}

// strArg adds a literal string.
type strArg struct {
	*types.StrValue
}

func (obj *strArg) AddToCommandLine(builder *Builder) error {
	builder.Add(obj.V)
	return nil
}

func (obj *strArg) VisitArtifacts(artifact.Visitor) error { return nil }

func (obj *strArg) Cmp(val types.Value) error {
	if x, ok := val.(*strArg); ok {
		return obj.StrValue.Cmp(x.StrValue)
	}
	return obj.StrValue.Cmp(val)
}

// artifactArg adds the path of an artifact.
type artifactArg struct {
	*artifact.Artifact
}

func (obj *artifactArg) AddToCommandLine(builder *Builder) error {
	builder.Add(obj.Path)
	return nil
}

func (obj *artifactArg) Cmp(val types.Value) error {
	if x, ok := val.(*artifactArg); ok {
		return obj.Artifact.Cmp(x.Artifact)
	}
	return obj.Artifact.Cmp(val)
}
