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
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"
)

// TypeDefinition is the opaque type of a transitive set definition.
var TypeDefinition = types.NewOpaque("transitive_set_definition")

// ProjectionKind is the kind of value a projection produces.
type ProjectionKind int

const (
	// ProjectionArgs projections produce command line fragments.
	ProjectionArgs ProjectionKind = iota
	// ProjectionJSON projections produce json serializable values.
	ProjectionJSON
)

// String returns the name of the kind.
func (obj ProjectionKind) String() string {
	switch obj {
	case ProjectionArgs:
		return "args"
	case ProjectionJSON:
		return "json"
	}
	return fmt.Sprintf("ProjectionKind(%d)", int(obj))
}

// ParseProjectionKind returns the kind with this name.
func ParseProjectionKind(s string) (ProjectionKind, error) {
	switch s {
	case "args":
		return ProjectionArgs, nil
	case "json":
		return ProjectionJSON, nil
	}
	return 0, fmt.Errorf("unknown projection kind `%s`, expected `args` or `json`", s)
}

// SchemaID identifies an exported definition. It is unique in the process.
type SchemaID uint64

var schemaCounter uint64 // the last SchemaID that was handed out

// ProjectionSpec declares one projection. Fn is called with the value of a node
// as its only argument.
type ProjectionSpec struct {
	Name string
	Kind ProjectionKind
	Fn   types.Value
}

// ReductionSpec declares one reduction. Fn is called with the list of the
// reductions of the children, and the value of the node, or None.
type ReductionSpec struct {
	Name string
	Fn   types.Value
}

// Definition is the schema of a family of transitive sets. It must be exported
// before sets can be built against it, and it's immutable after that.
type Definition struct {
	// Module is the name of the module which declared this definition.
	Module string

	projections []*ProjectionSpec
	reductions  []*ReductionSpec

	name string
	id   SchemaID // zero until exported
}

// NewDefinition builds a new unexported definition. Projection names and
// reduction names must be unique.
func NewDefinition(module string, projections []*ProjectionSpec, reductions []*ReductionSpec) (*Definition, error) {
	seen := make(map[string]struct{})
	for i, x := range projections {
		if x == nil || x.Fn == nil {
			return nil, fmt.Errorf("projection %d has no function", i)
		}
		if x.Kind != ProjectionArgs && x.Kind != ProjectionJSON {
			return nil, fmt.Errorf("projection `%s` has invalid kind %s", x.Name, x.Kind)
		}
		if _, exists := seen[x.Name]; exists {
			return nil, fmt.Errorf("duplicate projection `%s`", x.Name)
		}
		seen[x.Name] = struct{}{}
	}
	seen = make(map[string]struct{})
	for i, x := range reductions {
		if x == nil || x.Fn == nil {
			return nil, fmt.Errorf("reduction %d has no function", i)
		}
		if _, exists := seen[x.Name]; exists {
			return nil, fmt.Errorf("duplicate reduction `%s`", x.Name)
		}
		seen[x.Name] = struct{}{}
	}

	return &Definition{
		Module:      module,
		projections: append([]*ProjectionSpec{}, projections...),
		reductions:  append([]*ReductionSpec{}, reductions...),
	}, nil
}

// Export names the definition and gives it its schema identity.
func (obj *Definition) Export(name string) error {
	if obj.id != 0 {
		return errwrap.Wrapf(ErrAlreadyExported, "can't export as `%s`", name)
	}
	if name == "" {
		return fmt.Errorf("definition name is empty")
	}
	obj.name = name
	obj.id = SchemaID(atomic.AddUint64(&schemaCounter, 1))
	return nil
}

// Exported returns true if the definition has been exported.
func (obj *Definition) Exported() bool { return obj.id != 0 }

// Name returns the exported name, or the empty string.
func (obj *Definition) Name() string { return obj.name }

// ID returns the schema identity. It is zero if the definition isn't exported.
func (obj *Definition) ID() SchemaID { return obj.id }

// Projections returns the projection specs in order.
func (obj *Definition) Projections() []*ProjectionSpec {
	return append([]*ProjectionSpec{}, obj.projections...)
}

// Reductions returns the reduction specs in order.
func (obj *Definition) Reductions() []*ReductionSpec {
	return append([]*ReductionSpec{}, obj.reductions...)
}

// ProjectionNames returns the names of the projections in order.
func (obj *Definition) ProjectionNames() []string {
	names := []string{}
	for _, x := range obj.projections {
		names = append(names, x.Name)
	}
	return names
}

// ReductionNames returns the names of the reductions in order.
func (obj *Definition) ReductionNames() []string {
	names := []string{}
	for _, x := range obj.reductions {
		names = append(names, x.Name)
	}
	return names
}

// LookupProjection returns the index and the kind of the projection with this
// name.
func (obj *Definition) LookupProjection(name string) (int, ProjectionKind, error) {
	for i, x := range obj.projections {
		if x.Name == name {
			return i, x.Kind, nil
		}
	}
	return 0, 0, &SchemaError{Name: name, Valid: obj.ProjectionNames()}
}

// ProjectionIndex returns the index of the projection with this name, which
// must be of the given kind.
func (obj *Definition) ProjectionIndex(kind ProjectionKind, name string) (int, error) {
	index, k, err := obj.LookupProjection(name)
	if err != nil {
		return 0, err
	}
	if k != kind {
		return 0, &ProjectionKindError{Name: name, Expected: kind, Got: k}
	}
	return index, nil
}

// ReductionIndex returns the index of the reduction with this name.
func (obj *Definition) ReductionIndex(name string) (int, error) {
	for i, x := range obj.reductions {
		if x.Name == name {
			return i, nil
		}
	}
	return 0, &ReductionDoesNotExistError{Name: name, Valid: obj.ReductionNames()}
}

// String returns a visual representation of this value.
func (obj *Definition) String() string {
	if obj.id == 0 {
		return "<unexported transitive_set_definition>"
	}
	return obj.name
}

// GoString is used for the more detailed display in error messages.
func (obj *Definition) GoString() string {
	if obj.id == 0 {
		return fmt.Sprintf("<unexported transitive_set_definition from %s>", obj.Module)
	}
	return fmt.Sprintf("%s declared in %s", obj.name, obj.Module)
}

// Type returns the type data structure that represents this type.
func (obj *Definition) Type() *types.Type { return TypeDefinition }

// Cmp returns an error if this value isn't the same as the arg passed in.
// Definitions are only equal to themselves.
func (obj *Definition) Cmp(val types.Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj != val.(*Definition) {
		return fmt.Errorf("definitions are different")
	}
	return nil
}

// Copy returns the same definition.
func (obj *Definition) Copy() types.Value { return obj }

// Value returns the raw value of this type.
func (obj *Definition) Value() interface{} { return obj }

// MarshalJSON encodes the definition as its name.
func (obj *Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(obj.String())
}
