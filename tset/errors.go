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
	"strings"

	"github.com/purpleidea/tset/util"
)

const (
	// ErrUsedBeforeAssignment is returned when a definition is used before
	// it was exported, and so before it has a schema identity.
	ErrUsedBeforeAssignment = util.Error("transitive set definition used before assignment")

	// ErrAlreadyExported is returned when a definition is exported twice.
	ErrAlreadyExported = util.Error("transitive set definition is already exported")

	// ErrInvalidProjection is returned when a projection index is out of
	// range.
	ErrInvalidProjection = util.Error("invalid projection")

	// ErrInternal is wrapped by errors which can only happen if the engine
	// itself is broken.
	ErrInternal = util.Error("internal error")

	// ErrDuplicateKey is returned when two sets are built with the same key.
	ErrDuplicateKey = util.Error("duplicate transitive set key")

	// ErrSessionFrozen is returned when a frozen session is asked to build
	// another set.
	ErrSessionFrozen = util.Error("session is frozen")
)

// WrongTypeError is returned when a child was built against another
// definition. Definitions only match themselves.
type WrongTypeError struct {
	Expected string
	Got      string
}

// Error returns a friendly error message.
func (obj *WrongTypeError) Error() string {
	return fmt.Sprintf("transitive set has the wrong type, expected %s, got %s", obj.Expected, obj.Got)
}

// NotTransitiveSetError is returned when a child is not a transitive set.
type NotTransitiveSetError struct {
	Got string
}

// Error returns a friendly error message.
func (obj *NotTransitiveSetError) Error() string {
	return fmt.Sprintf("expected a transitive set, got %s", obj.Got)
}

// ProjectionError is returned when a projection function fails, or returns a
// value which doesn't suit the kind of the projection.
type ProjectionError struct {
	Name string
	Err  error
}

// Error returns a friendly error message.
func (obj *ProjectionError) Error() string {
	return fmt.Sprintf("error computing projection `%s`: %s", obj.Name, obj.Err)
}

// Unwrap returns the underlying error.
func (obj *ProjectionError) Unwrap() error { return obj.Err }

// ReductionError is returned when a reduction function fails.
type ReductionError struct {
	Name string
	Err  error
}

// Error returns a friendly error message.
func (obj *ReductionError) Error() string {
	return fmt.Sprintf("error computing reduction `%s`: %s", obj.Name, obj.Err)
}

// Unwrap returns the underlying error.
func (obj *ReductionError) Unwrap() error { return obj.Err }

// ReductionDoesNotExistError is returned when a reduction is looked up by a name
// which the definition doesn't have.
type ReductionDoesNotExistError struct {
	Name  string
	Valid []string
}

// Error returns a friendly error message.
func (obj *ReductionDoesNotExistError) Error() string {
	return fmt.Sprintf("reduction `%s` does not exist, valid reductions are: %s", obj.Name, quoteList(obj.Valid))
}

// SchemaError is returned when a projection is looked up by a name which the
// definition doesn't have.
type SchemaError struct {
	Name  string
	Valid []string
}

// Error returns a friendly error message.
func (obj *SchemaError) Error() string {
	return fmt.Sprintf("projection `%s` does not exist, valid projections are: %s", obj.Name, quoteList(obj.Valid))
}

// ProjectionKindError is returned when a projection is used as the wrong kind.
type ProjectionKindError struct {
	Name     string
	Expected ProjectionKind
	Got      ProjectionKind
}

// Error returns a friendly error message.
func (obj *ProjectionKindError) Error() string {
	return fmt.Sprintf("projection `%s` is of kind `%s`, not `%s`", obj.Name, obj.Got, obj.Expected)
}

func quoteList(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	s := []string{}
	for _, x := range names {
		s = append(s, "`"+x+"`")
	}
	return strings.Join(s, ", ")
}
