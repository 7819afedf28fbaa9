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

// Package types provides the value system that build descriptions use when
// they talk to the transitive set engine. Values are dynamically typed, so a
// Type is little more than a Kind with a name for the opaque kinds that other
// packages add, such as artifacts or transitive sets.
package types

import (
	"fmt"
)

//go:generate stringer -type=Kind -output=kind_stringer.go

// The Kind represents the base type of each value.
type Kind int

// Each Kind represents a type in the language type system.
const (
	KindNil Kind = iota
	KindBool
	KindStr
	KindInt
	KindList
	KindDict
	KindFunc
	KindOpaque
)

var (
	// TypeNil is the type of None.
	TypeNil = &Type{Kind: KindNil}
	// TypeBool is the type of booleans.
	TypeBool = &Type{Kind: KindBool}
	// TypeStr is the type of strings.
	TypeStr = &Type{Kind: KindStr}
	// TypeInt is the type of integers.
	TypeInt = &Type{Kind: KindInt}
	// TypeList is the type of lists, which may contain mixed values.
	TypeList = &Type{Kind: KindList}
	// TypeDict is the type of string keyed dictionaries.
	TypeDict = &Type{Kind: KindDict}
	// TypeFunc is the type of callable values.
	TypeFunc = &Type{Kind: KindFunc}
)

// Type is the datastructure representing any type. Container types do not
// carry the types of their elements, because values are checked dynamically.
type Type struct {
	Kind Kind

	Name string // if Kind == Opaque, the name of the opaque type
}

// NewOpaque builds a new opaque type with the given name. Packages which add
// their own values to the language use this for their Type method.
func NewOpaque(name string) *Type {
	return &Type{
		Kind: KindOpaque,
		Name: name,
	}
}

// String returns the textual representation for this type.
func (obj *Type) String() string {
	if obj == nil {
		return "<nil>"
	}
	switch obj.Kind {
	case KindNil:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindFunc:
		return "function"
	case KindOpaque:
		return obj.Name
	}

	panic("malformed type") // programming error
}

// Cmp compares this type to another. It returns an error if they differ.
func (obj *Type) Cmp(typ *Type) error {
	if obj == nil || typ == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%s != %s)", obj.Kind, typ.Kind)
	}
	if obj.Kind == KindOpaque && obj.Name != typ.Name {
		return fmt.Errorf("opaque type does not match (%s != %s)", obj.Name, typ.Name)
	}
	return nil
}

// Copy copies this type so that it can be used elsewhere.
func (obj *Type) Copy() *Type {
	return &Type{
		Kind: obj.Kind,
		Name: obj.Name,
	}
}
