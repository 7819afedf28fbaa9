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

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/purpleidea/tset/util/errwrap"
)

// None is the single instance of the None value. Any *NoneValue compares equal
// to it, but using this one avoids allocations.
var None = &NoneValue{}

// Value represents an interface to get values out of each type. Opaque values
// added by other packages implement it too.
type Value interface {
	fmt.Stringer // String() string (for display purposes)
	Type() *Type
	Cmp(Value) error    // error if the two values aren't the same
	Copy() Value        // returns a copy of this value
	Value() interface{} // the raw golang value
}

// IsNone returns true if the value is absent (nil) or is a None value.
func IsNone(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(*NoneValue)
	return ok
}

// cmpIdentity is the Cmp implementation for values which are only equal to
// themselves.
func cmpIdentity(obj, val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}
	if obj != val {
		return fmt.Errorf("values are different")
	}
	return nil
}

// NoneValue represents the absence of a value.
type NoneValue struct{}

// String returns a visual representation of this value.
func (obj *NoneValue) String() string { return "None" }

// Type returns the type data structure that represents this type.
func (obj *NoneValue) Type() *Type { return TypeNil }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *NoneValue) Cmp(val Value) error {
	if val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if _, ok := val.(*NoneValue); !ok {
		return fmt.Errorf("cannot cmp None to %s", val.Type())
	}
	return nil
}

// Copy returns a copy of this value.
func (obj *NoneValue) Copy() Value { return None }

// Value returns the raw value of this type.
func (obj *NoneValue) Value() interface{} { return nil }

// BoolValue represents a boolean value.
type BoolValue struct {
	V bool
}

// NewBool creates a new boolean value.
func NewBool(b bool) *BoolValue { return &BoolValue{V: b} }

// String returns a visual representation of this value.
func (obj *BoolValue) String() string {
	if obj.V {
		return "True"
	}
	return "False"
}

// Type returns the type data structure that represents this type.
func (obj *BoolValue) Type() *Type { return TypeBool }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *BoolValue) Cmp(val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}

	if obj.V != val.(*BoolValue).V {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Copy returns a copy of this value.
func (obj *BoolValue) Copy() Value { return &BoolValue{V: obj.V} }

// Value returns the raw value of this type.
func (obj *BoolValue) Value() interface{} { return obj.V }

// StrValue represents a string value.
type StrValue struct {
	V string
}

// NewStr creates a new string value.
func NewStr(s string) *StrValue { return &StrValue{V: s} }

// String returns a visual representation of this value.
func (obj *StrValue) String() string {
	return strconv.Quote(obj.V) // wraps in quotes, and escapes what's needed
}

// Type returns the type data structure that represents this type.
func (obj *StrValue) Type() *Type { return TypeStr }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *StrValue) Cmp(val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}

	if obj.V != val.(*StrValue).V {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Copy returns a copy of this value.
func (obj *StrValue) Copy() Value { return &StrValue{V: obj.V} }

// Value returns the raw value of this type.
func (obj *StrValue) Value() interface{} { return obj.V }

// IntValue represents an integer value.
type IntValue struct {
	V int64
}

// NewInt creates a new integer value.
func NewInt(i int64) *IntValue { return &IntValue{V: i} }

// String returns a visual representation of this value.
func (obj *IntValue) String() string {
	return strconv.FormatInt(obj.V, 10)
}

// Type returns the type data structure that represents this type.
func (obj *IntValue) Type() *Type { return TypeInt }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *IntValue) Cmp(val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}

	if obj.V != val.(*IntValue).V {
		return fmt.Errorf("values are different")
	}
	return nil
}

// Copy returns a copy of this value.
func (obj *IntValue) Copy() Value { return &IntValue{V: obj.V} }

// Value returns the raw value of this type.
func (obj *IntValue) Value() interface{} { return obj.V }

// ListValue represents a list of values. The elements may be of mixed types.
// Once frozen, a list can no longer be changed.
type ListValue struct {
	V []Value

	frozen bool
}

// NewList creates a new list containing the given values.
func NewList(values ...Value) *ListValue {
	v := make([]Value, len(values))
	copy(v, values)
	return &ListValue{V: v}
}

// String returns a visual representation of this value.
func (obj *ListValue) String() string {
	var s []string
	for _, x := range obj.V {
		s = append(s, x.String())
	}
	return fmt.Sprintf("[%s]", strings.Join(s, ", "))
}

// Type returns the type data structure that represents this type.
func (obj *ListValue) Type() *Type { return TypeList }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *ListValue) Cmp(val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}

	cmp := val.(*ListValue)
	if len(obj.V) != len(cmp.V) {
		return fmt.Errorf("lists have different lengths")
	}
	for i := range obj.V {
		if err := obj.V[i].Cmp(cmp.V[i]); err != nil {
			return errwrap.Wrapf(err, "index %d did not cmp", i)
		}
	}
	return nil
}

// Copy returns a mutable copy of this value. Elements are copied too.
func (obj *ListValue) Copy() Value {
	v := []Value{}
	for _, x := range obj.V {
		v = append(v, x.Copy())
	}
	return &ListValue{V: v}
}

// Value returns the raw value of this type.
func (obj *ListValue) Value() interface{} {
	l := []interface{}{}
	for _, x := range obj.V {
		l = append(l, x.Value())
	}
	return l
}

// List returns the contained values. The caller must not modify it.
func (obj *ListValue) List() []Value { return obj.V }

// Len returns the number of elements in the list.
func (obj *ListValue) Len() int { return len(obj.V) }

// Add adds an element to the end of the list. It errors if the list is frozen.
func (obj *ListValue) Add(v Value) error {
	if obj.frozen {
		return ErrFrozen
	}
	if v == nil {
		return fmt.Errorf("cannot add nil to a list")
	}
	obj.V = append(obj.V, v)
	return nil
}

// Lookup looks up a value by index. On success it also returns the Value.
func (obj *ListValue) Lookup(index int) (value Value, exists bool) {
	if index < 0 || index >= len(obj.V) {
		return nil, false
	}
	return obj.V[index], true
}

// Frozen returns true if the list can no longer be changed.
func (obj *ListValue) Frozen() bool { return obj.frozen }

// Freeze returns the immutable form of this list.
func (obj *ListValue) Freeze(freezer *Freezer) (Value, error) {
	if obj.frozen {
		return obj, nil
	}
	v, err := freezer.FreezeSlice(obj.V)
	if err != nil {
		return nil, err
	}
	return &ListValue{V: v, frozen: true}, nil
}

// DictValue represents a dictionary with string keys. The keys are kept in
// insertion order, which is also the order they are displayed and encoded in.
type DictValue struct {
	V    map[string]Value
	Keys []string // ordered keys

	frozen bool
}

// NewDict creates a new empty dictionary.
func NewDict() *DictValue {
	return &DictValue{
		V: make(map[string]Value),
	}
}

// String returns a visual representation of this value.
func (obj *DictValue) String() string {
	var s []string
	for _, k := range obj.Keys {
		s = append(s, fmt.Sprintf("%s: %s", strconv.Quote(k), obj.V[k].String()))
	}
	return fmt.Sprintf("{%s}", strings.Join(s, ", "))
}

// Type returns the type data structure that represents this type.
func (obj *DictValue) Type() *Type { return TypeDict }

// Cmp returns an error if this value isn't the same as the arg passed in. The
// order of the keys is not significant.
func (obj *DictValue) Cmp(val Value) error {
	if obj == nil || val == nil {
		return fmt.Errorf("cannot cmp to nil")
	}
	if err := obj.Type().Cmp(val.Type()); err != nil {
		return errwrap.Wrapf(err, "cannot cmp types")
	}

	cmp := val.(*DictValue)
	if len(obj.V) != len(cmp.V) {
		return fmt.Errorf("dicts have different lengths")
	}
	for k, v := range obj.V {
		x, exists := cmp.V[k]
		if !exists {
			return fmt.Errorf("key %s is missing", k)
		}
		if err := v.Cmp(x); err != nil {
			return errwrap.Wrapf(err, "key %s did not cmp", k)
		}
	}
	return nil
}

// Copy returns a mutable copy of this value. Elements are copied too.
func (obj *DictValue) Copy() Value {
	d := NewDict()
	for _, k := range obj.Keys {
		d.V[k] = obj.V[k].Copy()
		d.Keys = append(d.Keys, k)
	}
	return d
}

// Value returns the raw value of this type.
func (obj *DictValue) Value() interface{} {
	m := make(map[string]interface{})
	for k, v := range obj.V {
		m[k] = v.Value()
	}
	return m
}

// Set sets a key to this value. New keys are added at the end of the order.
// It errors if the dict is frozen.
func (obj *DictValue) Set(k string, v Value) error {
	if obj.frozen {
		return ErrFrozen
	}
	if v == nil {
		return fmt.Errorf("cannot set key %s to nil", k)
	}
	if _, exists := obj.V[k]; !exists {
		obj.Keys = append(obj.Keys, k)
	}
	obj.V[k] = v
	return nil
}

// Lookup searches the dict for a key. On success it also returns the Value.
func (obj *DictValue) Lookup(k string) (value Value, exists bool) {
	v, exists := obj.V[k]
	return v, exists
}

// SortedKeys returns the keys in sorted order.
func (obj *DictValue) SortedKeys() []string {
	keys := make([]string, len(obj.Keys))
	copy(keys, obj.Keys)
	sort.Strings(keys)
	return keys
}

// Frozen returns true if the dict can no longer be changed.
func (obj *DictValue) Frozen() bool { return obj.frozen }

// Freeze returns the immutable form of this dict.
func (obj *DictValue) Freeze(freezer *Freezer) (Value, error) {
	if obj.frozen {
		return obj, nil
	}
	d := NewDict()
	for _, k := range obj.Keys {
		v, err := freezer.Freeze(obj.V[k])
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not freeze key %s", k)
		}
		d.V[k] = v
		d.Keys = append(d.Keys, k)
	}
	d.frozen = true
	return d, nil
}

// FuncValue represents a function value. The function takes a list of Value
// arguments and returns a Value. It can also return an error which could
// represent that something went horribly wrong. Functions are only equal to
// themselves.
type FuncValue struct {
	Name string
	V    func([]Value) (Value, error)
}

// NewFunc creates a new named function.
func NewFunc(name string, fn func([]Value) (Value, error)) *FuncValue {
	return &FuncValue{
		Name: name,
		V:    fn,
	}
}

// String returns a visual representation of this value.
func (obj *FuncValue) String() string {
	if obj.Name == "" {
		return "<function>"
	}
	return fmt.Sprintf("<function %s>", obj.Name)
}

// Type returns the type data structure that represents this type.
func (obj *FuncValue) Type() *Type { return TypeFunc }

// Cmp returns an error if this value isn't the same as the arg passed in.
func (obj *FuncValue) Cmp(val Value) error { return cmpIdentity(obj, val) }

// Copy returns a copy of this value. Functions are immutable, so this is the
// same value.
func (obj *FuncValue) Copy() Value { return obj }

// Value returns the raw value of this type.
func (obj *FuncValue) Value() interface{} { return obj.V }

// Call runs the function value and returns its result. It returns an error if
// something went wrong during execution, and panics if you call this before the
// function was set.
func (obj *FuncValue) Call(args []Value) (Value, error) {
	if obj.V == nil {
		panic("function is not set") // programming error
	}
	result, err := obj.V(args)
	if err != nil {
		return nil, err
	}
	if result == nil { // functions which return nothing return None
		return None, nil
	}
	return result, nil
}
