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

// Package json converts between language values and JSON. It is used to check
// and encode the results of json projections, and to read values out of build
// descriptions.
package json

import (
	"bytes"
	encjson "encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/util/errwrap"

	yaml "gopkg.in/yaml.v3"
)

const (
	// ArtifactKey is the special dict key which turns a decoded object into
	// an artifact reference.
	ArtifactKey = "$artifact"

	// OwnerKey optionally names the owner of an artifact reference.
	OwnerKey = "$owner"
)

// Validate returns an error if the value can't be represented as JSON.
// Functions can't, and neither can opaque values which don't know how to
// marshal themselves.
func Validate(v types.Value) error {
	if types.IsNone(v) {
		return nil
	}
	switch x := v.(type) {
	case *types.BoolValue, *types.StrValue, *types.IntValue:
		return nil
	case *types.ListValue:
		for i, elem := range x.List() {
			if err := Validate(elem); err != nil {
				return errwrap.Wrapf(err, "index %d", i)
			}
		}
		return nil
	case *types.DictValue:
		for _, k := range x.Keys {
			if err := Validate(x.V[k]); err != nil {
				return errwrap.Wrapf(err, "key %s", k)
			}
		}
		return nil
	case *types.FuncValue:
		return fmt.Errorf("%s can't be represented as json", x)
	case encjson.Marshaler:
		return nil
	}
	return fmt.Errorf("value of type %s can't be represented as json", v.Type())
}

// Marshal encodes the value as JSON. Dict keys are written in their order.
func Marshal(v types.Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := encode(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v types.Value) error {
	if types.IsNone(v) {
		buf.WriteString("null")
		return nil
	}
	switch x := v.(type) {
	case *types.ListValue:
		buf.WriteByte('[')
		for i, elem := range x.List() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return errwrap.Wrapf(err, "index %d", i)
			}
		}
		buf.WriteByte(']')
		return nil

	case *types.DictValue:
		buf.WriteByte('{')
		for i, k := range x.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := encjson.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := encode(buf, x.V[k]); err != nil {
				return errwrap.Wrapf(err, "key %s", k)
			}
		}
		buf.WriteByte('}')
		return nil

	case *types.FuncValue:
		return fmt.Errorf("%s can't be represented as json", x)
	}

	var raw interface{}
	switch x := v.(type) {
	case *types.BoolValue, *types.StrValue, *types.IntValue:
		raw = x.Value()
	case encjson.Marshaler:
		raw = x
	default:
		return fmt.Errorf("value of type %s can't be represented as json", v.Type())
	}
	b, err := encjson.Marshal(raw)
	if err != nil {
		return errwrap.Wrapf(err, "could not marshal %s", v.Type())
	}
	buf.Write(b)
	return nil
}

// MarshalIndent is like Marshal but the result is indented.
func MarshalIndent(v types.Value, prefix, indent string) ([]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err := encjson.Indent(buf, b, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON document into a value.
func Unmarshal(s string) (types.Value, error) {
	decoder := encjson.NewDecoder(strings.NewReader(s))
	decoder.UseNumber()
	var data interface{}
	if err := decoder.Decode(&data); err != nil {
		return nil, errwrap.Wrapf(err, "could not decode json")
	}
	return ValueOf(data)
}

// ValueOf converts data that was decoded from JSON, or a yaml node, into a
// value. Yaml mappings keep the order of their keys, and decoded JSON objects
// get sorted keys. A map which contains the ArtifactKey becomes an artifact.
func ValueOf(data interface{}) (types.Value, error) {
	switch x := data.(type) {
	case nil:
		return types.None, nil
	case types.Value:
		return x, nil
	case bool:
		return types.NewBool(x), nil
	case string:
		return types.NewStr(x), nil
	case int:
		return types.NewInt(int64(x)), nil
	case int64:
		return types.NewInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d is out of range", x)
		}
		return types.NewInt(int64(x)), nil
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt64 || x < math.MinInt64 {
			return nil, fmt.Errorf("number %v is not an integer", x)
		}
		return types.NewInt(int64(x)), nil
	case encjson.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, errwrap.Wrapf(err, "number %s is not an integer", x)
		}
		return types.NewInt(i), nil

	case []interface{}:
		l := types.NewList()
		for i, elem := range x {
			v, err := ValueOf(elem)
			if err != nil {
				return nil, errwrap.Wrapf(err, "index %d", i)
			}
			if err := l.Add(v); err != nil {
				return nil, err
			}
		}
		return l, nil

	case *yaml.Node:
		return valueOfNode(x)

	case map[string]interface{}:
		keys := []string{}
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return dictOf(keys, x)
	}

	return nil, fmt.Errorf("can't convert %T into a value", data)
}

func dictOf(keys []string, m map[string]interface{}) (types.Value, error) {
	if p, exists := m[ArtifactKey]; exists {
		path, ok := stringOf(p)
		if !ok {
			return nil, fmt.Errorf("artifact path must be a string")
		}
		owner := ""
		if o, exists := m[OwnerKey]; exists {
			if owner, ok = stringOf(o); !ok {
				return nil, fmt.Errorf("artifact owner must be a string")
			}
		}
		if len(m) > 2 || (len(m) == 2 && owner == "") {
			return nil, fmt.Errorf("artifact reference has unexpected keys")
		}
		return &artifact.Artifact{Path: path, Owner: owner}, nil
	}

	d := types.NewDict()
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			return nil, errwrap.Wrapf(err, "key %s", k)
		}
		if err := d.Set(k, v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// stringOf returns the string held by decoded data.
func stringOf(data interface{}) (string, bool) {
	v, err := ValueOf(data)
	if err != nil {
		return "", false
	}
	x, ok := v.(*types.StrValue)
	if !ok {
		return "", false
	}
	return x.V, true
}

// valueOfNode converts a yaml node. Scalars are resolved with the yaml 1.2 core
// schema, so `n` or `on` stay strings. Tags which have no value of their own,
// such as timestamps, are kept as the literal string.
func valueOfNode(node *yaml.Node) (types.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return types.None, nil
		}
		return valueOfNode(node.Content[0])

	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias", node.Line)
		}
		return valueOfNode(node.Alias)

	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return types.None, nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return types.NewBool(b), nil
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return nil, errwrap.Wrapf(err, "line %d: integer %s is out of range", node.Line, node.Value)
			}
			return types.NewInt(i), nil
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return nil, err
			}
			return ValueOf(f)
		}
		return types.NewStr(node.Value), nil

	case yaml.SequenceNode:
		l := types.NewList()
		for i, elem := range node.Content {
			v, err := valueOfNode(elem)
			if err != nil {
				return nil, errwrap.Wrapf(err, "index %d", i)
			}
			if err := l.Add(v); err != nil {
				return nil, err
			}
		}
		return l, nil

	case yaml.MappingNode:
		keys := []string{}
		m := make(map[string]interface{})
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			if k.Kind != yaml.ScalarNode || k.ShortTag() != "!!str" {
				return nil, fmt.Errorf("line %d: key %s is not a string", k.Line, k.Value)
			}
			if _, exists := m[k.Value]; exists {
				return nil, fmt.Errorf("line %d: key %s is declared twice", k.Line, k.Value)
			}
			keys = append(keys, k.Value)
			m[k.Value] = node.Content[i+1]
		}
		return dictOf(keys, m)
	}

	return nil, fmt.Errorf("line %d: unexpected yaml node", node.Line)
}

// VisitArtifacts finds every artifact reference inside the value and passes it
// to the visitor. Values which know about their own references, such as
// command lines and projections, are asked for them.
func VisitArtifacts(v types.Value, visitor artifact.Visitor) error {
	switch x := v.(type) {
	case *types.ListValue:
		for i, elem := range x.List() {
			if err := VisitArtifacts(elem, visitor); err != nil {
				return errwrap.Wrapf(err, "index %d", i)
			}
		}
	case *types.DictValue:
		for _, k := range x.Keys {
			if err := VisitArtifacts(x.V[k], visitor); err != nil {
				return errwrap.Wrapf(err, "key %s", k)
			}
		}
	case artifact.Visitable:
		return x.VisitArtifacts(visitor)
	}
	return nil
}
