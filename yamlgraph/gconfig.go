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

// Package yamlgraph provides the facilities for loading a graph of transitive
// sets from a yaml file.
package yamlgraph

import (
	"bytes"
	"fmt"
	"io"

	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"

	"gopkg.in/yaml.v3"
)

// ProjectionConfig is the data structure of a projection.
type ProjectionConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // args or json, defaults to args
	Fn   string `yaml:"fn"`   // name of a registered function
}

// ReductionConfig is the data structure of a reduction.
type ReductionConfig struct {
	Name string `yaml:"name"`
	Fn   string `yaml:"fn"`
}

// DefinitionConfig is the data structure of a transitive set definition. The
// definition is exported under its name.
type DefinitionConfig struct {
	Name        string              `yaml:"name"`
	Projections []*ProjectionConfig `yaml:"projections"`
	Reductions  []*ReductionConfig  `yaml:"reductions"`
}

// SetConfig is the data structure of a single transitive set.
type SetConfig struct {
	Name       string   `yaml:"name"`
	Definition string   `yaml:"definition"`
	Value      *Value   `yaml:"value"`
	Children   []string `yaml:"children"`
}

// String returns the name of the set. It is used when the set config is a
// vertex of the dependency graph.
func (obj *SetConfig) String() string { return obj.Name }

// Value is a node value in the config. Dicts keep the order of their keys, and
// a dict with an `$artifact` key becomes an artifact.
type Value struct {
	types.Value
}

// UnmarshalYAML decodes the yaml node into a value.
func (obj *Value) UnmarshalYAML(node *yaml.Node) error {
	v, err := langjson.ValueOf(node)
	if err != nil {
		return err
	}
	obj.Value = v
	return nil
}

// GraphConfig is the data structure that describes a whole file of
// definitions and sets.
type GraphConfig struct {
	Graph       string              `yaml:"graph"`
	Comment     string              `yaml:"comment"`
	Module      string              `yaml:"module"` // defaults to the filename
	Definitions []*DefinitionConfig `yaml:"definitions"`
	Sets        []*SetConfig        `yaml:"sets"`
}

// Parse parses a data stream into the graph structure.
func (obj *GraphConfig) Parse(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(obj); err != nil && err != io.EOF {
		return err
	}
	if obj.Graph == "" {
		return fmt.Errorf("graph config: invalid graph")
	}
	return nil
}
