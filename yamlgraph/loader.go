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

package yamlgraph

import (
	"fmt"

	"github.com/purpleidea/tset/lang/funcs"
	_ "github.com/purpleidea/tset/lang/funcs/core" // register the builtins
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/pgraph"
	"github.com/purpleidea/tset/prometheus"
	"github.com/purpleidea/tset/tset"
	"github.com/purpleidea/tset/util"
	"github.com/purpleidea/tset/util/errwrap"

	"github.com/spf13/afero"
)

// childEdge is the edge from a child set config to the parent which lists it.
type childEdge struct {
	index int
}

func (obj *childEdge) String() string { return fmt.Sprintf("child %d", obj.index) }

// Result is what a loaded graph config built.
type Result struct {
	Graph       string
	Session     *tset.Session
	Frozen      *tset.Frozen
	Definitions map[string]*tset.Definition

	// Names is the list of set names in the order they were declared.
	Names []string

	sets map[string]*tset.Set
}

// Lookup returns the frozen set with this name.
func (obj *Result) Lookup(name string) (*tset.Set, error) {
	s, exists := obj.sets[name]
	if !exists {
		return nil, fmt.Errorf("set %s does not exist", name)
	}
	return s, nil
}

// Loader reads graph configs and builds the sets they describe in a new
// session, which it then freezes.
type Loader struct {
	Fs afero.Fs

	// Evaluator runs the definition functions. If it is nil, a new
	// funcs.Evaluator is used.
	Evaluator tset.Evaluator

	Prometheus *prometheus.Prometheus // optional

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Init must be called before the loader is used.
func (obj *Loader) Init() error {
	if obj.Fs == nil {
		return fmt.Errorf("the Fs is missing")
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	if obj.Evaluator == nil {
		evaluator := &funcs.Evaluator{
			Debug: obj.Debug,
			Logf:  util.LogfPrefix(obj.Logf, "eval: "),
		}
		if err := evaluator.Init(); err != nil {
			return err
		}
		obj.Evaluator = evaluator
	}
	return nil
}

// Load reads and builds the graph config in this file.
func (obj *Loader) Load(filename string) (*Result, error) {
	data, err := afero.ReadFile(obj.Fs, filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read %s", filename)
	}
	config := &GraphConfig{}
	if err := config.Parse(data); err != nil {
		return nil, errwrap.Wrapf(err, "could not parse %s", filename)
	}
	if config.Module == "" {
		config.Module = filename
	}
	return obj.Build(config)
}

// Build creates the definitions and sets of a parsed graph config. Sets may
// list children that are declared after them, but the children must not form
// a cycle. Every problem found before building is returned together.
func (obj *Loader) Build(config *GraphConfig) (*Result, error) {
	definitions, err := obj.definitions(config)
	if err != nil {
		return nil, err
	}
	order, err := obj.order(config, definitions)
	if err != nil {
		return nil, err
	}

	session := &tset.Session{
		Name:       config.Graph,
		Evaluator:  obj.Evaluator,
		Prometheus: obj.Prometheus,
		Debug:      obj.Debug,
		Logf:       util.LogfPrefix(obj.Logf, "session: "),
	}
	if err := session.Init(); err != nil {
		return nil, err
	}

	built := make(map[string]*tset.MutableSet)
	for _, x := range order {
		sc := x.(*SetConfig)
		children := []types.Value{}
		for _, name := range sc.Children {
			children = append(children, built[name])
		}
		var value types.Value
		if sc.Value != nil {
			value = sc.Value.Value
		}
		s, err := session.New(session.NewKey(), definitions[sc.Definition], value, children)
		if err != nil {
			return nil, errwrap.Wrapf(err, "could not build set %s", sc.Name)
		}
		if obj.Debug {
			obj.Logf("built %s: %s", sc.Name, s)
		}
		built[sc.Name] = s
	}

	frozen, err := session.Freeze()
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not freeze")
	}
	result := &Result{
		Graph:       config.Graph,
		Session:     session,
		Frozen:      frozen,
		Definitions: definitions,
		sets:        make(map[string]*tset.Set),
	}
	for _, sc := range config.Sets {
		s, exists := frozen.Lookup(built[sc.Name])
		if !exists {
			return nil, errwrap.Wrapf(tset.ErrInternal, "set %s was not frozen", sc.Name)
		}
		result.sets[sc.Name] = s
		result.Names = append(result.Names, sc.Name)
	}
	return result, nil
}

// definitions creates and exports every definition in the config.
func (obj *Loader) definitions(config *GraphConfig) (map[string]*tset.Definition, error) {
	var reterr error
	definitions := make(map[string]*tset.Definition)
	for _, dc := range config.Definitions {
		if _, exists := definitions[dc.Name]; exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("definition %s is declared twice", dc.Name))
			continue
		}
		def, err := obj.definition(config.Module, dc)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "definition %s", dc.Name))
			continue
		}
		definitions[dc.Name] = def
	}
	return definitions, reterr
}

func (obj *Loader) definition(module string, dc *DefinitionConfig) (*tset.Definition, error) {
	var reterr error
	projections := []*tset.ProjectionSpec{}
	for _, pc := range dc.Projections {
		kindName := pc.Kind
		if kindName == "" {
			kindName = tset.ProjectionArgs.String()
		}
		kind, err := tset.ParseProjectionKind(kindName)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "projection %s", pc.Name))
			continue
		}
		fn, err := funcs.Lookup(pc.Fn)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "projection %s", pc.Name))
			continue
		}
		projections = append(projections, &tset.ProjectionSpec{Name: pc.Name, Kind: kind, Fn: fn})
	}
	reductions := []*tset.ReductionSpec{}
	for _, rc := range dc.Reductions {
		fn, err := funcs.Lookup(rc.Fn)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "reduction %s", rc.Name))
			continue
		}
		reductions = append(reductions, &tset.ReductionSpec{Name: rc.Name, Fn: fn})
	}
	if reterr != nil {
		return nil, reterr
	}

	def, err := tset.NewDefinition(module, projections, reductions)
	if err != nil {
		return nil, err
	}
	if err := def.Export(dc.Name); err != nil {
		return nil, err
	}
	return def, nil
}

// order checks the set configs and returns them with every child before the
// sets that list it.
func (obj *Loader) order(config *GraphConfig, definitions map[string]*tset.Definition) ([]pgraph.Vertex, error) {
	g, err := pgraph.NewGraph(config.Graph)
	if err != nil {
		return nil, err
	}

	var reterr error
	sets := make(map[string]*SetConfig)
	for _, sc := range config.Sets {
		if sc.Name == "" {
			reterr = errwrap.Append(reterr, fmt.Errorf("a set is missing its name"))
			continue
		}
		if _, exists := sets[sc.Name]; exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("set %s is declared twice", sc.Name))
			continue
		}
		if _, exists := definitions[sc.Definition]; !exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("set %s uses unknown definition %s", sc.Name, sc.Definition))
		}
		sets[sc.Name] = sc
		g.AddVertex(sc)
	}
	for _, sc := range config.Sets {
		if sets[sc.Name] != sc {
			continue
		}
		for i, name := range sc.Children {
			child, exists := sets[name]
			if !exists {
				reterr = errwrap.Append(reterr, fmt.Errorf("set %s has unknown child %s", sc.Name, name))
				continue
			}
			if !g.HasEdge(child, sc) {
				g.AddEdge(child, sc, &childEdge{index: i})
			}
		}
	}
	if reterr != nil {
		return nil, reterr
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, errwrap.Wrapf(err, "the sets of graph %s", config.Graph)
	}
	return order, nil
}
