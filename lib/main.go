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

// Package lib is the core library that the command line tool drives. It loads
// a graph file into a frozen session and answers queries about its sets.
package lib

import (
	"context"
	"fmt"

	"github.com/purpleidea/tset/artifact"
	"github.com/purpleidea/tset/cmdargs"
	"github.com/purpleidea/tset/lang/funcs"
	"github.com/purpleidea/tset/lang/types"
	"github.com/purpleidea/tset/prometheus"
	"github.com/purpleidea/tset/resolve"
	"github.com/purpleidea/tset/tset"
	"github.com/purpleidea/tset/util"
	"github.com/purpleidea/tset/util/errwrap"
	"github.com/purpleidea/tset/yamlgraph"

	"github.com/sanity-io/litter"
	"github.com/spf13/afero"
)

// Config is the set of options shared by every command which queries a graph
// file. It is embedded in the cli parsing structures.
type Config struct {
	// File is the path of the yaml graph file.
	File string `arg:"positional,required" help:"yaml graph file to load"`

	// Set is the name of the set in the file to query.
	Set string `arg:"--set,required" help:"name of the set to query"`

	MaxDepth int `arg:"--max-depth" help:"max nested function call depth (0 is the default)"`

	Watch bool `arg:"--watch" help:"query again every time the file changes"`

	Prometheus       bool   `arg:"--prometheus" help:"start a prometheus instance"`
	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`
}

// Main is the main struct for running the tset logic.
type Main struct {
	Program string // the name of this program, usually set at compile time
	Version string // the version of this program, usually set at compile time

	Config *Config

	// Fs is where the graph file is read from. It defaults to the os.
	Fs afero.Fs

	Debug bool
	Logf  func(format string, v ...interface{})

	evaluator *funcs.Evaluator
	prom      *prometheus.Prometheus
	result    *yamlgraph.Result
	set       *tset.Set
}

// Validate checks the config before anything is started.
func (obj *Main) Validate() error {
	if obj.Program == "" || obj.Version == "" {
		return fmt.Errorf("you must set the Program and Version strings")
	}
	if obj.Config == nil {
		return fmt.Errorf("the Config is missing")
	}
	if obj.Config.File == "" {
		return fmt.Errorf("the File is missing")
	}
	if obj.Config.Set == "" {
		return fmt.Errorf("the Set is missing")
	}
	if obj.Config.MaxDepth < 0 {
		return fmt.Errorf("the MaxDepth must not be negative")
	}
	if obj.Config.PrometheusListen != "" && !obj.Config.Prometheus {
		return fmt.Errorf("the PrometheusListen requires Prometheus")
	}
	return nil
}

// Init starts the optional metrics server, and loads and freezes the graph.
func (obj *Main) Init() error {
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}
	if obj.Fs == nil {
		obj.Fs = afero.NewOsFs()
	}
	if obj.Debug {
		lo := &litter.Options{
			StripPackageNames: true,
			HidePrivateFields: true,
			HideZeroValues:    true,
		}
		obj.Logf("config: %s", lo.Sdump(obj.Config))
	}

	if obj.Config.Prometheus {
		obj.prom = &prometheus.Prometheus{
			Listen: obj.Config.PrometheusListen,
		}
		if err := obj.prom.Init(); err != nil {
			return errwrap.Wrapf(err, "can't initiate Prometheus instance")
		}
		obj.Logf("prometheus: starting instance on %s", obj.prom.Listen)
		if err := obj.prom.Start(); err != nil {
			return errwrap.Wrapf(err, "can't start Prometheus instance")
		}
	}

	obj.evaluator = &funcs.Evaluator{
		MaxDepth: obj.Config.MaxDepth,
		Debug:    obj.Debug,
		Logf:     util.LogfPrefix(obj.Logf, "eval: "),
	}
	if err := obj.evaluator.Init(); err != nil {
		return err
	}

	if err := obj.load(); err != nil {
		return errwrap.Append(err, obj.Close())
	}
	return nil
}

// load reads the graph file and looks up the queried set. The previous result
// is only replaced if everything succeeds.
func (obj *Main) load() error {
	loader := &yamlgraph.Loader{
		Fs:         obj.Fs,
		Evaluator:  obj.evaluator,
		Prometheus: obj.prom,
		Debug:      obj.Debug,
		Logf:       util.LogfPrefix(obj.Logf, "yamlgraph: "),
	}
	if err := loader.Init(); err != nil {
		return err
	}
	result, err := loader.Load(obj.Config.File)
	if err != nil {
		return err
	}
	s, err := result.Lookup(obj.Config.Set)
	if err != nil {
		return err
	}
	obj.result, obj.set = result, s
	obj.Logf("loaded %d sets from graph %s with %d calls", result.Frozen.Len(), result.Graph, obj.evaluator.Calls())
	return nil
}

// Close shuts down anything that Init started.
func (obj *Main) Close() error {
	if obj.prom == nil {
		return nil
	}
	return obj.prom.Stop()
}

// Set returns the set which is being queried.
func (obj *Main) Set() *tset.Set { return obj.set }

// Result returns everything that was built from the graph file.
func (obj *Main) Result() *yamlgraph.Result { return obj.result }

// Traverse returns the node values of the set in this order. If a projection
// name is given, the projection values are returned instead.
func (obj *Main) Traverse(ordering tset.Ordering, projection string) ([]types.Value, error) {
	if projection == "" {
		return obj.set.Traversal(ordering).Values(), nil
	}
	index, _, err := obj.set.Definition().LookupProjection(projection)
	if err != nil {
		return nil, err
	}
	it, err := obj.set.IterProjectionValues(ordering, index)
	if err != nil {
		return nil, err
	}
	return it.All(), nil
}

// Reduce returns the result of the named reduction.
func (obj *Main) Reduce(name string) (types.Value, error) {
	return obj.set.Reduce(name)
}

// ProjectArgs renders the named args projection as a command line.
func (obj *Main) ProjectArgs(name string, ordering tset.Ordering) ([]string, error) {
	p, err := obj.set.ProjectAsArgs(name, ordering)
	if err != nil {
		return nil, err
	}
	return cmdargs.Render(p)
}

// ProjectJSON encodes the named json projection.
func (obj *Main) ProjectJSON(name string, ordering tset.Ordering) ([]byte, error) {
	p, err := obj.set.ProjectAsJSON(name, ordering)
	if err != nil {
		return nil, err
	}
	return p.MarshalJSON()
}

// Inputs resolves every artifact which the named projection of the set needs,
// including the ones of all the reachable sets.
func (obj *Main) Inputs(ctx context.Context, projection string, workers int) ([]*artifact.Artifact, error) {
	index, _, err := obj.set.Definition().LookupProjection(projection)
	if err != nil {
		return nil, err
	}
	key, err := obj.set.ProjectionKey(index)
	if err != nil {
		return nil, err
	}

	registry := resolve.NewRegistry()
	registry.AddFrozen(obj.result.Frozen)
	resolver := &resolve.Resolver{
		Registry:   registry,
		Workers:    workers,
		Prometheus: obj.prom,
		Debug:      obj.Debug,
		Logf:       util.LogfPrefix(obj.Logf, "resolve: "),
	}
	if err := resolver.Init(); err != nil {
		return nil, err
	}
	return resolver.Artifacts(ctx, key)
}

// Graphviz writes the graph of the set to a file, and optionally runs the
// graphviz program on it.
func (obj *Main) Graphviz(filename, program string) error {
	g, err := obj.set.Graph()
	if err != nil {
		return err
	}
	if err := g.WriteGraphviz(obj.Fs, filename); err != nil {
		return err
	}
	obj.Logf("graphviz: wrote %s", filename)
	if program == "" {
		return nil
	}
	return g.ExecGraphviz(program, filename)
}
