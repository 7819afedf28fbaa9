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

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	cliUtil "github.com/purpleidea/tset/cli/util"
	"github.com/purpleidea/tset/lang/funcs"
	"github.com/purpleidea/tset/lang/types"
	langjson "github.com/purpleidea/tset/lang/types/json"
	"github.com/purpleidea/tset/lib"
	"github.com/purpleidea/tset/tset"

	"github.com/iancoleman/strcase"
)

// command is a subcommand which queries a set of a graph file.
type command interface {
	// cfg returns the embedded config of the command.
	cfg() *lib.Config

	// query runs the command against the loaded graph.
	query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error
}

// run loads the graph for the command and runs it.
func run(ctx context.Context, data *cliUtil.Data, cmd command) (bool, error) {
	main := &lib.Main{
		Program: data.Program,
		Version: data.Version,
		Config:  cmd.cfg(),
		Fs:      data.Fs,
		Debug:   data.Flags.Debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("main: "+format, v...)
		},
	}
	if err := main.Validate(); err != nil {
		return false, err
	}
	if err := main.Init(); err != nil {
		return false, err
	}
	defer func() {
		if err := main.Close(); err != nil {
			data.Flags.Logf("main: close error: %+v", err)
		}
	}()

	query := func() error {
		return cmd.query(ctx, data, main)
	}
	if main.Config.Watch {
		if err := main.Watch(ctx, query); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := query(); err != nil {
		return false, err
	}
	return true, nil
}

// printValue writes a value on its own line, either as json or in its display
// form.
func printValue(w io.Writer, v types.Value, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintf(w, "%s\n", v)
		return err
	}
	b, err := langjson.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// TraverseArgs is the CLI parsing structure and type of the parsed result of
// the traverse subcommand.
type TraverseArgs struct {
	lib.Config // embedded config (can't be a pointer) https://github.com/alexflint/go-arg/issues/240

	Ordering   string `arg:"--ordering" help:"one of preorder, postorder, topological or bfs"`
	Projection string `arg:"--projection" help:"print the values of this projection instead"`
	JSON       bool   `arg:"--json" help:"print each value as json"`
}

func (obj *TraverseArgs) cfg() *lib.Config { return &obj.Config }

func (obj *TraverseArgs) query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error {
	ordering, err := tset.ParseOrdering(obj.Ordering)
	if err != nil {
		return cliUtil.CliParseError(err)
	}
	values, err := main.Traverse(ordering, obj.Projection)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := printValue(data.Stdout, v, obj.JSON); err != nil {
			return err
		}
	}
	return nil
}

// ReduceArgs is the CLI parsing structure and type of the parsed result of the
// reduce subcommand.
type ReduceArgs struct {
	lib.Config

	Reduction string `arg:"--reduction,required" help:"name of the reduction"`
	JSON      bool   `arg:"--json" help:"print the result as json"`
}

func (obj *ReduceArgs) cfg() *lib.Config { return &obj.Config }

func (obj *ReduceArgs) query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error {
	v, err := main.Reduce(obj.Reduction)
	if err != nil {
		return err
	}
	return printValue(data.Stdout, v, obj.JSON)
}

// ProjectArgs is the CLI parsing structure and type of the parsed result of the
// project subcommand. Args projections print one argument per line, and json
// projections print a single json list.
type ProjectArgs struct {
	lib.Config

	Projection string `arg:"--projection,required" help:"name of the projection"`
	Ordering   string `arg:"--ordering" help:"one of preorder, postorder, topological or bfs"`
}

func (obj *ProjectArgs) cfg() *lib.Config { return &obj.Config }

func (obj *ProjectArgs) query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error {
	ordering, err := tset.ParseOrdering(obj.Ordering)
	if err != nil {
		return cliUtil.CliParseError(err)
	}
	_, kind, err := main.Set().Definition().LookupProjection(obj.Projection)
	if err != nil {
		return err
	}
	if kind == tset.ProjectionJSON {
		b, err := main.ProjectJSON(obj.Projection, ordering)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(data.Stdout, "%s\n", b)
		return err
	}
	args, err := main.ProjectArgs(obj.Projection, ordering)
	if err != nil {
		return err
	}
	for _, x := range args {
		if _, err := fmt.Fprintf(data.Stdout, "%s\n", x); err != nil {
			return err
		}
	}
	return nil
}

// InputsArgs is the CLI parsing structure and type of the parsed result of the
// inputs subcommand.
type InputsArgs struct {
	lib.Config

	Projection string `arg:"--projection,required" help:"name of the projection"`
	Workers    int    `arg:"--workers" help:"number of projections to expand at once (0 is one per cpu)"`
	Long       bool   `arg:"--long" help:"also print the owner of each artifact"`
}

func (obj *InputsArgs) cfg() *lib.Config { return &obj.Config }

func (obj *InputsArgs) query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error {
	artifacts, err := main.Inputs(ctx, obj.Projection, obj.Workers)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		s := a.Path
		if obj.Long {
			s = a.String()
		}
		if _, err := fmt.Fprintf(data.Stdout, "%s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// GraphArgs is the CLI parsing structure and type of the parsed result of the
// graph subcommand.
type GraphArgs struct {
	lib.Config

	Output string `arg:"--output" help:"graphviz file to write, defaults to the graph name"`
	Exec   string `arg:"--exec" help:"graphviz program to run on the output, eg: dot"`
}

func (obj *GraphArgs) cfg() *lib.Config { return &obj.Config }

func (obj *GraphArgs) query(ctx context.Context, data *cliUtil.Data, main *lib.Main) error {
	output := obj.Output
	if output == "" {
		output = strcase.ToSnake(main.Result().Graph) + "_" + strcase.ToSnake(main.Config.Set) + ".dot"
	}
	if err := main.Graphviz(output, obj.Exec); err != nil {
		return err
	}
	_, err := fmt.Fprintf(data.Stdout, "%s\n", output)
	return err
}

// FuncsArgs is the CLI parsing structure and type of the parsed result of the
// funcs subcommand.
type FuncsArgs struct {
	Prefix string `arg:"positional" help:"only list the functions with this prefix"`
}

// Run lists the registered builtin functions.
func (obj *FuncsArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	for _, name := range funcs.Names() {
		if !strings.HasPrefix(name, obj.Prefix) {
			continue
		}
		if _, err := fmt.Fprintf(data.Stdout, "%s\n", name); err != nil {
			return false, err
		}
	}
	return true, nil
}
