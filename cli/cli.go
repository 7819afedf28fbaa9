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

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it imports and runs our core
// "lib".
package cli

import (
	"context"
	"fmt"
	"os"

	cliUtil "github.com/purpleidea/tset/cli/util"
	"github.com/purpleidea/tset/util/errwrap"

	"github.com/alexflint/go-arg"
	"github.com/spf13/afero"
)

// CLI is the entry point for using tset normally from the CLI.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Copying == "" {
		return fmt.Errorf("program copyrights were removed, can't run")
	}
	if data.Stdout == nil {
		data.Stdout = os.Stdout
	}
	if data.Fs == nil {
		data.Fs = afero.NewOsFs()
	}
	if data.Flags.Logf == nil {
		data.Flags.Logf = func(format string, v ...interface{}) {}
	}

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:]) // args[0] is the program name
	if err == arg.ErrHelp {
		parser.WriteHelp(data.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Fprintf(data.Stdout, "%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	// display the license
	if args.License {
		fmt.Fprintf(data.Stdout, "%s", data.Copying) // file comes with a trailing nl
		return nil
	}

	if args.Debug {
		data.Flags.Debug = true
	}

	if ok, err := args.Run(ctx, data); err != nil {
		return err
	} else if ok { // did we activate one of the commands?
		return nil
	}

	// print help if no subcommands are set
	parser.WriteHelp(data.Stdout)

	return nil
}

// Args is the CLI parsing structure and type of the parsed result. This
// particular struct is the top-most one.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	Debug bool `arg:"--debug" help:"add additional log messages"`

	TraverseCmd *TraverseArgs `arg:"subcommand:traverse" help:"list the values of a set in an order"`

	ReduceCmd *ReduceArgs `arg:"subcommand:reduce" help:"print a reduction of a set"`

	ProjectCmd *ProjectArgs `arg:"subcommand:project" help:"render a projection of a set"`

	InputsCmd *InputsArgs `arg:"subcommand:inputs" help:"list the artifacts a projection needs"`

	GraphCmd *GraphArgs `arg:"subcommand:graph" help:"write the graph of a set in graphviz format"`

	FuncsCmd *FuncsArgs `arg:"subcommand:funcs" help:"list the builtin functions"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	var cmd command
	switch {
	case obj.TraverseCmd != nil:
		cmd = obj.TraverseCmd
	case obj.ReduceCmd != nil:
		cmd = obj.ReduceCmd
	case obj.ProjectCmd != nil:
		cmd = obj.ProjectCmd
	case obj.InputsCmd != nil:
		cmd = obj.InputsCmd
	case obj.GraphCmd != nil:
		cmd = obj.GraphCmd
	case obj.FuncsCmd != nil:
		return obj.FuncsCmd.Run(ctx, data)
	default:
		return false, nil // nobody activated
	}

	name := cliUtil.LookupSubcommand(obj, cmd)
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	data.Flags.Logf("main: running %s", name)
	return run(ctx, data, cmd)
}
