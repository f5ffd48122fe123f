// Copyright 2019-2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command slipfmt is a small front end over slip/reader and slip/writer:
// check parses a file and reports diagnostics, fmt re-emits it through
// the writer's pretty-printer.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/gnuslip/slip"
	"github.com/gnuslip/slip/reader"
	"github.com/gnuslip/slip/writer"
)

type checkCmd struct {
	File string `arg:"" help:"File to parse."`
}

func (c *checkCmd) Run() int {
	buf, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", c.File, err)
		return 2
	}
	r := reader.New()
	r.ParseBytes(c.File, buf)
	for _, d := range r.Diagnostics().Errs() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	return r.Diagnostics().ExitCode(true)
}

type fmtCmd struct {
	File string `arg:"" help:"File to parse and re-emit."`
}

func (c *fmtCmd) Run() int {
	buf, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", c.File, err)
		return 2
	}
	r := reader.New()
	root, ok := r.ParseBytes(c.File, buf)
	for _, d := range r.Diagnostics().Errs() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if !ok {
		return r.Diagnostics().ExitCode(true)
	}

	writeDiag := &slip.Diagnostics{}
	w := writer.New(writeDiag)
	if !w.Write(os.Stdout, root, r.Registry()) {
		for _, d := range writeDiag.Errs() {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return 1
	}
	return 0
}

var cli struct {
	Check checkCmd `cmd:"" help:"Parse a file and report diagnostics."`
	Fmt   fmtCmd   `cmd:"" help:"Parse a file and re-emit it through the writer."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("slipfmt"),
		kong.Description("Parse and pretty-print SLIP symbolic-list files."))
	var code int
	switch ctx.Command() {
	case "check <file>":
		code = cli.Check.Run()
	case "fmt <file>":
		code = cli.Fmt.Run()
	default:
		ctx.FatalIfErrorf(fmt.Errorf("unknown command %q", ctx.Command()))
	}
	os.Exit(code)
}
