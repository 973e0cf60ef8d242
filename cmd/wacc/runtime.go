package main

import (
	"fmt"
	"io"

	"gopkg.in/urfave/cli.v1"

	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/support"
)

var runtimeCommand = cli.Command{
	Action:    showRuntime,
	Name:      "runtime",
	Usage:     "Print runtime support routines",
	ArgsUsage: "[name...]",
	Description: `The runtime command prints the assembly of the named runtime routines,
or of all of them, together with the routines they call and the messages
they need.`,
}

func showRuntime(ctx *cli.Context) error {
	names := []string(ctx.Args())
	if len(names) == 0 {
		names = support.Names()
	}
	catalogue := support.NewCatalogue()
	for _, name := range names {
		r, ok := support.Lookup(name)
		if !ok {
			return cli.NewExitError(fmt.Sprintf("unknown runtime routine %q", name), 1)
		}
		catalogue.Require(r)
	}
	return writeRoutines(ctx.App.Writer, catalogue)
}

func writeRoutines(w io.Writer, catalogue *support.Catalogue) error {
	pool := support.NewPool()
	text := catalogue.Instructions(pool)

	var out []arm.Instruction
	if pool.Len() > 0 {
		out = append(out, arm.Data())
		out = append(out, pool.Instructions()...)
	}
	out = append(out, arm.Text())
	out = append(out, text...)
	_, err := io.WriteString(w, arm.Render(out))
	return err
}
