// Command wacc is the developer tool for the WACC back end: it shows the
// effective configuration and the runtime support routines.
package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/urfave/cli.v1"
)

const version = "0.1.0"

var exitFn = os.Exit

func main() {
	exitFn(runCLI(os.Args, os.Stdout, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "wacc"
	app.Usage = "inspect the WACC compiler back end"
	app.Version = version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Commands = []cli.Command{
		dumpConfigCommand,
		runtimeCommand,
	}
	return app
}

// runCLI runs the app and returns the process exit status instead of
// exiting, so tests can drive it.
func runCLI(args []string, stdout, stderr io.Writer) int {
	cli.OsExiter = func(int) {}
	cli.ErrWriter = stderr

	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return 0
	}
	// Exit errors were already printed by the cli package.
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	fmt.Fprintln(stderr, "wacc:", err)
	return 1
}
