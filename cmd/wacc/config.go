package main

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/louisheal/wacc/internal/config"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Flags:       []cli.Flag{configFileFlag},
		Description: `The dumpconfig command shows the effective configuration: defaults, then the TOML file, then WACC_* environment variables.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

func dumpConfig(ctx *cli.Context) error {
	cfg, err := config.Resolve(ctx.String(configFileFlag.Name))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if err := config.Dump(ctx.App.Writer, &cfg); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
