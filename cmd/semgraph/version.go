package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func versionCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(ui.Out, "semgraph version %s (commit: %s)\n", BuildTag, BuildCommit)
			return err
		},
	}
}
