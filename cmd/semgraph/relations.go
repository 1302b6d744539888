package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/render"
)

func relationsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "relations",
		Usage:     "list the relation types of the store, or print one relation table",
		ArgsUsage: "[TYPE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the table as JSON"},
			colorFlag(),
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			store, err := e.store()
			if err != nil {
				return err
			}

			if c.NArg() == 0 {
				types, err := store.Types()
				if err != nil {
					return err
				}
				fmt.Fprintln(ui.Out, strings.Join(types, "\n"))
				return nil
			}

			relation := c.Args().First()
			rows, err := store.Scan(relation)
			if err != nil {
				return err
			}

			var r render.DocRenderer
			if c.Bool("json") {
				r = render.NewJSONRenderer(ui.Out)
			} else {
				tr := render.NewRenderer()
				tr.W = ui.Out
				tr.HasColor = c.Bool("color")
				r = tr
			}
			r.Relations(relation, rows)
			return nil
		},
	}
}
