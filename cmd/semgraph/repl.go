package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/query"
	"github.com/revelaction/semgraph/render"
)

func replCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "analyze texts and edit rules interactively",
		Flags: []cli.Flag{formatFlag(), &cli.BoolFlag{Name: "no-color"}, &cli.BoolFlag{Name: "no-prefix"}},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			in, err := e.interpreter()
			if err != nil {
				return err
			}

			r := render.NewRenderer()
			r.W = ui.Out
			r.HasColor = !c.Bool("no-color")
			r.HasPrefix = !c.Bool("no-prefix")
			r.Format = c.String("format")

			// now present the REPL
			h := query.NewHandler(e.pipeline(), in, r)
			h.Out = ui.Out
			return h.Run()
		},
	}
}
