package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/engine"
	"github.com/revelaction/semgraph/render"
)

func applyCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "analyze texts, run the rules and record the relations in the store",
		ArgsUsage: "[TEXT...]",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{Name: "edges", Usage: "print the edges asserted by the rules"},
			colorFlag(),
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			texts, names, err := inputs(c, ui)
			if err != nil {
				return err
			}

			in, err := e.interpreter()
			if err != nil {
				return err
			}
			p := e.pipeline()

			var bar *uiprogress.Bar
			if len(texts) > 1 {
				progress := uiprogress.New()
				progress.Out = ui.Err
				progress.Start()
				defer progress.Stop()

				bar = progress.AddBar(len(texts))
				bar.AppendCompleted()
				bar.PrependElapsed()

				// Append Doc name to the progress bar
				bar.AppendFunc(func(b *uiprogress.Bar) string {
					if b.Current() == 0 {
						return ""
					}
					return names[b.Current()-1]
				})
			}

			var total engine.Stats
			before := len(in.Graph.Edges())
			for _, text := range texts {
				total.Add(in.Apply(p.Analyze(text)))

				if bar != nil {
					bar.Incr()
				}
			}

			if c.Bool("edges") {
				r := render.NewRenderer()
				r.W = ui.Out
				r.HasColor = c.Bool("color")
				r.Edges(engine.RuleEdges(in.Graph.Edges()[before:]))
			}

			fmt.Fprintf(ui.Out, "%d docs, %d bindings, %d evaluations, %d matches, %d asserted, %d dropped\n",
				len(texts), total.Bindings, total.Evaluations, total.Matches, total.Asserted, total.Dropped)
			return nil
		},
	}
}
