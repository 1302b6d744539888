package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/render"
)

const formatJSON = "json"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: render.Defaultformat,
		Usage: fmt.Sprintf("output format, one of %s, %s", strings.Join(render.SupportedFormats(), ", "), formatJSON),
	}
}

func colorFlag() cli.Flag {
	return &cli.BoolFlag{Name: "color", Usage: "color the output by part of speech"}
}

func prefixFlag() cli.Flag {
	return &cli.BoolFlag{Name: "prefix", Usage: "number the sentences and clauses"}
}

// docRenderer returns the renderer selected by the format flags.
func docRenderer(c *cli.Context, ui UI) (render.DocRenderer, error) {
	format := c.String("format")
	if format == formatJSON {
		return render.NewJSONRenderer(ui.Out), nil
	}

	if !isSupported(format) {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.Format = format
	r.HasColor = c.Bool("color")
	r.HasPrefix = c.Bool("prefix")
	return r, nil
}

func isSupported(format string) bool {
	for _, f := range render.SupportedFormats() {
		if f == format {
			return true
		}
	}
	return false
}

func analyzeCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "tokenize, tag and parse a text and print the analysis",
		ArgsUsage: "[TEXT...]",
		Flags:     []cli.Flag{fileFlag(), formatFlag(), colorFlag(), prefixFlag()},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			r, err := docRenderer(c, ui)
			if err != nil {
				return err
			}

			texts, _, err := inputs(c, ui)
			if err != nil {
				return err
			}

			p := e.pipeline()
			for _, text := range texts {
				r.Doc(p.Analyze(text))
			}
			return nil
		},
	}
}
