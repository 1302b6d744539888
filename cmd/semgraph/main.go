package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Set at build time with -ldflags "-X main.BuildTag=... -X main.BuildCommit=..."
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "semgraph: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "semgraph",
		Usage:     "analyze French text and extract semantic relations with rules",
		Version:   BuildTag,
		Reader:    ui.In,
		Writer:    ui.Out,
		ErrWriter: ui.Err,

		// errors are printed once by main
		ExitErrHandler: func(*cli.Context, error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"SEMGRAPH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "log as JSON",
			},
		},

		Commands: []*cli.Command{
			analyzeCommand(ui),
			applyCommand(ui),
			indexCommand(ui),
			relationsCommand(ui),
			statCommand(ui),
			replCommand(ui),
			serveCommand(ui),
			versionCommand(ui),
		},
	}
}
