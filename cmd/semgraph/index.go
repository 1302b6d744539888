package main

import (
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/lexicon"
)

func indexCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "build the offset indexes of the lemma and POS corpora",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-progress", Usage: "do not draw progress bars"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			cfg := e.cfg

			pairs := [][2]string{
				{cfg.Path(cfg.LemmaCorpus), cfg.Path(cfg.LemmaIndex)},
				{cfg.Path(cfg.PosCorpus), cfg.Path(cfg.PosIndex)},
			}

			var progress *uiprogress.Progress
			if !c.Bool("no-progress") {
				progress = uiprogress.New()
				progress.Out = ui.Err
				progress.Start()
				defer progress.Stop()
			}

			for _, p := range pairs {
				n, err := buildIndex(progress, p[0], p[1])
				if err != nil {
					return err
				}
				e.log.WithField("corpus", p[0]).WithField("keys", n).Info("index built")
				fmt.Fprintf(ui.Out, "📖 %s: %d keys -> %s\n", p[0], n, p[1])
			}
			return nil
		},
	}
}

func buildIndex(progress *uiprogress.Progress, corpus, index string) (int, error) {
	info, err := os.Stat(corpus)
	if err != nil {
		return 0, errors.Wrap(err, "corpus not found")
	}

	var fn func(read int64)
	if progress != nil {
		bar := progress.AddBar(int(info.Size()))
		bar.AppendCompleted()
		bar.PrependElapsed()
		fn = func(read int64) {
			_ = bar.Set(int(read))
		}
	}

	ix, err := lexicon.BuildIndexFile(corpus, fn)
	if err != nil {
		return 0, err
	}

	if err := ix.Save(index); err != nil {
		return 0, err
	}

	return len(ix), nil
}
