package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/semgraph/stat"
)

func statCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print sentence, clause, POS and dependency counts of texts",
		ArgsUsage: "[TEXT...]",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{Name: "json", Usage: "print the counts as JSON"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c, ui)
			if err != nil {
				return err
			}
			defer e.Close()

			texts, _, err := inputs(c, ui)
			if err != nil {
				return err
			}

			p := e.pipeline()
			hdl := stat.NewHandler()
			for _, text := range texts {
				hdl.Aggregate(p.Analyze(text))
			}
			stats := hdl.Get()

			if c.Bool("json") {
				return json.NewEncoder(ui.Out).Encode(stats)
			}

			fmt.Fprintf(ui.Out, "Num docs %d, num sentences %d, num clauses %d, num tokens %d, num tokens per sentence %d\n",
				stats.NumDocs, stats.NumSentences, stats.NumClauses, stats.NumTokens, stats.TokensPerSentenceMean)
			printDis(ui, "pos", stats.PosDis)
			printDis(ui, "dep", stats.DepDis)
			return nil
		},
	}
}

// printDis prints a distribution by decreasing count.
func printDis(ui UI, name string, dis map[string]int) {
	keys := make([]string, 0, len(dis))
	for k := range dis {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if dis[keys[i]] != dis[keys[j]] {
			return dis[keys[i]] > dis[keys[j]]
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		fmt.Fprintf(ui.Out, "%s %-8s %d\n", name, k, dis[k])
	}
}
