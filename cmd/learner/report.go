package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vancomm/minesweeper-rl/internal/learn"
	"github.com/vancomm/minesweeper-rl/internal/repository"
)

type boardKey struct {
	width, height, bombs int
}

// report prints the top stored results for every distinct board in exps.
func report(
	ctx context.Context, w io.Writer, store repository.Store, exps []learn.Experiment, top int,
) error {
	seen := make(map[boardKey]bool)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "board\tlearn\tstep\tepsilon\tstates\tlearn time\twithout\twith\trun")

	for _, e := range exps {
		key := boardKey{e.Width, e.Height, e.BombCount}
		if seen[key] {
			continue
		}
		seen[key] = true

		results, err := store.ListResults(ctx, repository.ResultFilter{
			Width:     &key.width,
			Height:    &key.height,
			BombCount: &key.bombs,
		}, top)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(tw, "%dx%d(%d)\t%d\t%g\t%g\t%d\t%s\t%.3f\t%.3f\t%s\n",
				r.Width, r.Height, r.BombCount,
				r.LearnCount, r.StepSize, r.Epsilon, r.States, r.LearnDuration,
				r.ClearRate(false), r.ClearRate(true), r.RunID,
			)
		}
	}
	return tw.Flush()
}
