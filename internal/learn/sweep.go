package learn

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ResultSink receives finished experiment results. Implementations must be
// safe for concurrent use.
type ResultSink interface {
	SaveResult(ctx context.Context, r *Result) error
}

// Sweep is a cartesian grid of experiments. Every combination of the list
// fields is crossed with Base; boards with BombCount >= Width*Height are
// skipped.
type Sweep struct {
	Base Experiment

	LearnCounts []int
	StepSizes   []float64
	Epsilons    []float64
	Widths      []int
	Heights     []int
	BombCounts  []int

	// ValueDir, when set, receives one value file per experiment.
	ValueDir string
}

func orBase[T any](list []T, base T) []T {
	if len(list) == 0 {
		return []T{base}
	}
	return list
}

func (s Sweep) Experiments() []Experiment {
	var out []Experiment
	for _, learn := range orBase(s.LearnCounts, s.Base.LearnCount) {
		for _, step := range orBase(s.StepSizes, s.Base.StepSize) {
			for _, eps := range orBase(s.Epsilons, s.Base.Epsilon) {
				for _, w := range orBase(s.Widths, s.Base.Width) {
					for _, h := range orBase(s.Heights, s.Base.Height) {
						for _, bombs := range orBase(s.BombCounts, s.Base.BombCount) {
							if bombs >= w*h {
								continue
							}
							e := s.Base
							e.LearnCount, e.StepSize, e.Epsilon = learn, step, eps
							e.Width, e.Height, e.BombCount = w, h, bombs
							if s.ValueDir != "" {
								e.SaveValueFile = filepath.Join(s.ValueDir, fmt.Sprintf(
									"values_%dx%d_%d_n%d_a%g_e%g.csv",
									w, h, bombs, learn, step, eps,
								))
							}
							out = append(out, e)
						}
					}
				}
			}
		}
	}
	return out
}

// RunSweep runs exps with at most limit running at once (limit <= 0 means no
// limit) and saves each result to sink. The first failure cancels the rest.
func RunSweep(
	ctx context.Context,
	exps []Experiment,
	limit int,
	sink ResultSink,
	log logrus.FieldLogger,
) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, e := range exps {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			elog := log.WithField("experiment", i)
			result, err := Run(gCtx, e, elog)
			if err != nil {
				return fmt.Errorf("experiment %d: %w", i, err)
			}
			if sink == nil {
				return nil
			}
			if err := sink.SaveResult(gCtx, result); err != nil {
				return fmt.Errorf("experiment %d: unable to save result: %w", i, err)
			}
			elog.WithField("run_id", result.RunID).Debug("result saved")
			return nil
		})
	}
	return g.Wait()
}
