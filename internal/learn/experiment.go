package learn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-rl/internal/mines"
)

const AlgorithmVersion = "egreedy-nibblehash-1"

type Experiment struct {
	Width, Height, BombCount int

	LearnCount int
	StepSize   float64
	Epsilon    float64
	Rewards    Rewards
	BoardSeed  int64
	AgentSeed  int64

	SolveCount     int
	SolveBoardSeed int64
	SolveAgentSeed int64

	// LoadValueFile seeds the table before learning; SaveValueFile receives
	// the table afterwards. Both are optional.
	LoadValueFile string
	SaveValueFile string
}

func (e Experiment) Board() mines.Config {
	return mines.Config{
		Width:     e.Width,
		Height:    e.Height,
		BombCount: e.BombCount,
		Seed:      e.BoardSeed,
	}
}

func (e Experiment) Validate() error {
	if err := e.Board().Validate(); err != nil {
		return err
	}
	if e.LearnCount < 0 || e.SolveCount < 0 {
		return fmt.Errorf("negative learn (%d) or solve (%d) count", e.LearnCount, e.SolveCount)
	}
	if e.StepSize < 0 || e.StepSize > 1 {
		return fmt.Errorf("step size %g not in [0, 1]", e.StepSize)
	}
	if e.Epsilon > 1 {
		return fmt.Errorf("epsilon %g greater than 1", e.Epsilon)
	}
	return nil
}

func (e Experiment) Fields() logrus.Fields {
	return logrus.Fields{
		"board":   fmt.Sprintf("%dx%d(%d)", e.Width, e.Height, e.BombCount),
		"learn":   e.LearnCount,
		"step":    e.StepSize,
		"epsilon": e.Epsilon,
	}
}

type Result struct {
	RunID            uuid.UUID
	AlgorithmVersion string
	CreatedAt        time.Time

	Width, Height, BombCount int

	LearnCount    int
	LearnDuration time.Duration
	StepSize      float64
	Epsilon       float64
	Rewards       Rewards
	States        int

	SolveTrialCount       int
	SolvedWithoutLearning int
	SolvedWithLearning    int
}

func (r Result) ClearRate(withLearning bool) float64 {
	if r.SolveTrialCount == 0 {
		return 0
	}
	n := r.SolvedWithoutLearning
	if withLearning {
		n = r.SolvedWithLearning
	}
	return float64(n) / float64(r.SolveTrialCount)
}

// Run learns a value table for e and then measures clears over SolveCount
// boards, once with an empty table and once with the learned one.
func Run(ctx context.Context, e Experiment, log logrus.FieldLogger) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(e.Fields())

	table := NewValueTable(e.StepSize)
	if e.LoadValueFile != "" {
		loaded, err := LoadFile(e.LoadValueFile, e.StepSize)
		if err != nil {
			return nil, fmt.Errorf("unable to load values: %w", err)
		}
		table = loaded
	}

	game, err := mines.NewGame(e.Board())
	if err != nil {
		return nil, err
	}
	learner := NewLearner(game, NewAgent(table, e.Epsilon, e.AgentSeed), e.Rewards, log)

	start := time.Now()
	if _, err := learner.Learn(ctx, e.LearnCount); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	log.WithFields(logrus.Fields{
		"states":   table.Len(),
		"entries":  table.Entries(),
		"duration": elapsed.String(),
	}).Info("learning finished")

	if e.SaveValueFile != "" {
		if err := table.SaveFile(e.SaveValueFile); err != nil {
			return nil, fmt.Errorf("unable to save values: %w", err)
		}
	}

	without, err := e.solve(ctx, NewValueTable(0))
	if err != nil {
		return nil, err
	}
	with, err := e.solve(ctx, table)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:                 uuid.New(),
		AlgorithmVersion:      AlgorithmVersion,
		CreatedAt:             time.Now().UTC(),
		Width:                 e.Width,
		Height:                e.Height,
		BombCount:             e.BombCount,
		LearnCount:            e.LearnCount,
		LearnDuration:         elapsed,
		StepSize:              e.StepSize,
		Epsilon:               e.Epsilon,
		Rewards:               e.Rewards,
		States:                table.Len(),
		SolveTrialCount:       e.SolveCount,
		SolvedWithoutLearning: without.Cleared,
		SolvedWithLearning:    with.Cleared,
	}
	log.WithFields(logrus.Fields{
		"without": result.ClearRate(false),
		"with":    result.ClearRate(true),
	}).Info("solving finished")
	return result, nil
}

func (e Experiment) solve(ctx context.Context, table *ValueTable) (Stats, error) {
	config := e.Board()
	config.Seed = e.SolveBoardSeed
	game, err := mines.NewGame(config)
	if err != nil {
		return Stats{}, err
	}
	return Solve(ctx, game, NewAgent(table, e.Epsilon, e.SolveAgentSeed), e.SolveCount)
}
