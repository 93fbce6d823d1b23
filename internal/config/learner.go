package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-rl/internal/learn"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Learner configures cmd/learner. Grid lists left empty fall back to the
// single scalar default of the same dimension.
type Learner struct {
	Storage    string `json:"storage"`
	SQLitePath string `json:"sqlite_path"`
	Migrate    bool   `json:"migrate"`
	LogFile    string `json:"log_file"`
	Parallel   int    `json:"parallel"`

	Width     int `json:"width"`
	Height    int `json:"height"`
	BombCount int `json:"bomb_count"`

	LearnCount int           `json:"learn_count"`
	StepSize   float64       `json:"step_size"`
	Epsilon    float64       `json:"epsilon"`
	Rewards    learn.Rewards `json:"rewards"`
	BoardSeed  int64         `json:"board_seed"`
	AgentSeed  int64         `json:"agent_seed"`

	SolveCount     int   `json:"solve_count"`
	SolveBoardSeed int64 `json:"solve_board_seed"`
	SolveAgentSeed int64 `json:"solve_agent_seed"`

	LoadValueFile string `json:"load_value_file"`
	ValueDir      string `json:"value_dir"`

	LearnCounts []int     `json:"learn_counts"`
	StepSizes   []float64 `json:"step_sizes"`
	Epsilons    []float64 `json:"epsilons"`
	Widths      []int     `json:"widths"`
	Heights     []int     `json:"heights"`
	BombCounts  []int     `json:"bomb_counts"`
}

func DefaultLearner() Learner {
	return Learner{
		Storage:        StorageSQLite,
		SQLitePath:     "results.db",
		LogFile:        "learner.log",
		Parallel:       1,
		Width:          5,
		Height:         5,
		BombCount:      5,
		LearnCount:     100000,
		StepSize:       0.1,
		Epsilon:        0.1,
		Rewards:        learn.DefaultRewards,
		SolveCount:     1000,
		SolveBoardSeed: 1192,
		SolveAgentSeed: 1901,
	}
}

// LoadLearner reads a JSON config over the defaults and applies env
// overrides. An empty path skips the file.
func LoadLearner(path string) (*Learner, error) {
	c := DefaultLearner()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Learner) applyEnv() error {
	if storage, ok := os.LookupEnv("LEARNER_STORAGE"); ok {
		c.Storage = storage
	}
	if path, ok := os.LookupEnv("LEARNER_SQLITE_PATH"); ok {
		c.SQLitePath = path
	}
	if parallel, ok := os.LookupEnv("LEARNER_PARALLEL"); ok {
		n, err := strconv.Atoi(parallel)
		if err != nil {
			return fmt.Errorf("invalid LEARNER_PARALLEL %q: %w", parallel, err)
		}
		c.Parallel = n
	}
	return nil
}

func (c Learner) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite storage requires sqlite_path")
		}
	case StoragePostgres:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("negative parallel %d", c.Parallel)
	}
	return nil
}

func (c Learner) Base() learn.Experiment {
	return learn.Experiment{
		Width:          c.Width,
		Height:         c.Height,
		BombCount:      c.BombCount,
		LearnCount:     c.LearnCount,
		StepSize:       c.StepSize,
		Epsilon:        c.Epsilon,
		Rewards:        c.Rewards,
		BoardSeed:      c.BoardSeed,
		AgentSeed:      c.AgentSeed,
		SolveCount:     c.SolveCount,
		SolveBoardSeed: c.SolveBoardSeed,
		SolveAgentSeed: c.SolveAgentSeed,
		LoadValueFile:  c.LoadValueFile,
	}
}

func (c Learner) Sweep() learn.Sweep {
	return learn.Sweep{
		Base:        c.Base(),
		LearnCounts: c.LearnCounts,
		StepSizes:   c.StepSizes,
		Epsilons:    c.Epsilons,
		Widths:      c.Widths,
		Heights:     c.Heights,
		BombCounts:  c.BombCounts,
		ValueDir:    c.ValueDir,
	}
}

func (c Learner) Fields() logrus.Fields {
	return logrus.Fields{
		"storage":     c.Storage,
		"sqlite_path": c.SQLitePath,
		"parallel":    c.Parallel,
		"board":       fmt.Sprintf("%dx%d(%d)", c.Width, c.Height, c.BombCount),
		"learn_count": c.LearnCount,
		"solve_count": c.SolveCount,
		"value_dir":   c.ValueDir,
		"log_file":    c.LogFile,
	}
}
