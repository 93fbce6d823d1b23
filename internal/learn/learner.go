package learn

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-rl/internal/mines"
)

var (
	errNoMove  = errors.New("agent found no move on a running game")
	errStalled = errors.New("agent chose a move that changed nothing")
)

type Rewards struct {
	OpenOne   float64 `json:"open_one"`
	OpenMulti float64 `json:"open_multi"`
	Dead      float64 `json:"dead"`
}

var DefaultRewards = Rewards{OpenOne: 0.5, OpenMulti: 1, Dead: -1}

// For scores the outcome of a single open.
func (r Rewards) For(res *mines.OpenResult) float64 {
	switch {
	case res.Dead:
		return r.Dead
	case len(res.ChangedCells) == 1:
		return r.OpenOne
	default:
		return r.OpenMulti
	}
}

type Outcome struct {
	Cleared bool
	Steps   int
}

type Stats struct {
	Episodes int
	Cleared  int
}

func (s *Stats) add(o Outcome) {
	s.Episodes++
	if o.Cleared {
		s.Cleared++
	}
}

type Learner struct {
	game    *mines.Game
	agent   *Agent
	rewards Rewards
	log     logrus.FieldLogger
	hash    mines.Hash
}

func NewLearner(game *mines.Game, agent *Agent, rewards Rewards, log logrus.FieldLogger) *Learner {
	return &Learner{
		game:    game,
		agent:   agent,
		rewards: rewards,
		log:     log,
		hash:    make(mines.Hash, mines.HashWords(game.Board().Len())),
	}
}

// Episode plays one fresh board to the end, rewarding every move.
func (l *Learner) Episode() (Outcome, error) {
	return playEpisode(l.game, l.agent, func(cmd mines.Command, res *mines.OpenResult) {
		l.agent.Table().Update(l.hash, cmd, l.rewards.For(res))
	}, l.hash)
}

// Learn runs n episodes. Cancellation is checked between episodes.
func (l *Learner) Learn(ctx context.Context, n int) (Stats, error) {
	var (
		stats    Stats
		progress progressLog
	)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		o, err := l.Episode()
		if err != nil {
			return stats, err
		}
		stats.add(o)
		progress.report(l.log, i, n, l.agent.Table())
	}
	return stats, nil
}

// Solve plays n boards without updating any values and counts the clears.
func Solve(ctx context.Context, game *mines.Game, agent *Agent, n int) (Stats, error) {
	var (
		stats Stats
		hash  = make(mines.Hash, mines.HashWords(game.Board().Len()))
	)
	for range n {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		o, err := playEpisode(game, agent, nil, hash)
		if err != nil {
			return stats, err
		}
		stats.add(o)
	}
	return stats, nil
}

// playEpisode resets the game and plays until it is cleared or lost. hash
// holds the board hash from before each move when observe is called.
func playEpisode(
	game *mines.Game,
	agent *Agent,
	observe func(mines.Command, *mines.OpenResult),
	hash mines.Hash,
) (Outcome, error) {
	game.ClearBoard()
	game.GenerateRandomBoard()

	var o Outcome
	for {
		cmd, ok := agent.Select(game)
		if !ok {
			return o, errNoMove
		}
		game.Board().HashInto(hash)

		res, err := game.Apply(cmd)
		if err != nil {
			return o, err
		}
		o.Steps++
		if observe != nil {
			observe(cmd, res)
		}

		if res.Clear {
			o.Cleared = true
			return o, nil
		}
		if res.Dead {
			return o, nil
		}
		if len(res.ChangedCells) == 0 {
			return o, fmt.Errorf("%w: %s", errStalled, cmd)
		}
	}
}

type progressLog struct {
	percent int
}

func (p *progressLog) report(log logrus.FieldLogger, i, n int, table *ValueTable) {
	if log == nil {
		return
	}
	if per := float64(i) / float64(n) * 100; per >= float64(p.percent) {
		p.percent++
		log.WithFields(logrus.Fields{
			"progress": p.percent,
			"episode":  i,
			"states":   table.Len(),
		}).Debug("learning")
	}
}
