package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minesweeper-rl/internal/mines"
)

const help = `commands: "open row col", "openEight row col", "flag row col"`

func show(w io.Writer, game *mines.Game) {
	fmt.Fprintln(w, game.Board().RawString())
	fmt.Fprintln(w, game.Board().String())
}

// play reads commands from r until the game is lost, cleared or r runs dry.
func play(game *mines.Game, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for !game.Dead() && !game.Clear() {
		show(w, game)
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := mines.ParseCommand(line)
		if err != nil {
			fmt.Fprintf(w, "%v\n%s\n", err, help)
			continue
		}
		res, err := game.Apply(cmd)
		if errors.Is(err, mines.ErrOutOfRange) {
			fmt.Fprintln(w, err)
			continue
		} else if err != nil {
			return err
		}

		if res.Dead {
			fmt.Fprintln(w, "DEAD!")
		} else if res.Clear {
			fmt.Fprintln(w, "CLEAR!")
		}
	}
	show(w, game)
	return nil
}
