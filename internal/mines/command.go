package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandKind int

const (
	CommandOpen CommandKind = iota
	CommandOpenEight
	CommandToggleFlag
)

func (k CommandKind) String() string {
	switch k {
	case CommandOpen:
		return "open"
	case CommandOpenEight:
		return "openEight"
	case CommandToggleFlag:
		return "flag"
	default:
		return "CommandKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func ParseCommandKind(s string) (CommandKind, error) {
	switch s {
	case "open":
		return CommandOpen, nil
	case "openEight":
		return CommandOpenEight, nil
	case "flag":
		return CommandToggleFlag, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidCommand, s)
}

type Command struct {
	Row, Col int
	Kind     CommandKind
}

// String returns the text form accepted by [ParseCommand].
func (c Command) String() string {
	return fmt.Sprintf("%s %d %d", c.Kind, c.Row, c.Col)
}

// ParseCommand parses "<kind> <row> <col>", e.g. "openEight 2 3".
func ParseCommand(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Command{}, fmt.Errorf(
			"%w: want \"<kind> <row> <col>\", got %q", ErrInvalidCommand, text,
		)
	}
	kind, err := ParseCommandKind(fields[0])
	if err != nil {
		return Command{}, err
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad row: %w", ErrInvalidCommand, err)
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return Command{}, fmt.Errorf("%w: bad col: %w", ErrInvalidCommand, err)
	}
	return Command{Row: row, Col: col, Kind: kind}, nil
}
