package mines

import "errors"

var (
	ErrOutOfRange     = errors.New("cell index out of range")
	ErrInvalidCommand = errors.New("invalid command")
)

type ConfigError struct {
	message string
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	return "invalid game config: " + e.message
}
