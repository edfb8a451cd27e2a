package marquee

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/marquee/constants"
)

// Direction selects which rotation runs each tick
type Direction uint8

const (
	// ShiftLeft scrolls right-to-left using RotateForward
	ShiftLeft Direction = iota
	// ShiftRight scrolls left-to-right using RotateBackward
	ShiftRight
)

func (d Direction) String() string {
	switch d {
	case ShiftLeft:
		return "left"
	case ShiftRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == ShiftLeft || d == ShiftRight
}

// ParseDirection accepts "left"/"right" (case-insensitive)
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "":
		return ShiftLeft, nil
	case "right", "r":
		return ShiftRight, nil
	default:
		return ShiftLeft, invalid(FieldDirection, "unknown direction %q, want left or right", s)
	}
}

// Config holds construction parameters for a Marquee
type Config struct {
	Text      string
	DelayMs   int
	Direction Direction
	Column    int
	Row       int

	// Frames stops Run after that many ticks; 0 runs until cancelled
	Frames int

	// OnCycle is called each time the text is back in its original arrangement
	OnCycle func(cycle int)
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		Text:      constants.DefaultText,
		DelayMs:   constants.DefaultDelayMs,
		Direction: ShiftLeft,
		Column:    constants.DefaultColumn,
		Row:       constants.DefaultRow,
	}
}

// WithText returns a copy of c using text
func (c Config) WithText(text string) Config {
	c.Text = text
	return c
}
