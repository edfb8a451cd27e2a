// @focus: #constants { marquee }
package constants

import (
	"math"
	"time"
)

// Marquee Defaults
const (
	// DefaultText is shown when no line is supplied
	DefaultText = "this is the default line for testing the program. "

	// DefaultDelayMs is the pause between two rotations
	DefaultDelayMs = 70

	// DefaultColumn and DefaultRow anchor the text at the top-left corner
	DefaultColumn = 0
	DefaultRow    = 0
)

// InfiniteDelay is the platform "wait forever" value, never a legal tick delay
const InfiniteDelay = -1

// MaxDelayMs is the longest delay a time.Duration can hold
const MaxDelayMs = math.MaxInt64 / int64(time.Millisecond)

// Terminal Fallbacks
const (
	// FallbackWidth and FallbackHeight are used when the output is not a terminal
	FallbackWidth  = 80
	FallbackHeight = 24

	// InterruptBuffer is the capacity of interrupt notification channels
	InterruptBuffer = 1

	// LineBuffer is the capacity of the pending input line channel
	LineBuffer = 16
)

// Driver Messages
const (
	Prompt        = "enter the text for the marquee."
	FailurePrefix = "something went wrong.\n"
)

// Logging
const (
	LogDirName  = "logs"
	LogFileName = "marquee.log"

	// MaxLogSize triggers rotation of the previous session's log (10MB)
	MaxLogSize = 10 * 1024 * 1024
)
