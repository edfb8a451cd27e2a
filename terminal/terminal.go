package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Console is the full terminal collaborator: marquee output plus the line input
// and screen clearing the driver needs
type Console interface {
	// Init prepares the terminal and starts input handling
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// SetCursorPosition moves the cursor (0-indexed)
	SetCursorPosition(column, row int)

	// Write draws text starting at the cursor and advances it
	Write(text string) error

	HideCursor()
	ShowCursor()

	// BufferWidth and BufferHeight report the current dimensions
	BufferWidth() int
	BufferHeight() int

	// ReadLine blocks for one line of input without its terminator.
	// Returns io.EOF at end of input or when interrupted while reading
	ReadLine() (string, error)

	// Clear blanks the screen and homes the cursor
	Clear()

	// Interrupts receives a value each time the user asks to stop
	Interrupts() <-chan struct{}
}

// Backend names accepted by New
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Backends lists the names accepted by New
func Backends() []string {
	return []string{BackendANSI, BackendTcell}
}

// New creates an uninitialized Console for the named backend on stdin/stdout
func New(backend string) (Console, error) {
	switch strings.ToLower(backend) {
	case BackendANSI, "":
		return NewANSI(os.Stdin, os.Stdout), nil
	case BackendTcell:
		return NewTcell()
	default:
		return nil, fmt.Errorf("unknown terminal backend %q (want %s)", backend, strings.Join(Backends(), " or "))
	}
}
