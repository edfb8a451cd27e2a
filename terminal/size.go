package terminal

import (
	"golang.org/x/term"

	"github.com/lixenwraith/marquee/constants"
)

// getTerminalSize returns the terminal size for a given fd, or the fallback
// when fd is not a terminal
func getTerminalSize(fd int) (int, int) {
	if fd < 0 || !term.IsTerminal(fd) {
		return constants.FallbackWidth, constants.FallbackHeight
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return constants.FallbackWidth, constants.FallbackHeight
	}
	return w, h
}
