//go:build !unix

package terminal

// resetTerminalMode has nothing to restore without termios
func resetTerminalMode() {}
