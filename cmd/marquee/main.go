package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/marquee/terminal"
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if a session escapes the driver
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			fmt.Fprintf(os.Stderr, "\n\x1b[31mMARQUEE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := NewRootCmd(nil, terminal.New).Execute(); err != nil {
		os.Exit(1)
	}
}
