// @focus: #sys { term }
// Package terminal provides the console surfaces the marquee draws on.
//
// Three implementations share the Console interface:
//   - ANSI: cooked-mode stdin/stdout with direct CSI sequences, SIGINT as interrupt
//   - Screen: a tcell screen with its own line editor, Esc or Ctrl-C as interrupt
//   - Virtual: an in-memory grid that records every frame, for tests
//
// EmergencyReset restores a sane terminal from panic recovery.
package terminal
