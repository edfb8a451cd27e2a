// Package driver runs the interactive prompt: read a line, clear the screen,
// scroll the line until interrupted, and report any failure before asking again.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/terminal"
)

// CycleNotifier is told each time a marquee completes a full rotation
type CycleNotifier interface {
	OnCycle(cycle int)
}

// Loop owns the console between sessions
type Loop struct {
	Console terminal.Console

	// Base supplies every construction parameter except the text
	Base marquee.Config

	Log zerolog.Logger

	// Chime is optional
	Chime CycleNotifier
}

// Run prompts for lines until input ends or ctx is done.
// A failed session is reported on the console and the prompt repeats
func (l *Loop) Run(ctx context.Context) error {
	for session := 1; ; session++ {
		if ctx.Err() != nil {
			return nil
		}

		l.drainInterrupts()

		if err := l.Console.Write(constants.Prompt + "\n"); err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		line, err := l.Console.ReadLine()
		if errors.Is(err, io.EOF) {
			l.Log.Info().Int("sessions", session-1).Msg("input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		if err := l.session(ctx, line); err != nil {
			l.report(session, err)
		}
	}
}

// RunOnce runs a single session for text and returns its error instead of reporting it
func (l *Loop) RunOnce(ctx context.Context, text string) error {
	return l.session(ctx, text)
}

// session clears the screen and scrolls text until the run ends.
// Panics are converted to errors so one bad session never ends the loop
func (l *Loop) session(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.Log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("session panicked")
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	l.Console.Clear()

	cfg := l.Base.WithText(text)
	if l.Chime != nil && cfg.OnCycle == nil {
		cfg.OnCycle = l.Chime.OnCycle
	}

	m, err := marquee.New(l.Console, cfg)
	if err != nil {
		return err
	}

	l.Log.Info().
		Int("length", utf8.RuneCountInString(text)).
		Int("delay_ms", m.Delay()).
		Stringer("direction", m.Direction()).
		Int("column", m.Column()).
		Int("row", m.Row()).
		Msg("session started")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Watcher reports whether it consumed an interrupt, and always exits before we read it
	interrupted := make(chan bool, 1)
	go func() {
		select {
		case <-l.Console.Interrupts():
			cancel()
			interrupted <- true
		case <-runCtx.Done():
			interrupted <- false
		}
	}()

	runErr := m.Run(runCtx)
	cancel()
	wasInterrupted := <-interrupted

	if runErr != nil {
		return runErr
	}

	if wasInterrupted {
		l.Log.Info().Msg("session interrupted")
		if err := m.ClearRegion(m.Column(), m.Row(), utf8.RuneCountInString(m.Text())); err != nil {
			return fmt.Errorf("clear marquee: %w", err)
		}
		l.Console.SetCursorPosition(0, m.Row())
		return nil
	}

	l.Log.Info().Msg("session finished")
	l.Console.SetCursorPosition(0, m.Row()+1)
	return nil
}

// drainInterrupts drops interrupts that arrived while no marquee was running,
// so a late Ctrl-C does not end the next prompt
func (l *Loop) drainInterrupts() {
	for {
		select {
		case <-l.Console.Interrupts():
			l.Log.Debug().Msg("dropped stale interrupt")
		default:
			return
		}
	}
}

// report logs err and prints the diagnostic
func (l *Loop) report(session int, err error) {
	ev := l.Log.Error()
	if errors.Is(err, marquee.ErrInvalidConfiguration) {
		ev = l.Log.Warn().Strs("fields", marquee.InvalidFields(err))
	}
	ev.Int("session", session).Err(err).Msg("session failed")

	if werr := l.Console.Write(constants.FailurePrefix + err.Error() + "\n\n"); werr != nil {
		l.Log.Error().Err(werr).Msg("write diagnostic")
	}
}
