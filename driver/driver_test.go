package driver

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/marquee/constants"
	"github.com/lixenwraith/marquee/marquee"
	"github.com/lixenwraith/marquee/terminal"
)

// boundedBase scrolls without delay and stops after frames ticks
func boundedBase(frames int) marquee.Config {
	cfg := marquee.DefaultConfig()
	cfg.DelayMs = 0
	cfg.Frames = frames
	return cfg
}

type cycleRecorder struct {
	mu     sync.Mutex
	cycles []int
}

func (r *cycleRecorder) OnCycle(cycle int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, cycle)
}

// panicConsole panics the first time the screen is cleared
type panicConsole struct {
	*terminal.VirtualConsole
	once sync.Once
}

func (p *panicConsole) Clear() {
	p.once.Do(func() { panic("boom") })
	p.VirtualConsole.Clear()
}

// failingFrames rejects the marquee frame "abc" and passes every other write
type failingFrames struct {
	*terminal.VirtualConsole
	err error
}

func (f *failingFrames) Write(text string) error {
	if text == "abc" {
		return f.err
	}
	return f.VirtualConsole.Write(text)
}

func runLoop(t *testing.T, loop *Loop) {
	t.Helper()
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunScrollsLineThenExitsOnEOF(t *testing.T) {
	vc := terminal.NewVirtual(40, 5, "abc")
	runLoop(t, &Loop{Console: vc, Base: boundedBase(3), Log: zerolog.Nop()})

	prompt := constants.Prompt + "\n"
	want := []string{prompt, "abc", "bca", "cab", prompt}
	if got := vc.Writes(); !slices.Equal(got, want) {
		t.Errorf("Writes = %q, want %q", got, want)
	}

	if vc.Clears() != 1 {
		t.Errorf("Clears = %d, want 1", vc.Clears())
	}
	if !strings.HasPrefix(vc.Row(0), "cab ") {
		t.Errorf("Row(0) = %q, want last frame", vc.Row(0))
	}
	if !strings.HasPrefix(vc.Row(1), constants.Prompt) {
		t.Errorf("Row(1) = %q, want prompt below the marquee", vc.Row(1))
	}
	if _, _, visible := vc.Cursor(); !visible {
		t.Error("cursor hidden after session")
	}
}

func TestRunReportsRejectedLineAndReprompts(t *testing.T) {
	var logBuf bytes.Buffer
	vc := terminal.NewVirtual(40, 5, "")
	runLoop(t, &Loop{Console: vc, Base: boundedBase(1), Log: zerolog.New(&logBuf)})

	out := vc.Output()
	for _, want := range []string{
		constants.FailurePrefix + "one or more supplied parameters were out of range",
		"text: must not be empty\n\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if n := strings.Count(out, constants.Prompt); n != 2 {
		t.Errorf("prompted %d times, want 2", n)
	}

	for _, want := range []string{`"level":"warn"`, `"fields":["text"]`} {
		if !strings.Contains(logBuf.String(), want) {
			t.Errorf("log %q missing %s", logBuf.String(), want)
		}
	}
}

func TestRunReportsTooWideLine(t *testing.T) {
	vc := terminal.NewVirtual(10, 5, "this line is far too wide", "ok")
	runLoop(t, &Loop{Console: vc, Base: boundedBase(2), Log: zerolog.Nop()})

	if !strings.Contains(vc.Output(), "exceeds terminal width 10") {
		t.Errorf("output %q lacks the width failure", vc.Output())
	}
	// The following line still runs
	if !slices.Contains(vc.Writes(), "ko") {
		t.Error("second line did not scroll")
	}
}

func TestRunInterruptClearsMarquee(t *testing.T) {
	var logBuf bytes.Buffer
	vc := terminal.NewVirtual(20, 3, "abc")

	var once sync.Once
	vc.OnWrite = func(text string) {
		if text == "bca" {
			once.Do(vc.Interrupt)
		}
	}

	base := marquee.DefaultConfig()
	base.DelayMs = 0
	runLoop(t, &Loop{Console: vc, Base: base, Log: zerolog.New(&logBuf)})

	if got := vc.Row(1); got != strings.Repeat(" ", 20) {
		t.Errorf("Row(1) = %q, want blank", got)
	}
	// The wiped row is reused by the next prompt
	if got := vc.Row(0); got != constants.Prompt[:20] {
		t.Errorf("Row(0) = %q, want prompt", got)
	}
	if !strings.Contains(logBuf.String(), "session interrupted") {
		t.Error("interrupt not logged")
	}
	if strings.Contains(vc.Output(), constants.FailurePrefix) {
		t.Error("interrupt reported as a failure")
	}
	if _, _, visible := vc.Cursor(); !visible {
		t.Error("cursor hidden after interrupt")
	}
}

// TestRunIgnoresStaleInterrupt verifies an interrupt queued between sessions
// neither ends the prompt nor cuts the next run short
func TestRunIgnoresStaleInterrupt(t *testing.T) {
	var logBuf bytes.Buffer
	vc := terminal.NewVirtual(40, 5, "abc")
	vc.Interrupt()

	runLoop(t, &Loop{Console: vc, Base: boundedBase(3), Log: zerolog.New(&logBuf).Level(zerolog.DebugLevel)})

	prompt := constants.Prompt + "\n"
	want := []string{prompt, "abc", "bca", "cab", prompt}
	if got := vc.Writes(); !slices.Equal(got, want) {
		t.Errorf("Writes = %q, want %q", got, want)
	}
	if !strings.Contains(logBuf.String(), "dropped stale interrupt") {
		t.Error("stale interrupt not drained")
	}
	if strings.Contains(logBuf.String(), "session interrupted") {
		t.Error("stale interrupt stopped the session")
	}
}

func TestRunRecoversPanic(t *testing.T) {
	var logBuf bytes.Buffer
	pc := &panicConsole{VirtualConsole: terminal.NewVirtual(40, 5, "abc", "xyz")}
	runLoop(t, &Loop{Console: pc, Base: boundedBase(1), Log: zerolog.New(&logBuf)})

	if !strings.Contains(pc.Output(), constants.FailurePrefix+"panic: boom\n\n") {
		t.Errorf("output %q lacks the panic report", pc.Output())
	}
	if !slices.Contains(pc.Writes(), "xyz") {
		t.Error("loop did not continue after the panic")
	}
	for _, want := range []string{"session panicked", `"level":"error"`} {
		if !strings.Contains(logBuf.String(), want) {
			t.Errorf("log missing %s", want)
		}
	}
}

func TestRunWriteFailureIsReported(t *testing.T) {
	vc := terminal.NewVirtual(40, 5, "abc")

	// Only marquee frames fail so the prompt and diagnostic still get through
	console := &failingFrames{VirtualConsole: vc, err: errors.New("device gone")}
	runLoop(t, &Loop{Console: console, Base: boundedBase(1), Log: zerolog.Nop()})

	if want := constants.FailurePrefix + "marquee write at (0,0): device gone"; !strings.Contains(vc.Output(), want) {
		t.Errorf("output %q missing %q", vc.Output(), want)
	}
}

func TestRunStopsWhenContextDone(t *testing.T) {
	vc := terminal.NewVirtual(40, 5, "abc")
	loop := &Loop{Console: vc, Base: boundedBase(1), Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := len(vc.Writes()); n != 0 {
		t.Errorf("wrote %d times after cancel", n)
	}
}

func TestRunOnceReturnsError(t *testing.T) {
	vc := terminal.NewVirtual(5, 5)
	loop := &Loop{Console: vc, Base: boundedBase(1), Log: zerolog.Nop()}

	err := loop.RunOnce(context.Background(), "too long for five")
	if !errors.Is(err, marquee.ErrInvalidConfiguration) {
		t.Fatalf("RunOnce error = %v, want invalid configuration", err)
	}
	if strings.Contains(vc.Output(), constants.FailurePrefix) {
		t.Error("RunOnce printed the diagnostic instead of returning it")
	}
}

func TestRunOnceNotifiesCycles(t *testing.T) {
	rec := &cycleRecorder{}
	loop := &Loop{Console: terminal.NewVirtual(40, 5), Base: boundedBase(7), Log: zerolog.Nop(), Chime: rec}

	if err := loop.RunOnce(context.Background(), "abc"); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !slices.Equal(rec.cycles, []int{1, 2}) {
		t.Errorf("cycles = %v, want [1 2]", rec.cycles)
	}
}
