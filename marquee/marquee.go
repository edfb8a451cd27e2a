// @focus: #lifecycle { timer }
// Package marquee scrolls one line of text in place by rotating its characters
// at a fixed interval and redrawing it at a fixed terminal position.
package marquee

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/lixenwraith/marquee/constants"
)

// Terminal is the output surface a Marquee draws on
type Terminal interface {
	SetCursorPosition(column, row int)
	Write(text string) error
	HideCursor()
	ShowCursor()
	BufferWidth() int
	BufferHeight() int
}

// Marquee holds validated rotation state bound to one terminal.
// It is not safe for concurrent use; one goroutine owns it while running.
type Marquee struct {
	term Terminal

	text      string
	delayMs   int
	direction Direction
	column    int
	row       int

	frames  int
	onCycle func(cycle int)
}

// New validates cfg against term and returns a ready Marquee.
// All violated fields are reported, not just the first.
func New(term Terminal, cfg Config) (*Marquee, error) {
	m := &Marquee{
		term:    term,
		frames:  cfg.Frames,
		onCycle: cfg.OnCycle,
	}

	var result *multierror.Error

	// Text and column share the width bound; report the text first and check the
	// column against the text only if the text itself was acceptable
	textOK := true
	if err := m.checkText(cfg.Text, 0); err != nil {
		result = multierror.Append(result, err)
		textOK = false
	} else {
		m.text = cfg.Text
	}

	if err := checkDelay(cfg.DelayMs); err != nil {
		result = multierror.Append(result, err)
	} else {
		m.delayMs = cfg.DelayMs
	}

	if !cfg.Direction.Valid() {
		result = multierror.Append(result, invalid(FieldDirection, "unknown direction %d", cfg.Direction))
	} else {
		m.direction = cfg.Direction
	}

	if err := m.checkColumn(cfg.Column, cfg.Text); err != nil && (textOK || cfg.Column < 0) {
		result = multierror.Append(result, err)
	} else {
		m.column = cfg.Column
	}

	if err := m.checkRow(cfg.Row); err != nil {
		result = multierror.Append(result, err)
	} else {
		m.row = cfg.Row
	}

	if cfg.Frames < 0 {
		result = multierror.Append(result, invalid(FieldFrames, "must be non-negative, got %d", cfg.Frames))
	}

	if result != nil {
		result.ErrorFormat = outOfRangeFormat
		return nil, result
	}
	return m, nil
}

// Play constructs a Marquee from cfg and runs it until ctx is done
func Play(ctx context.Context, term Terminal, cfg Config) error {
	m, err := New(term, cfg)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}

// Text returns the current arrangement of the text
func (m *Marquee) Text() string { return m.text }

// Delay returns the pause between ticks in milliseconds
func (m *Marquee) Delay() int { return m.delayMs }

// Direction returns the scroll direction
func (m *Marquee) Direction() Direction { return m.direction }

// Column returns the anchor column
func (m *Marquee) Column() int { return m.column }

// Row returns the anchor row
func (m *Marquee) Row() int { return m.row }

// SetText replaces the text, keeping the current column
func (m *Marquee) SetText(value string) error {
	if err := m.checkText(value, m.column); err != nil {
		return err
	}
	m.text = value
	return nil
}

// SetDelay replaces the tick delay
func (m *Marquee) SetDelay(value int) error {
	if err := checkDelay(value); err != nil {
		return err
	}
	m.delayMs = value
	return nil
}

// SetDirection replaces the scroll direction
func (m *Marquee) SetDirection(value Direction) error {
	if !value.Valid() {
		return invalid(FieldDirection, "unknown direction %d", value)
	}
	m.direction = value
	return nil
}

// SetColumn moves the anchor column
func (m *Marquee) SetColumn(value int) error {
	if err := m.checkColumn(value, m.text); err != nil {
		return err
	}
	m.column = value
	return nil
}

// SetRow moves the anchor row
func (m *Marquee) SetRow(value int) error {
	if err := m.checkRow(value); err != nil {
		return err
	}
	m.row = value
	return nil
}

func (m *Marquee) checkText(value string, column int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return invalid(FieldText, "must not be empty")
	}
	if width := m.term.BufferWidth(); column+n > width {
		return invalid(FieldText, "column %d + length %d exceeds terminal width %d", column, n, width)
	}
	return nil
}

func checkDelay(value int) error {
	if value == constants.InfiniteDelay {
		return invalid(FieldDelay, "infinite delay is not allowed")
	}
	if value < 0 {
		return invalid(FieldDelay, "must be non-negative, got %d", value)
	}
	if int64(value) > constants.MaxDelayMs {
		return invalid(FieldDelay, "must be at most %d, got %d", constants.MaxDelayMs, value)
	}
	return nil
}

func (m *Marquee) checkColumn(value int, text string) error {
	if value < 0 {
		return invalid(FieldColumn, "must be non-negative, got %d", value)
	}
	n := utf8.RuneCountInString(text)
	if width := m.term.BufferWidth(); value+n > width {
		return invalid(FieldColumn, "column %d + length %d exceeds terminal width %d", value, n, width)
	}
	return nil
}

func (m *Marquee) checkRow(value int) error {
	if value < 0 {
		return invalid(FieldRow, "must be non-negative, got %d", value)
	}
	if height := m.term.BufferHeight(); value > height {
		return invalid(FieldRow, "row %d exceeds terminal height %d", value, height)
	}
	return nil
}

// Run draws and rotates the text until ctx is done or the frame limit is reached.
// Each tick writes the text at the anchor, waits the delay, rotates, and repositions.
// Cancellation is not an error: Run shows the cursor again and returns nil.
func (m *Marquee) Run(ctx context.Context) error {
	m.term.SetCursorPosition(m.column, m.row)
	m.term.HideCursor()
	defer m.term.ShowCursor()

	rotate := RotateForward
	if m.direction == ShiftRight {
		rotate = RotateBackward
	}

	length := utf8.RuneCountInString(m.text)
	delay := time.Duration(m.delayMs) * time.Millisecond

	var timer *time.Timer
	if delay > 0 {
		timer = time.NewTimer(delay)
		defer timer.Stop()
	}

	for tick := 1; ; tick++ {
		if ctx.Err() != nil {
			return nil
		}

		if err := m.term.Write(m.text); err != nil {
			return fmt.Errorf("marquee write at (%d,%d): %w", m.column, m.row, err)
		}

		if timer != nil {
			if tick > 1 {
				timer.Reset(delay)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
			}
		}

		m.text = rotate(m.text)
		m.term.SetCursorPosition(m.column, m.row)

		if m.onCycle != nil && tick%length == 0 {
			m.onCycle(tick / length)
		}

		if m.frames > 0 && tick >= m.frames {
			return nil
		}
	}
}

// ClearRegion blanks length cells starting at (column, row) and leaves the cursor there
func (m *Marquee) ClearRegion(column, row, length int) error {
	switch {
	case column < 0:
		return invalid(FieldColumn, "must be non-negative, got %d", column)
	case row < 0:
		return invalid(FieldRow, "must be non-negative, got %d", row)
	case length < 0:
		return invalid(FieldLength, "must be non-negative, got %d", length)
	}
	if width := m.term.BufferWidth(); column+length > width {
		return invalid(FieldLength, "column %d + length %d exceeds terminal width %d", column, length, width)
	}

	m.term.SetCursorPosition(column, row)
	if err := m.term.Write(strings.Repeat(" ", length)); err != nil {
		return fmt.Errorf("clear region at (%d,%d): %w", column, row, err)
	}
	m.term.SetCursorPosition(column, row)
	return nil
}
