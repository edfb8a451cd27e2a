package terminal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/lixenwraith/marquee/constants"
)

func TestANSICursorSequences(t *testing.T) {
	var out bytes.Buffer
	c := NewANSI(strings.NewReader(""), &out)

	tests := []struct {
		name string
		op   func()
		want string
	}{
		{"position origin", func() { c.SetCursorPosition(0, 0) }, "\x1b[1;1H"},
		{"position", func() { c.SetCursorPosition(3, 1) }, "\x1b[2;4H"},
		{"position wide", func() { c.SetCursorPosition(120, 45) }, "\x1b[46;121H"},
		{"hide", c.HideCursor, "\x1b[?25l"},
		{"show", c.ShowCursor, "\x1b[?25h"},
		{"clear", c.Clear, "\x1b[2J\x1b[H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.op()
			if got := out.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestANSIWriteFlushes(t *testing.T) {
	var out bytes.Buffer
	c := NewANSI(strings.NewReader(""), &out)

	if err := c.Write("bcda"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.String() != "bcda" {
		t.Errorf("got %q, want %q", out.String(), "bcda")
	}
}

func TestANSIFallbackSize(t *testing.T) {
	c := NewANSI(strings.NewReader(""), &bytes.Buffer{})

	if w := c.BufferWidth(); w != constants.FallbackWidth {
		t.Errorf("BufferWidth = %d, want %d", w, constants.FallbackWidth)
	}
	if h := c.BufferHeight(); h != constants.FallbackHeight {
		t.Errorf("BufferHeight = %d, want %d", h, constants.FallbackHeight)
	}
}

func TestANSIReadLine(t *testing.T) {
	var out bytes.Buffer
	c := NewANSI(strings.NewReader("first line\r\nsecond\nlast"), &out)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer c.Fini()

	for _, want := range []string{"first line", "second", "last"} {
		got, err := c.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}

	// End of input is reported to every later caller
	for i := 0; i < 2; i++ {
		if _, err := c.ReadLine(); err != io.EOF {
			t.Errorf("ReadLine after input ended: err = %v, want io.EOF", err)
		}
	}
}

func TestANSIFiniRestoresCursor(t *testing.T) {
	var out bytes.Buffer
	c := NewANSI(strings.NewReader(""), &out)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c.HideCursor()
	out.Reset()

	c.Fini()
	c.Fini()

	if got, want := out.String(), "\x1b[?25h\x1b[0m"; got != want {
		t.Errorf("Fini wrote %q, want %q", got, want)
	}
}

func TestEmergencyResetSequences(t *testing.T) {
	var out bytes.Buffer
	EmergencyReset(&out)

	for _, seq := range []string{"\x1b[?25h", "\x1b[?1049l", "\x1b[0m", "\x1bc"} {
		if !strings.Contains(out.String(), seq) {
			t.Errorf("EmergencyReset output missing %q", seq)
		}
	}
}
