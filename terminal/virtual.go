package terminal

import (
	"io"
	"strings"
	"sync"

	"github.com/lixenwraith/marquee/constants"
)

// VirtualConsole is an in-memory Console: a fixed grid of cells plus a log of
// every Write, with scripted input lines
type VirtualConsole struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []rune // row-major: cells[y*width + x]

	x, y          int
	cursorVisible bool

	writes  []string
	lines   []string
	cleared int

	// WriteErr, when set, is returned by Write instead of drawing
	WriteErr error

	// OnWrite observes every Write after it is applied
	OnWrite func(text string)

	interrupts chan struct{}
}

// NewVirtual creates a blank grid of the given size with scripted input lines
func NewVirtual(width, height int, lines ...string) *VirtualConsole {
	v := &VirtualConsole{
		width:         width,
		height:        height,
		cursorVisible: true,
		lines:         lines,
		interrupts:    make(chan struct{}, constants.InterruptBuffer),
	}
	v.cells = make([]rune, width*height)
	v.blank()
	return v
}

func (v *VirtualConsole) blank() {
	for i := range v.cells {
		v.cells[i] = ' '
	}
}

func (v *VirtualConsole) Init() error { return nil }
func (v *VirtualConsole) Fini()       {}

// SetCursorPosition positions cursor (0-indexed)
func (v *VirtualConsole) SetCursorPosition(column, row int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.x, v.y = column, row
}

// Write draws text at the cursor; cells outside the grid are dropped
func (v *VirtualConsole) Write(text string) error {
	v.mu.Lock()
	if v.WriteErr != nil {
		err := v.WriteErr
		v.mu.Unlock()
		return err
	}

	for _, r := range text {
		if r == '\n' {
			v.x = 0
			v.y++
			continue
		}
		if v.x >= 0 && v.x < v.width && v.y >= 0 && v.y < v.height {
			v.cells[v.y*v.width+v.x] = r
		}
		v.x++
	}
	v.writes = append(v.writes, text)
	hook := v.OnWrite
	v.mu.Unlock()

	if hook != nil {
		hook(text)
	}
	return nil
}

func (v *VirtualConsole) HideCursor() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursorVisible = false
}

func (v *VirtualConsole) ShowCursor() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursorVisible = true
}

func (v *VirtualConsole) BufferWidth() int  { return v.width }
func (v *VirtualConsole) BufferHeight() int { return v.height }

// ReadLine returns the next scripted line, then io.EOF
func (v *VirtualConsole) ReadLine() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.lines) == 0 {
		return "", io.EOF
	}
	line := v.lines[0]
	v.lines = v.lines[1:]
	return line, nil
}

// Clear blanks the grid and homes the cursor
func (v *VirtualConsole) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.blank()
	v.x, v.y = 0, 0
	v.cleared++
}

func (v *VirtualConsole) Interrupts() <-chan struct{} {
	return v.interrupts
}

// Interrupt simulates the user asking to stop
func (v *VirtualConsole) Interrupt() {
	select {
	case v.interrupts <- struct{}{}:
	default:
	}
}

// Row returns the contents of row y
func (v *VirtualConsole) Row(y int) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if y < 0 || y >= v.height {
		return ""
	}
	return string(v.cells[y*v.width : (y+1)*v.width])
}

// Cursor returns the cursor position and visibility
func (v *VirtualConsole) Cursor() (x, y int, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.x, v.y, v.cursorVisible
}

// Writes returns a copy of every text passed to Write
func (v *VirtualConsole) Writes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.writes...)
}

// Output concatenates every Write
func (v *VirtualConsole) Output() string {
	return strings.Join(v.Writes(), "")
}

// Clears returns how many times Clear was called
func (v *VirtualConsole) Clears() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cleared
}
