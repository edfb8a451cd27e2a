// @focus: #sys { io } #input { keys }
package terminal

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/marquee/constants"
)

// ScreenConsole draws through a tcell screen and edits input lines itself,
// since the screen owns the tty in raw mode
type ScreenConsole struct {
	screen tcell.Screen
	style  tcell.Style

	mu            sync.Mutex
	x, y          int
	cursorVisible bool

	keys       chan *tcell.EventKey
	interrupts chan struct{}
	stopCh     chan struct{}
	doneCh     chan struct{}

	initialized bool
	finalized   bool
}

// NewTcell creates a console on a new tcell screen for the controlling terminal
func NewTcell() (*ScreenConsole, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreen(screen), nil
}

// NewScreen wraps an uninitialized tcell screen
func NewScreen(screen tcell.Screen) *ScreenConsole {
	return &ScreenConsole{
		screen:        screen,
		style:         tcell.StyleDefault,
		cursorVisible: true,
		keys:          make(chan *tcell.EventKey, constants.LineBuffer*4),
		interrupts:    make(chan struct{}, constants.InterruptBuffer),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Init initializes the screen and starts event polling
func (c *ScreenConsole) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := c.screen.Init(); err != nil {
		return err
	}
	c.screen.SetStyle(c.style)
	c.screen.Clear()
	c.screen.ShowCursor(0, 0)
	c.screen.Show()

	go c.pollLoop()

	c.initialized = true
	return nil
}

// Fini restores the terminal. Safe to call multiple times
func (c *ScreenConsole) Fini() {
	c.mu.Lock()
	if !c.initialized || c.finalized {
		c.mu.Unlock()
		return
	}
	c.finalized = true
	close(c.stopCh)
	c.mu.Unlock()

	// Fini makes PollEvent return nil, ending the poll loop
	c.screen.Fini()
	<-c.doneCh
}

// pollLoop routes key events to ReadLine and interrupt keys to Interrupts
func (c *ScreenConsole) pollLoop() {
	defer close(c.doneCh)

	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isInterruptKey(ev) {
				select {
				case c.interrupts <- struct{}{}:
				default:
				}
				continue
			}
			select {
			case c.keys <- ev:
			case <-c.stopCh:
				return
			}

		case *tcell.EventResize:
			c.screen.Sync()
		}
	}
}

// isInterruptKey matches Esc and Ctrl-C in both key encodings
func isInterruptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C')
	}
	return false
}

// SetCursorPosition positions cursor (0-indexed)
func (c *ScreenConsole) SetCursorPosition(column, row int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.x, c.y = column, row
	if c.cursorVisible {
		c.screen.ShowCursor(c.x, c.y)
	}
	c.screen.Show()
}

// Write draws text from the cursor, advancing by display width
func (c *ScreenConsole) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range text {
		c.putRune(r)
	}
	if c.cursorVisible {
		c.screen.ShowCursor(c.x, c.y)
	}
	c.screen.Show()
	return nil
}

// putRune writes one rune at the cursor; caller holds mu
func (c *ScreenConsole) putRune(r rune) {
	if r == '\n' {
		c.x = 0
		c.y++
		return
	}
	c.screen.SetContent(c.x, c.y, r, nil, c.style)
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	c.x += w
}

// HideCursor hides the cursor
func (c *ScreenConsole) HideCursor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cursorVisible = false
	c.screen.HideCursor()
	c.screen.Show()
}

// ShowCursor shows the cursor at its current position
func (c *ScreenConsole) ShowCursor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cursorVisible = true
	c.screen.ShowCursor(c.x, c.y)
	c.screen.Show()
}

// Clear blanks the screen and homes the cursor
func (c *ScreenConsole) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.screen.Clear()
	c.x, c.y = 0, 0
	if c.cursorVisible {
		c.screen.ShowCursor(0, 0)
	}
	c.screen.Show()
}

// BufferWidth returns the screen width in cells
func (c *ScreenConsole) BufferWidth() int {
	w, _ := c.screen.Size()
	return w
}

// BufferHeight returns the screen height in cells
func (c *ScreenConsole) BufferHeight() int {
	_, h := c.screen.Size()
	return h
}

// Interrupts returns the interrupt notification channel
func (c *ScreenConsole) Interrupts() <-chan struct{} {
	return c.interrupts
}

// ReadLine echoes typed runes at the cursor until Enter.
// Backspace erases the last rune; Esc or Ctrl-C abandon the line with io.EOF
func (c *ScreenConsole) ReadLine() (string, error) {
	var line []rune
	startX := c.cursorX()

	for {
		select {
		case <-c.interrupts:
			c.newline()
			return "", io.EOF
		case <-c.stopCh:
			return "", io.EOF
		case ev := <-c.keys:
			switch ev.Key() {
			case tcell.KeyEnter:
				c.newline()
				return string(line), nil
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(line) == 0 {
					continue
				}
				line = line[:len(line)-1]
				c.redrawLine(startX, line)
			case tcell.KeyRune:
				line = append(line, ev.Rune())
				c.Write(string(ev.Rune()))
			}
		}
	}
}

func (c *ScreenConsole) cursorX() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.x
}

// redrawLine repaints an edited line from startX and blanks the erased rune's cells
func (c *ScreenConsole) redrawLine(startX int, line []rune) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.x = startX
	for _, r := range line {
		c.putRune(r)
	}
	end := c.x
	for i := 0; i < 2; i++ {
		c.screen.SetContent(end+i, c.y, ' ', nil, c.style)
	}
	if c.cursorVisible {
		c.screen.ShowCursor(c.x, c.y)
	}
	c.screen.Show()
}

// newline moves the cursor to the start of the next row
func (c *ScreenConsole) newline() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.x = 0
	c.y++
	if c.cursorVisible {
		c.screen.ShowCursor(c.x, c.y)
	}
	c.screen.Show()
}
