package terminal

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/lixenwraith/marquee/constants"
)

// lineResult carries one line or the error that ended input
type lineResult struct {
	text string
	err  error
}

// ANSIConsole drives a cooked-mode terminal with raw CSI sequences.
// Input stays line-buffered by the tty; Ctrl-C arrives as SIGINT and is
// turned into an interrupt instead of killing the process
type ANSIConsole struct {
	in     io.Reader
	writer *bufio.Writer
	outFd  int // -1 when output is not a file

	lines      chan lineResult
	interrupts chan struct{}
	sigCh      chan os.Signal
	stopCh     chan struct{}
	doneCh     chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// NewANSI creates an ANSI console reading lines from in and drawing to out
func NewANSI(in io.Reader, out io.Writer) *ANSIConsole {
	fd := -1
	if f, ok := out.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &ANSIConsole{
		in:         in,
		writer:     bufio.NewWriter(out),
		outFd:      fd,
		lines:      make(chan lineResult, constants.LineBuffer),
		interrupts: make(chan struct{}, constants.InterruptBuffer),
		sigCh:      make(chan os.Signal, 1),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Init starts the line reader and the SIGINT relay
func (c *ANSIConsole) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	signal.Notify(c.sigCh, os.Interrupt, syscall.SIGTERM)
	go c.relaySignals()
	go c.readLines()

	c.initialized = true
	return nil
}

// Fini stops the relay and restores the cursor
func (c *ANSIConsole) Fini() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.finalized {
		return
	}

	signal.Stop(c.sigCh)
	close(c.stopCh)
	<-c.doneCh

	c.writer.Write(csiCursorShow)
	c.writer.Write(csiSGR0)
	c.writer.Flush()

	c.finalized = true
}

// relaySignals converts termination signals into non-blocking interrupt notifications
func (c *ANSIConsole) relaySignals() {
	defer close(c.doneCh)
	for {
		select {
		case <-c.stopCh:
			return
		case <-c.sigCh:
			select {
			case c.interrupts <- struct{}{}:
			default:
			}
		}
	}
}

// readLines feeds the lines channel until input ends.
// A read blocked in the tty cannot be cancelled; it ends with the process
func (c *ANSIConsole) readLines() {
	r := bufio.NewReader(c.in)
	for {
		text, err := r.ReadString('\n')
		if err != nil && text != "" && err == io.EOF {
			// Last line without terminator
			err = nil
		}
		res := lineResult{text: strings.TrimRight(text, "\r\n"), err: err}

		select {
		case c.lines <- res:
		case <-c.stopCh:
			return
		}
		if err != nil {
			return
		}
	}
}

// ReadLine waits for the next line, end of input, or an interrupt
func (c *ANSIConsole) ReadLine() (string, error) {
	select {
	case res := <-c.lines:
		if res.err != nil {
			// Keep reporting the terminal error to later callers
			c.lines <- res
		}
		return res.text, res.err
	case <-c.interrupts:
		return "", io.EOF
	case <-c.stopCh:
		return "", io.EOF
	}
}

// SetCursorPosition positions cursor (0-indexed)
func (c *ANSIConsole) SetCursorPosition(column, row int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	writeCursorPos(c.writer, column, row)
	c.writer.Flush()
}

// Write draws text at the cursor
func (c *ANSIConsole) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.WriteString(text)
	return c.writer.Flush()
}

// HideCursor hides the cursor
func (c *ANSIConsole) HideCursor() {
	c.writeRaw(csiCursorHide)
}

// ShowCursor shows the cursor
func (c *ANSIConsole) ShowCursor() {
	c.writeRaw(csiCursorShow)
}

// Clear blanks the screen and homes the cursor
func (c *ANSIConsole) Clear() {
	c.writeRaw(csiClear)
}

// BufferWidth returns the terminal width in columns
func (c *ANSIConsole) BufferWidth() int {
	w, _ := getTerminalSize(c.outFd)
	return w
}

// BufferHeight returns the terminal height in rows
func (c *ANSIConsole) BufferHeight() int {
	_, h := getTerminalSize(c.outFd)
	return h
}

// Interrupts returns the interrupt notification channel
func (c *ANSIConsole) Interrupts() <-chan struct{} {
	return c.interrupts
}

// writeRaw writes and flushes a control sequence
func (c *ANSIConsole) writeRaw(seq []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Write(seq)
	c.writer.Flush()
}
