// @focus: #sys { audio }
package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/marquee/constants"
)

const sampleRate = beep.SampleRate(constants.ChimeSampleRate)

// Chime plays a short tone through the speaker. The tone is rendered once and
// replayed from its buffer. Every method is safe to call before Initialize or
// after a failed Initialize; it then does nothing
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	sound       *beep.Buffer
	initialized bool
	played      int
}

// NewChime renders the tone and creates an uninitialized chime
func NewChime() *Chime {
	return &Chime{
		mixer: &beep.Mixer{},
		sound: newChimeBuffer(sampleRate, constants.ChimeVolume),
	}
}

// Initialize opens the speaker. Audio is optional: callers log the error and continue
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(constants.ChimeBuffer)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Play queues one chime
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Add(c.sound.Streamer(0, c.sound.Len()))
	speaker.Unlock()
	c.played++
}

// OnCycle adapts Play to the marquee cycle callback
func (c *Chime) OnCycle(int) {
	c.Play()
}

// Played returns how many chimes were queued
func (c *Chime) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Cleanup silences pending chimes and closes the speaker
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}
