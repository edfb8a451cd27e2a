// @focus: #constants { audio }
package constants

import "time"

// Chime Sound
const (
	ChimeSampleRate = 48000
	ChimeFrequency  = 880.0
	ChimeVolume     = 0.4

	ChimeDuration = 90 * time.Millisecond
	ChimeAttack   = 5 * time.Millisecond
	ChimeRelease  = 60 * time.Millisecond

	// ChimeBuffer is the speaker buffer length
	ChimeBuffer = 100 * time.Millisecond
)
