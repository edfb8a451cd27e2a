package audio

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/marquee/constants"
)

// Partial gains; the octave is quieter and fades out twice as fast
const (
	fundamentalGain = 0.75
	octaveGain      = 0.25
)

// chimeSamples is the mono chime at final volume
type chimeSamples []float64

// renderChime synthesizes the chime once at rate, scaled by volume
func renderChime(rate beep.SampleRate, volume float64) chimeSamples {
	total := rate.N(constants.ChimeDuration)
	attack := rate.N(constants.ChimeAttack)
	release := rate.N(constants.ChimeRelease)

	out := make(chimeSamples, total)
	step := 2 * math.Pi * constants.ChimeFrequency / float64(rate)

	for i := range out {
		theta := step * float64(i)
		fund := fundamentalGain * fade(i, total, attack, release) * math.Sin(theta)
		over := octaveGain * fade(i, total, attack, release/2) * math.Sin(2*theta)
		out[i] = volume * (fund + over)
	}
	return out
}

// fade is a linear ramp up over the first attack samples and down over the last release samples
func fade(i, total, attack, release int) float64 {
	if attack > 0 && i < attack {
		return float64(i) / float64(attack)
	}
	if left := total - i; release > 0 && left < release {
		return float64(left) / float64(release)
	}
	return 1
}

// stream plays the samples once on both channels
func (c chimeSamples) stream() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(c) {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < len(c) {
			samples[n][0] = c[pos]
			samples[n][1] = c[pos]
			n++
			pos++
		}
		return n, true
	})
}

// newChimeBuffer renders the chime into a replayable buffer
func newChimeBuffer(rate beep.SampleRate, volume float64) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(renderChime(rate, volume).stream())
	return buf
}
