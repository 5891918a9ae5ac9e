package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone generates a sine wave with a linear attack and exponential decay envelope
type tone struct {
	freq     float64
	phase    float64
	gain     float64
	attack   int
	duration int
	position int
	rate     beep.SampleRate
}

// NewTone creates a finite enveloped sine streamer
func NewTone(freq float64, duration time.Duration, gain float64, rate beep.SampleRate) beep.Streamer {
	n := rate.N(duration)
	return &tone{
		freq:     freq,
		gain:     gain,
		attack:   max(1, rate.N(3*time.Millisecond)),
		duration: n,
		rate:     rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}

		env := t.envelope()
		val := math.Sin(2*math.Pi*t.phase) * env * t.gain
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) envelope() float64 {
	if t.position < t.attack {
		return float64(t.position) / float64(t.attack)
	}
	// Decays to about 1% at the end of the tone
	progress := float64(t.position-t.attack) / float64(max(1, t.duration-t.attack))
	return math.Exp(-4.6 * progress)
}
