// Package audio plays short interface sounds through the system speaker
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/market-bubbles/market"
)

const (
	sampleRate = beep.SampleRate(44100)

	clickDuration   = 60 * time.Millisecond
	clickGain       = 0.25
	refreshDuration = 90 * time.Millisecond
	refreshGain     = 0.12
)

// Per-category click pitch, a pentatonic run so neighbors stay consonant
var categoryPitch = map[market.Category]float64{
	market.CategoryPolitics: 523.25,
	market.CategoryCrypto:   587.33,
	market.CategoryTech:     659.25,
	market.CategoryEconomy:  783.99,
	market.CategorySports:   880.00,
	market.CategoryEvents:   1046.50,
	market.CategoryEarnings: 1174.66,
}

const defaultPitch = 880.0

// Player mixes interface sounds, all methods are no-ops until Initialize succeeds
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewPlayer creates an uninitialized player
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker, a failure leaves the player silent
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Enabled reports whether sounds reach the speaker
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Click plays the selection sound for a category
func (p *Player) Click(c market.Category) {
	p.play(NewTone(PitchFor(c), clickDuration, clickGain, sampleRate))
}

// Refresh plays a soft two-note cue when a new snapshot is installed
func (p *Player) Refresh() {
	p.play(beep.Seq(
		NewTone(659.25, refreshDuration, refreshGain, sampleRate),
		NewTone(987.77, refreshDuration, refreshGain, sampleRate),
	))
}

// ToggleMute flips muting and returns the new state
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized || p.muted {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending sounds and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// PitchFor returns the click frequency for a category
func PitchFor(c market.Category) float64 {
	if f, ok := categoryPitch[c]; ok {
		return f
	}
	return defaultPitch
}
