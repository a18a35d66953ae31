// Package audio plays short synthesized cues: a tone per flashed letter and
// a buzz after a missed round.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	toneLength = 60 * time.Millisecond
	buzzLength = 180 * time.Millisecond

	baseFreq = 440.0
	buzzFreq = 110.0
)

// SoundManager owns the speaker and mixes cues into it. Methods are safe to
// call before Initialize or after a failed Initialize; they do nothing.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager returns an uninitialized manager.
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayFlash plays the tone for the letter at index.
func (sm *SoundManager) PlayFlash(index int) {
	sm.play(beep.Take(sampleRate.N(toneLength), NewToneGenerator(sampleRate, FlashFrequency(index), toneLength)))
}

// PlayMiss plays the mistake buzz.
func (sm *SoundManager) PlayMiss() {
	sm.play(beep.Take(sampleRate.N(buzzLength), NewBuzzGenerator(sampleRate, buzzFreq)))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// FlashFrequency rises a whole tone per letter position.
func FlashFrequency(index int) float64 {
	if index < 0 {
		index = 0
	}
	return baseFreq * math.Pow(2, float64(2*index)/12)
}

// ToneGenerator is a sine tone with a short attack and linear release.
type ToneGenerator struct {
	sr     beep.SampleRate
	freq   float64
	pos    int
	length int
}

// NewToneGenerator creates a tone of the given length.
func NewToneGenerator(sr beep.SampleRate, freq float64, length time.Duration) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq, length: sr.N(length)}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := g.sr.N(5 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := 1.0
		if g.pos < attack {
			env = float64(g.pos) / float64(attack)
		}
		if g.length > 0 {
			env *= math.Max(0, 1-float64(g.pos)/float64(g.length))
		}
		sample := 0.25 * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// BuzzGenerator is a low sine with odd harmonics.
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz at freq.
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.1*math.Sin(2*math.Pi*g.freq*3*t) +
			0.05*math.Sin(2*math.Pi*g.freq*5*t)
		// 20ms fade in.
		sample *= math.Min(t/0.02, 1) * 0.5
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}
