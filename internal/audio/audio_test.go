package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
			if smp[0] != smp[1] {
				t.Fatalf("expected mono output")
			}
		}
		total += n
		if !ok || total > sampleRate.N(time.Second) {
			return total, peak
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	s := beep.Take(sampleRate.N(toneLength), NewToneGenerator(sampleRate, 440, toneLength))
	n, peak := drain(t, s)
	if n != sampleRate.N(toneLength) {
		t.Fatalf("expected %d samples, got %d", sampleRate.N(toneLength), n)
	}
	if peak <= 0 || peak > 1 {
		t.Fatalf("peak out of range: %f", peak)
	}
}

func TestBuzzInRange(t *testing.T) {
	_, peak := drain(t, beep.Take(sampleRate.N(buzzLength), NewBuzzGenerator(sampleRate, buzzFreq)))
	if peak <= 0 || peak > 1 {
		t.Fatalf("peak out of range: %f", peak)
	}
}

func TestFlashFrequencyRises(t *testing.T) {
	prev := 0.0
	for i := 0; i < 7; i++ {
		f := FlashFrequency(i)
		if f <= prev {
			t.Fatalf("frequency for %d not above previous: %f <= %f", i, f, prev)
		}
		prev = f
	}
	if FlashFrequency(-1) != baseFreq {
		t.Fatalf("expected base frequency for negative index")
	}
}

func TestSoundManagerUninitializedIsSilent(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("sound calls panicked without initialization: %v", r)
		}
	}()
	sm := NewSoundManager()
	sm.PlayFlash(0)
	sm.PlayMiss()
	sm.Cleanup()
}
