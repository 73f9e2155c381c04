package engine

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/signal"

	"github.com/satindergrewal/uppercomp/internal/audio"
)

// Test signal: a 110 Hz tone with a noise hit on every beat at 120 BPM.
// The loop is a whole number of tone cycles and beats so it wraps cleanly.
const (
	testLoopSeconds = 4
	testToneHz      = 110.0
	testToneAmp     = 0.25
	testHitAmp      = 0.6
	testBeat        = audio.SampleRate / 2
	testHitDecay    = 0.9995
)

// TestSignal builds the interleaved stereo loop played when no source file
// is configured.
func TestSignal() ([]float64, error) {
	n := testLoopSeconds * audio.SampleRate
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(audio.SampleRate)},
		signal.WithSeed(7),
	)
	tone, err := gen.Sine(testToneHz, testToneAmp, n)
	if err != nil {
		return nil, fmt.Errorf("test tone: %w", err)
	}
	noise, err := gen.WhiteNoise(testHitAmp, n)
	if err != nil {
		return nil, fmt.Errorf("test noise: %w", err)
	}

	out := make([]float64, n*audio.Channels)
	env := 0.0
	for i := 0; i < n; i++ {
		if i%testBeat == 0 {
			env = 1
		}
		s := tone[i] + noise[i]*env
		env *= testHitDecay
		out[2*i] = s
		out[2*i+1] = s
	}
	return out, nil
}
