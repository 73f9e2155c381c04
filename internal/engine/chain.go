package engine

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/satindergrewal/uppercomp/internal/audio"
)

const (
	kneeDB          = 6.0
	sidechainOrder  = 2
	maxLookaheadMs  = 50.0
	detectorFloor   = 1e-9
	stereoChannels  = audio.Channels
	sampleRate      = float64(audio.SampleRate)
	lookaheadFrames = int(maxLookaheadMs*sampleRate/1000) + 4
)

// Params is the full parameter state of the chain.
type Params struct {
	Drive           float64
	SatMix          float64
	InputGainDB     float64
	Ratio           float64
	ThresholdDB     float64
	LookaheadMs     float64
	AttackMs        float64
	ReleaseMs       float64
	OutputGainDB    float64
	SidechainFreq   float64
	CompMix         float64
	EnableLookahead bool
	SidechainFilter bool
}

// chain is the per-block signal path: input gain, saturation, compressor with
// optional high-passed detector and lookahead, dry/wet mix, output gain.
// It is not safe for concurrent use.
type chain struct {
	p Params

	sat   [stereoChannels]*effects.Distortion
	la    [stereoChannels]*delay.Line
	comp  *dynamics.Compressor
	scHPF *biquad.Chain

	l, r       []float64
	dryL, dryR []float64
	det        []float64
	gain       float64
}

func newChain(p Params) (*chain, error) {
	c := &chain{
		p:    p,
		l:    make([]float64, audio.FrameSize),
		r:    make([]float64, audio.FrameSize),
		dryL: make([]float64, audio.FrameSize),
		dryR: make([]float64, audio.FrameSize),
		det:  make([]float64, audio.FrameSize),
		gain: 1,
	}
	for ch := range c.sat {
		d, err := effects.NewDistortion(sampleRate,
			effects.WithDistortionMode(effects.DistortionModeTanh),
			effects.WithDistortionDrive(p.Drive),
			effects.WithDistortionMix(p.SatMix),
		)
		if err != nil {
			return nil, fmt.Errorf("saturation: %w", err)
		}
		c.sat[ch] = d

		line, err := delay.New(lookaheadFrames)
		if err != nil {
			return nil, fmt.Errorf("lookahead: %w", err)
		}
		c.la[ch] = line
	}

	comp, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("compressor: %w", err)
	}
	c.comp = comp
	if err := c.comp.SetAutoMakeup(false); err != nil {
		return nil, err
	}
	if err := c.comp.SetMakeupGain(0); err != nil {
		return nil, err
	}
	if err := c.comp.SetKnee(kneeDB); err != nil {
		return nil, err
	}
	c.scHPF = biquad.NewChain(design.ButterworthHP(p.SidechainFreq, sidechainOrder, sampleRate))

	if err := c.apply(p); err != nil {
		return nil, err
	}
	return c, nil
}

// apply pushes p into the processors.
func (c *chain) apply(p Params) error {
	for _, d := range c.sat {
		if err := d.SetDrive(p.Drive); err != nil {
			return err
		}
		if err := d.SetMix(p.SatMix); err != nil {
			return err
		}
	}
	if err := c.comp.SetThreshold(p.ThresholdDB); err != nil {
		return err
	}
	if err := c.comp.SetRatio(p.Ratio); err != nil {
		return err
	}
	if err := c.comp.SetAttack(p.AttackMs); err != nil {
		return err
	}
	if err := c.comp.SetRelease(p.ReleaseMs); err != nil {
		return err
	}
	if p.SidechainFreq != c.p.SidechainFreq {
		c.scHPF.UpdateCoefficients(design.ButterworthHP(p.SidechainFreq, sidechainOrder, sampleRate), 1)
	}
	if p.SidechainFilter && !c.p.SidechainFilter {
		c.scHPF.Reset()
	}
	c.p = p
	return nil
}

// Levels are the meter readings of one block, in dB.
type Levels struct {
	Input         float64
	PostSat       float64
	GainReduction float64
	Output        float64
}

// process runs one interleaved stereo block in place and returns its meters.
func (c *chain) process(buf []float64) Levels {
	n := len(buf) / stereoChannels
	l, r := c.l[:n], c.r[:n]
	audio.Deinterleave(buf, l, r)

	var lv Levels
	in := core.DBToLinear(c.p.InputGainDB)
	scale(in, l, r)
	lv.Input = PeakDB(l, r)
	// how hot the saturator is driven: input peak plus drive
	lv.PostSat = lv.Input + 20*math.Log10(c.p.Drive)

	c.sat[0].ProcessInPlace(l)
	c.sat[1].ProcessInPlace(r)

	det := c.det[:n]
	for i := range det {
		det[i] = 0.5 * (l[i] + r[i])
	}
	if c.p.SidechainFilter {
		c.scHPF.ProcessBlock(det)
	}

	dryL, dryR := c.dryL[:n], c.dryR[:n]
	delaySamples := 0
	if c.p.EnableLookahead {
		delaySamples = int(math.Round(c.p.LookaheadMs * sampleRate / 1000))
	}
	minGain := 1.0
	for i := range det {
		// The compressor has no external detector input, so it runs on the
		// detector signal and its gain is read back from the output ratio.
		out := c.comp.ProcessSample(det[i])
		if math.Abs(det[i]) > detectorFloor {
			c.gain = out / det[i]
		}
		if c.gain < minGain {
			minGain = c.gain
		}

		c.la[0].Write(l[i])
		c.la[1].Write(r[i])
		// Read(1) is the sample just written
		dryL[i] = c.la[0].Read(delaySamples + 1)
		dryR[i] = c.la[1].Read(delaySamples + 1)
		l[i] = dryL[i] * c.gain
		r[i] = dryR[i] * c.gain
	}
	lv.GainReduction = math.Min(0, core.LinearToDB(minGain))

	audio.Blend(l, dryL, l, c.p.CompMix)
	audio.Blend(r, dryR, r, c.p.CompMix)

	scale(core.DBToLinear(c.p.OutputGainDB), l, r)
	lv.Output = PeakDB(l, r)

	audio.Interleave(buf, l, r)
	return lv
}
