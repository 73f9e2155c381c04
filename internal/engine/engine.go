// Package engine is a demo compressor that speaks the Patch Bridge. It
// stands in for the real plugin so the surface has live meters and
// parameter echoes to work against.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/uppercomp/internal/audio"
	"github.com/satindergrewal/uppercomp/internal/bridge"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrBadValue         = errors.New("bad parameter value")
)

// seamFrames is the crossfade applied where a looped source file wraps.
const seamFrames = audio.FrameSize

// Config selects the engine's input.
type Config struct {
	Source  string // audio file to loop; empty plays TestSignal
	Monitor bool   // publish PCM frames for listeners
}

// Engine runs the chain in real time and implements bridge.Connection.
type Engine struct {
	*bridge.Hub
	log     *zap.Logger
	monitor bool

	mu     sync.Mutex
	params Params
	levels Levels
	chain  *chain
	src    *audio.Looper
	buf    []float64

	echoes chan bridge.ParameterEvent
	frames chan []int16
}

var _ bridge.Connection = (*Engine)(nil)

// New builds an engine at default parameters.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("engine")

	var samples []float64
	var err error
	if cfg.Source != "" {
		samples, err = audio.DecodeFile(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("load source: %w", err)
		}
		samples = audio.SeamFade(samples, seamFrames)
		log.Info("Source loaded", zap.String("path", cfg.Source), zap.Int("frames", len(samples)/audio.Channels))
	} else {
		samples, err = TestSignal()
		if err != nil {
			return nil, err
		}
		log.Info("Using generated test signal")
	}

	p := DefaultParams()
	c, err := newChain(p)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}
	return &Engine{
		Hub:     bridge.NewHub(),
		log:     log,
		monitor: cfg.Monitor,
		params:  p,
		levels:  Levels{Input: SilenceDB, PostSat: SilenceDB, Output: SilenceDB},
		chain:   c,
		src:     audio.NewLooper(samples),
		buf:     make([]float64, audio.FrameSamples),
		echoes:  make(chan bridge.ParameterEvent, 256),
		frames:  make(chan []int16, 100),
	}, nil
}

// DefaultParams returns every knob at its faceplate default with both
// toggles off.
func DefaultParams() Params {
	var p Params
	for _, d := range surface.Knobs {
		if f, _ := p.field(d.ID); f != nil {
			*f = d.Default
		}
	}
	return p
}

func (p *Params) field(id surface.ParamID) (*float64, *bool) {
	switch id {
	case surface.Drive:
		return &p.Drive, nil
	case surface.SatMix:
		return &p.SatMix, nil
	case surface.InputGain:
		return &p.InputGainDB, nil
	case surface.Ratio:
		return &p.Ratio, nil
	case surface.ThresholdDB:
		return &p.ThresholdDB, nil
	case surface.LookaheadMs:
		return &p.LookaheadMs, nil
	case surface.AttackMs:
		return &p.AttackMs, nil
	case surface.ReleaseMs:
		return &p.ReleaseMs, nil
	case surface.OutputGain:
		return &p.OutputGainDB, nil
	case surface.SidechainFreq:
		return &p.SidechainFreq, nil
	case surface.CompMix:
		return &p.CompMix, nil
	case surface.EnableLookahead:
		return nil, &p.EnableLookahead
	case surface.SidechainFilter:
		return nil, &p.SidechainFilter
	}
	return nil, nil
}

// Value returns the current value of name: float64 for knobs, bool for toggles.
func (p Params) Value(name string) (any, bool) {
	f, b := p.field(surface.ParamID(name))
	switch {
	case f != nil:
		return *f, true
	case b != nil:
		return *b, true
	}
	return nil, false
}

// Params returns a copy of the current parameters.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Levels returns the meters of the last processed block.
func (e *Engine) Levels() Levels {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.levels
}

// Set validates and applies one parameter write, clamping knob values to
// their range, then queues the echo.
func (e *Engine) Set(name string, value any) error {
	id := surface.ParamID(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.params
	f, b := next.field(id)
	var echo any
	switch {
	case f != nil:
		v, ok := bridge.Float(value)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s = %v: %w", name, value, ErrBadValue)
		}
		d, _ := surface.LookupKnob(id)
		*f = math.Max(d.Min, math.Min(d.Max, v))
		echo = *f
	case b != nil:
		v, ok := bridge.Bool(value)
		if !ok {
			return fmt.Errorf("%s = %v: %w", name, value, ErrBadValue)
		}
		*b = v
		echo = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	if err := e.chain.apply(next); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	e.params = next
	e.queue(name, echo)
	return nil
}

// SendEventOrValue implements bridge.Connection. Rejected writes are logged.
func (e *Engine) SendEventOrValue(name string, value any) {
	if err := e.Set(name, value); err != nil {
		e.log.Warn("Rejected parameter write", zap.String("param", name), zap.Any("value", value), zap.Error(err))
	}
}

// RequestParameterValue implements bridge.Connection. The value is delivered
// from the Run goroutine.
func (e *Engine) RequestParameterValue(name string) {
	e.mu.Lock()
	v, ok := e.params.Value(name)
	if ok {
		e.queue(name, v)
	}
	e.mu.Unlock()
	if !ok {
		e.log.Warn("Value requested for unknown parameter", zap.String("param", name))
	}
}

func (e *Engine) queue(name string, v any) {
	select {
	case e.echoes <- bridge.ParameterEvent{EndpointID: name, Value: v}:
	default:
		e.log.Debug("Echo queue full, dropping", zap.String("param", name))
	}
}

// Frames returns the channel of monitor PCM frames (20ms each). It is closed
// when Run returns.
func (e *Engine) Frames() <-chan []int16 {
	return e.frames
}

// Process renders the next block from the source and returns its meters and
// PCM. Run calls it once per frame period.
func (e *Engine) Process() (Levels, []int16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.src.Next(e.buf)
	e.levels = e.chain.process(e.buf)
	return e.levels, audio.FloatToPCM(e.buf)
}

// Run processes audio at real-time rate, publishes meters and delivers
// parameter echoes. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.frames)

	ticker := time.NewTicker(audio.FrameDuration)
	defer ticker.Stop()

	e.log.Info("Engine running", zap.Bool("monitor", e.monitor))
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.echoes:
			e.dispatch(ev)
		case <-ticker.C:
			lv, pcm := e.Process()
			e.EmitEndpoint(surface.StreamInputMeter, lv.Input)
			e.EmitEndpoint(surface.StreamPostSatMeter, lv.PostSat)
			e.EmitEndpoint(surface.StreamGainReduction, lv.GainReduction)
			e.EmitEndpoint(surface.StreamOutputMeter, lv.Output)
			if e.monitor {
				select {
				case e.frames <- pcm:
				default:
				}
			}
		}
	}
}

// dispatch delivers an echo outside the engine lock. Toggles are also
// published on their own endpoint.
func (e *Engine) dispatch(ev bridge.ParameterEvent) {
	e.EmitParameter(ev.EndpointID, ev.Value)
	if surface.IsToggle(surface.ParamID(ev.EndpointID)) {
		e.EmitEndpoint(ev.EndpointID, ev.Value)
	}
}
