package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/satindergrewal/uppercomp/internal/audio"
	"github.com/satindergrewal/uppercomp/internal/bridge"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

func newTestEngine(t *testing.T, monitor bool) *Engine {
	t.Helper()
	e, err := New(Config{Monitor: monitor}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// --- Parameters ---

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Ratio != 4 || p.ThresholdDB != -28 || p.SidechainFreq != 200 || p.CompMix != 1 {
		t.Errorf("DefaultParams = %+v", p)
	}
	if p.EnableLookahead || p.SidechainFilter {
		t.Error("toggles should default off")
	}
	if v, ok := p.Value(string(surface.ReleaseMs)); !ok || v != 80.0 {
		t.Errorf("Value(releaseMsIn) = %v, %v", v, ok)
	}
	if _, ok := p.Value("bogus"); ok {
		t.Error("Value(bogus) should not be found")
	}
}

func TestSetClampsAndValidates(t *testing.T) {
	e := newTestEngine(t, false)

	if err := e.Set(string(surface.Ratio), 50.0); err != nil {
		t.Fatalf("Set(ratio, 50): %v", err)
	}
	if got := e.Params().Ratio; got != 10 {
		t.Errorf("Ratio = %v, want 10", got)
	}
	if err := e.Set(string(surface.SidechainFilter), true); err != nil {
		t.Fatalf("Set(sidechain, true): %v", err)
	}
	if !e.Params().SidechainFilter {
		t.Error("SidechainFilter = false, want true")
	}
	if err := e.Set(string(surface.SidechainFreq), 1000); err != nil {
		t.Fatalf("Set(sidechainFreq, int): %v", err)
	}

	if err := e.Set("bogus", 1.0); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set(bogus) = %v, want ErrUnknownParameter", err)
	}
	if err := e.Set(string(surface.Ratio), "loud"); !errors.Is(err, ErrBadValue) {
		t.Errorf("Set(ratio, string) = %v, want ErrBadValue", err)
	}
	if err := e.Set(string(surface.Ratio), math.NaN()); !errors.Is(err, ErrBadValue) {
		t.Errorf("Set(ratio, NaN) = %v, want ErrBadValue", err)
	}
	if got := e.Params().Ratio; got != 10 {
		t.Errorf("Ratio after rejected writes = %v, want 10", got)
	}
}

func TestRejectedWriteIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e, err := New(Config{}, zap.New(core))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.SendEventOrValue("bogus", 1.0)
	e.RequestParameterValue("bogus")
	if n := logs.Len(); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

// --- Bridge delivery ---

func TestEchoDelivered(t *testing.T) {
	e := newTestEngine(t, false)
	events := make(chan bridge.ParameterEvent, 16)
	e.AddAllParameterListener(func(ev bridge.ParameterEvent) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.SendEventOrValue(string(surface.ThresholdDB), -12.0)
	select {
	case ev := <-events:
		if ev.EndpointID != string(surface.ThresholdDB) || ev.Value != -12.0 {
			t.Errorf("echo = %+v, want thresholdDbIn -12", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for echo")
	}
}

func TestRequestToggle(t *testing.T) {
	e := newTestEngine(t, false)
	params := make(chan bridge.ParameterEvent, 4)
	toggles := make(chan any, 4)
	e.AddAllParameterListener(func(ev bridge.ParameterEvent) { params <- ev })
	e.AddEndpointListener(string(surface.EnableLookahead), func(v any) { toggles <- v })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.RequestParameterValue(string(surface.EnableLookahead))
	select {
	case ev := <-params:
		if ev.Value != false {
			t.Errorf("requested value = %v, want false", ev.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for parameter event")
	}
	select {
	case v := <-toggles:
		if v != false {
			t.Errorf("toggle endpoint = %v, want false", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for toggle endpoint")
	}
}

func TestMetersPublished(t *testing.T) {
	e := newTestEngine(t, false)
	got := make(chan float64, 64)
	e.AddEndpointListener(surface.StreamInputMeter, func(v any) {
		f, _ := bridge.Float(v)
		select {
		case got <- f:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	select {
	case db := <-got:
		if db > 0 || db < SilenceDB {
			t.Errorf("inputMeter = %v dB, want within [%v, 0]", db, SilenceDB)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for inputMeter")
	}
}

func TestMonitorFrames(t *testing.T) {
	e := newTestEngine(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	select {
	case f := <-e.Frames():
		if len(f) != audio.FrameSamples {
			t.Errorf("frame len = %d, want %d", len(f), audio.FrameSamples)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for monitor frame")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-e.Frames():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Frames not closed after cancel")
		}
	}
}

// --- Processing ---

func TestCompressionReducesGain(t *testing.T) {
	e := newTestEngine(t, false)
	e.Set(string(surface.ThresholdDB), -60.0)
	e.Set(string(surface.Ratio), 10.0)

	var lv Levels
	for i := 0; i < 25; i++ {
		lv, _ = e.Process()
	}
	if lv.GainReduction > -10 {
		t.Errorf("GainReduction = %v dB, want below -10", lv.GainReduction)
	}
	if lv.Output >= lv.Input {
		t.Errorf("Output %v dB should be below Input %v dB", lv.Output, lv.Input)
	}
}

func TestPostSatTracksDrive(t *testing.T) {
	e := newTestEngine(t, false)
	e.Set(string(surface.Drive), 10.0)
	lv, _ := e.Process()
	if d := lv.PostSat - lv.Input; math.Abs(d-20) > 1e-9 {
		t.Errorf("PostSat - Input = %v, want 20", d)
	}
}

func TestLookaheadDelaysProgram(t *testing.T) {
	p := DefaultParams()
	p.SatMix = 0
	p.CompMix = 0
	p.EnableLookahead = true
	p.LookaheadMs = 1
	c, err := newChain(p)
	if err != nil {
		t.Fatalf("newChain: %v", err)
	}

	buf := make([]float64, audio.FrameSamples)
	buf[0], buf[1] = 0.5, 0.5
	c.process(buf)

	want := 48 // 1ms at 48kHz
	for i := 0; i < audio.FrameSize; i++ {
		l := buf[2*i]
		if i == want && l != 0.5 {
			t.Errorf("sample %d = %v, want 0.5", i, l)
		}
		if i != want && l != 0 {
			t.Errorf("sample %d = %v, want 0", i, l)
		}
	}
}

// --- Meters ---

func TestPeakDB(t *testing.T) {
	if got := PeakDB([]float64{0.5, -1}); got != 0 {
		t.Errorf("PeakDB(full scale) = %v, want 0", got)
	}
	if got := PeakDB(make([]float64, 8)); got != SilenceDB {
		t.Errorf("PeakDB(silence) = %v, want %v", got, SilenceDB)
	}
	if got := PeakDB([]float64{0.25}, []float64{-0.5}); math.Abs(got+6.0206) > 1e-3 {
		t.Errorf("PeakDB(0.5) = %v, want -6.02", got)
	}
	if got := PeakDB(); got != SilenceDB {
		t.Errorf("PeakDB() = %v, want %v", got, SilenceDB)
	}
}

func TestTestSignal(t *testing.T) {
	s, err := TestSignal()
	if err != nil {
		t.Fatalf("TestSignal: %v", err)
	}
	if len(s) != testLoopSeconds*audio.SampleRate*audio.Channels {
		t.Errorf("len = %d", len(s))
	}
	if db := PeakDB(s); db > 0 || db < -12 {
		t.Errorf("peak = %v dB, want within [-12, 0]", db)
	}
}
