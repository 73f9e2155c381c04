package surface

import (
	"math"
	"testing"
)

func ratioKnob(t *testing.T) *Knob {
	t.Helper()
	d, ok := LookupKnob(Ratio)
	if !ok {
		t.Fatal("ratio knob missing")
	}
	return NewKnob(d)
}

func TestAdjustClamps(t *testing.T) {
	k := ratioKnob(t)
	k.Adjust(-1000, false)
	if k.Target != 10 {
		t.Errorf("Target after big drag up = %v, want 10", k.Target)
	}
	k.Adjust(1000, false)
	if k.Target != 1 {
		t.Errorf("Target after big drag down = %v, want 1", k.Target)
	}
	k.Adjust(math.NaN(), false)
	if k.Target != 1 {
		t.Errorf("Target after NaN = %v, want 1", k.Target)
	}
}

func TestAdjustSensitivity(t *testing.T) {
	k := ratioKnob(t)
	k.Adjust(-10, false)
	if !approx(k.Target, 4.9, 1e-9) {
		t.Errorf("Target = %v, want 4.9", k.Target)
	}

	k = ratioKnob(t)
	k.Adjust(-10, true)
	if !approx(k.Target, 4.09, 1e-9) {
		t.Errorf("precision Target = %v, want 4.09", k.Target)
	}
}

func TestDragGesture(t *testing.T) {
	k := ratioKnob(t)
	if k.PointerMove(50, false) {
		t.Error("PointerMove while idle should be ignored")
	}
	if k.Target != 4 {
		t.Fatalf("Target = %v, want 4", k.Target)
	}

	k.PointerDown(100)
	if k.State() != Dragging {
		t.Fatalf("State = %v, want dragging", k.State())
	}
	k.PointerMove(90, false)
	k.PointerMove(80, false)
	if !approx(k.Target, 5.8, 1e-9) {
		t.Errorf("Target after two moves = %v, want 5.8", k.Target)
	}
	k.PointerUp()
	if k.State() != Idle {
		t.Errorf("State = %v, want idle", k.State())
	}
}

func TestSmooth(t *testing.T) {
	k := ratioKnob(t)
	k.Target = 5
	if !k.Smooth() {
		t.Fatal("Smooth should report a step")
	}
	if !approx(k.Current, 4.2, 1e-12) {
		t.Errorf("Current = %v, want 4.2", k.Current)
	}
	for i := 0; i < 200 && k.Smooth(); i++ {
	}
	if !k.Settled() {
		t.Errorf("knob not settled: current %v target %v", k.Current, k.Target)
	}
	if k.Smooth() {
		t.Error("Smooth after settling should not report a step")
	}
}

func TestResetKnob(t *testing.T) {
	k := ratioKnob(t)
	k.Target, k.Current = 9, 9
	if got := k.Reset(); got != 4 {
		t.Errorf("Reset = %v, want 4", got)
	}
	if k.Current != 4 || k.Target != 4 {
		t.Errorf("after Reset current %v target %v, want 4", k.Current, k.Target)
	}
	if k.AcceptsInbound() {
		t.Error("knob should hold off inbound values right after Reset")
	}
}

func TestInbound(t *testing.T) {
	k := ratioKnob(t)
	if !k.Inbound(6) || k.Current != 6 {
		t.Fatalf("idle knob did not take inbound value: %v", k.Current)
	}

	k.Target = 7
	if k.Inbound(2) {
		t.Error("smoothing knob applied an inbound value")
	}
	for i := 0; i < 200 && k.Smooth(); i++ {
	}
	if k.Inbound(3) {
		t.Error("inbound value applied inside the hold")
	}
	for i := 0; i < EchoHoldFrames; i++ {
		k.Smooth()
	}
	if k.Current != 3 {
		t.Errorf("deferred value = %v, want 3", k.Current)
	}

	k.Reset()
	k.Inbound(9)
	k.PointerDown(0)
	k.PointerUp()
	for i := 0; i < EchoHoldFrames; i++ {
		k.Smooth()
	}
	if k.Current != 4 {
		t.Errorf("value deferred before a drag was applied: %v", k.Current)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{1, -135},
		{10, 135},
		{5.5, 0},
	}
	for _, tt := range tests {
		if got := Angle(tt.value, 1, 10); !approx(got, tt.want, 1e-9) {
			t.Errorf("Angle(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
	if got := Angle(3, 3, 3); got != -135 {
		t.Errorf("Angle on empty range = %v, want -135", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		id    ParamID
		value float64
		want  string
	}{
		{Ratio, 4, "4.0:1"},
		{ThresholdDB, -28, "-28.0 dB"},
		{ThresholdDB, 0, "+0.0 dB"},
		{InputGain, 1.5, "1.50 dB"},
		{AttackMs, 25, "25.0 ms"},
		{SidechainFreq, 200, "200.0 Hz"},
		{CompMix, 0.5, "0.50"},
		{Drive, 1, "1.0"},
	}
	for _, tt := range tests {
		d, _ := LookupKnob(tt.id)
		if got := d.FormatValue(tt.value); got != tt.want {
			t.Errorf("%s FormatValue(%v) = %q, want %q", tt.id, tt.value, got, tt.want)
		}
	}
}

func TestCatalogue(t *testing.T) {
	if len(Knobs) != 11 {
		t.Errorf("len(Knobs) = %d, want 11", len(Knobs))
	}
	for _, d := range Knobs {
		if d.Default < d.Min || d.Default > d.Max {
			t.Errorf("%s default %v outside [%v, %v]", d.ID, d.Default, d.Min, d.Max)
		}
	}
	if !IsToggle(EnableLookahead) || !IsToggle(SidechainFilter) {
		t.Error("toggles not registered")
	}
	if IsToggle(Ratio) {
		t.Error("ratio is not a toggle")
	}
}
