package surface

import "math"

// Knob gesture and smoothing constants.
const (
	Sensitivity      = 1.0
	PrecisionScale   = 0.1 // sensitivity multiplier while the precision modifier is held
	SmoothingFactor  = 0.2
	SmoothingEpsilon = 1e-4
	SweepDegrees     = 270.0
	EchoHoldFrames   = 30 // frames after an outbound write during which inbound values are deferred
)

// DragState is the per-knob pointer state.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Knob holds one parameter's display state. Target is where gestures and
// inbound values put the knob; Current chases it once per frame.
type Knob struct {
	Descriptor
	Current float64
	Target  float64

	state DragState
	lastY float64
	hold  int

	sent       float64 // last value written to the engine
	pending    float64 // newest inbound value deferred by the hold
	hasPending bool
}

// NewKnob creates a knob resting at its default.
func NewKnob(d Descriptor) *Knob {
	return &Knob{Descriptor: d, Current: d.Default, Target: d.Default}
}

// Range returns max-min.
func (k *Knob) Range() float64 {
	return k.Max - k.Min
}

// Clamp bounds v to the knob's range.
func (k *Knob) Clamp(v float64) float64 {
	return clamp(v, k.Min, k.Max)
}

// State returns the drag state.
func (k *Knob) State() DragState {
	return k.state
}

// Dragging reports whether a pointer currently owns the knob.
func (k *Knob) Dragging() bool {
	return k.state == Dragging
}

// Adjust moves the target by a vertical pointer displacement. Screen Y grows
// downward, so a negative deltaY (drag up) raises the value.
func (k *Knob) Adjust(deltaY float64, precision bool) {
	if math.IsNaN(deltaY) || math.IsInf(deltaY, 0) {
		return
	}
	sens := Sensitivity
	if precision {
		sens *= PrecisionScale
	}
	change := deltaY * sens * k.Range() / 100
	k.Target = k.Clamp(k.Target - change)
}

// PointerDown starts a drag at screen position y.
func (k *Knob) PointerDown(y float64) {
	k.state = Dragging
	k.lastY = y
	k.hasPending = false
}

// PointerMove applies the displacement since the last pointer position.
// Moves while idle are ignored.
func (k *Knob) PointerMove(y float64, precision bool) bool {
	if k.state != Dragging {
		return false
	}
	delta := y - k.lastY
	k.lastY = y
	k.Adjust(delta, precision)
	return true
}

// PointerUp ends a drag.
func (k *Knob) PointerUp() {
	k.state = Idle
}

// Reset snaps the knob to its default and returns it.
func (k *Knob) Reset() float64 {
	k.Target = k.Default
	k.Current = k.Default
	k.wrote(k.Default)
	return k.Default
}

func (k *Knob) wrote(v float64) {
	k.sent = v
	k.hold = EchoHoldFrames
	k.hasPending = false
}

// Set applies an inbound value.
func (k *Knob) Set(v float64) {
	v = k.Clamp(v)
	k.Target = v
	k.Current = v
}

// Settled reports whether Current has caught up with Target.
func (k *Knob) Settled() bool {
	return math.Abs(k.Target-k.Current) <= SmoothingEpsilon
}

// AcceptsInbound reports whether an inbound value would be applied at once.
func (k *Knob) AcceptsInbound() bool {
	return k.state == Idle && k.Settled() && k.hold == 0
}

// Inbound offers a value from the engine and reports whether it was applied.
// While dragging or smoothing the value is an echo of our own writes and is
// dropped. During the hold after a write it is deferred; when the hold ends
// the newest deferred value is applied unless it matches what we sent.
func (k *Knob) Inbound(v float64) bool {
	if k.state != Idle || !k.Settled() {
		return false
	}
	if k.hold > 0 {
		k.pending = v
		k.hasPending = true
		return false
	}
	k.Set(v)
	return true
}

// Smooth advances Current one frame toward Target. It returns true when the
// step was large enough that the new value must be sent to the engine.
func (k *Knob) Smooth() bool {
	if k.hold > 0 {
		k.hold--
		if k.hold == 0 && k.hasPending {
			k.hasPending = false
			if math.Abs(k.pending-k.sent) > SmoothingEpsilon {
				k.Set(k.pending)
			}
		}
	}
	diff := k.Target - k.Current
	if math.Abs(diff) <= SmoothingEpsilon {
		return false
	}
	k.Current += diff * SmoothingFactor
	k.wrote(k.Current)
	return true
}

// Angle returns the display rotation of the current value in degrees.
func (k *Knob) Angle() float64 {
	return Angle(k.Current, k.Min, k.Max)
}

// Display returns the formatted current value.
func (k *Knob) Display() string {
	return k.FormatValue(k.Current)
}

// Angle maps value in [min,max] onto a 270 degree sweep centered on 0.
func Angle(value, min, max float64) float64 {
	if max == min {
		return -SweepDegrees / 2
	}
	pct := (value - min) / (max - min)
	return pct*SweepDegrees - SweepDegrees/2
}

// Toggle is an on/off button.
type Toggle struct {
	ToggleDescriptor
	On bool
}
