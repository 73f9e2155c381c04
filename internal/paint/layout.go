// Package paint rasterizes surface frames into RGBA images: knobs, LED
// meters, toggles, the saturation LED and the level history.
package paint

import (
	"image"
	"math"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

// Faceplate geometry at scale 1.
const (
	baseW = 900
	baseH = 440

	gridX     = 20
	gridY     = 50
	cellW     = 110
	cellH     = 125
	knobR     = 30
	knobHitPx = 8

	toggleW   = 250
	toggleH   = 30
	toggleGap = 15

	meterX      = 580
	meterY      = 50
	meterW      = 300
	meterH      = 62
	dotR        = 4
	waveY       = 252
	waveH       = 144
	ledR        = 6
	headerBase  = 30
	edgeMargin  = 20
	labelGap    = 10
	readoutDrop = 20
)

// Rect is an axis-aligned rectangle in faceplate pixels.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Dx is the width of r.
func (r Rect) Dx() float64 { return r.X1 - r.X0 }

// Dy is the height of r.
func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Image converts r to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(math.Floor(r.X0)), int(math.Floor(r.Y0)), int(math.Ceil(r.X1)), int(math.Ceil(r.Y1)))
}

// KnobBox places one knob.
type KnobBox struct {
	ID     surface.ParamID
	CX, CY float64
	R      float64
	Hit    Rect
}

// ToggleBox places one toggle button.
type ToggleBox struct {
	ID   surface.ParamID
	Rect Rect
}

// MeterBox places one LED meter.
type MeterBox struct {
	ID   surface.ChannelID
	Rect Rect
}

// Layout is the faceplate geometry for one scale factor.
type Layout struct {
	Scale    float64
	W, H     float64
	Knobs    []KnobBox
	Toggles  []ToggleBox
	Meters   []MeterBox
	LEDX     float64
	LEDY     float64
	LEDR     float64
	Waveform Rect
}

// NewLayout computes the faceplate geometry. scale <= 0 means 1.
func NewLayout(scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	s := func(v float64) float64 { return v * scale }
	l := Layout{Scale: scale, W: s(baseW), H: s(baseH)}

	col := map[int]int{}
	for _, d := range surface.Knobs {
		c := col[d.Row]
		col[d.Row]++
		cx := s(gridX + float64(c)*cellW + cellW/2.0)
		cy := s(gridY + float64(d.Row)*cellH + cellH/2.0)
		r := s(knobR)
		pad := r + s(knobHitPx)
		l.Knobs = append(l.Knobs, KnobBox{
			ID: d.ID, CX: cx, CY: cy, R: r,
			Hit: Rect{cx - pad, cy - pad, cx + pad, cy + pad},
		})
	}

	// toggles share the last row, right of its knobs
	last := surface.Knobs[len(surface.Knobs)-1].Row
	tx := gridX + float64(col[last])*cellW + labelGap
	ty := gridY + float64(last)*cellH + toggleGap
	for i, t := range surface.Toggles {
		y := ty + float64(i)*(toggleH+toggleGap)
		l.Toggles = append(l.Toggles, ToggleBox{
			ID:   t.ID,
			Rect: Rect{s(tx), s(y), s(tx + toggleW), s(y + toggleH)},
		})
	}

	for i, id := range []surface.ChannelID{surface.InputLevel, surface.GainReduction, surface.OutputLevel} {
		y := meterY + float64(i)*meterH
		l.Meters = append(l.Meters, MeterBox{ID: id, Rect: Rect{s(meterX), s(y), s(meterX + meterW), s(y + meterH)}})
	}

	// the LED sits at the top right of the saturation knob
	if len(l.Knobs) > 0 {
		k := l.Knobs[0]
		l.LEDX, l.LEDY, l.LEDR = k.CX+k.R+s(labelGap), k.CY-k.R, s(ledR)
	}
	l.Waveform = Rect{s(meterX), s(waveY), s(meterX + meterW), s(waveY + waveH)}
	return l
}

// Size returns the faceplate size in whole pixels.
func (l Layout) Size() (int, int) {
	return int(math.Ceil(l.W)), int(math.Ceil(l.H))
}

// HitKnob returns the knob under (x, y).
func (l Layout) HitKnob(x, y float64) (surface.ParamID, bool) {
	for _, k := range l.Knobs {
		if k.Hit.Contains(x, y) {
			return k.ID, true
		}
	}
	return "", false
}

// HitToggle returns the toggle under (x, y).
func (l Layout) HitToggle(x, y float64) (surface.ParamID, bool) {
	for _, t := range l.Toggles {
		if t.Rect.Contains(x, y) {
			return t.ID, true
		}
	}
	return "", false
}

// Knob returns the box for id.
func (l Layout) Knob(id surface.ParamID) (KnobBox, bool) {
	for _, k := range l.Knobs {
		if k.ID == id {
			return k, true
		}
	}
	return KnobBox{}, false
}

// dotCenter returns the centre of dot i in meter box m.
func (l Layout) dotCenter(m MeterBox, i, n int) (float64, float64) {
	r := dotR * l.Scale
	step := (m.Rect.Dx() - 2*r) / float64(n-1)
	return m.Rect.X0 + r + float64(i)*step, m.Rect.Y0 + 30*l.Scale
}
