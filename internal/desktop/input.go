package desktop

import (
	"time"

	"github.com/satindergrewal/uppercomp/internal/paint"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

// DoubleClick is the longest gap between two presses on the same knob that
// counts as a reset.
const DoubleClick = 300 * time.Millisecond

// Controller is the surface API the window drives. *surface.Surface satisfies it.
type Controller interface {
	Latest() surface.Frame
	PointerDown(id surface.ParamID, y float64)
	PointerMove(y float64, precision bool)
	PointerUp()
	Reset(id surface.ParamID)
	Toggle(id surface.ParamID)
}

// pointer turns raw mouse events into surface gestures.
type pointer struct {
	ctrl   Controller
	layout paint.Layout

	dragging  bool
	lastKnob  surface.ParamID
	lastPress time.Time
}

// press handles a button press at (x, y) in faceplate pixels.
func (p *pointer) press(x, y float64, now time.Time) {
	if id, ok := p.layout.HitToggle(x, y); ok {
		p.ctrl.Toggle(id)
		p.lastKnob = ""
		return
	}
	id, ok := p.layout.HitKnob(x, y)
	if !ok {
		p.lastKnob = ""
		return
	}
	if id == p.lastKnob && now.Sub(p.lastPress) <= DoubleClick {
		p.ctrl.Reset(id)
		p.lastKnob = ""
		return
	}
	p.lastKnob, p.lastPress = id, now
	p.dragging = true
	p.ctrl.PointerDown(id, y)
}

// move forwards the cursor while a drag is active.
func (p *pointer) move(y float64, precision bool) {
	if p.dragging {
		p.ctrl.PointerMove(y, precision)
	}
}

// release ends a drag.
func (p *pointer) release() {
	if p.dragging {
		p.dragging = false
		p.ctrl.PointerUp()
	}
}
