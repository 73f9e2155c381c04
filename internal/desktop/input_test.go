package desktop

import (
	"fmt"
	"testing"
	"time"

	"github.com/satindergrewal/uppercomp/internal/paint"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

// fakeController records calls as strings.
type fakeController struct {
	calls []string
}

func (f *fakeController) Latest() surface.Frame { return surface.Frame{} }
func (f *fakeController) PointerDown(id surface.ParamID, y float64) {
	f.calls = append(f.calls, fmt.Sprintf("down %s %.0f", id, y))
}
func (f *fakeController) PointerMove(y float64, precision bool) {
	f.calls = append(f.calls, fmt.Sprintf("move %.0f %v", y, precision))
}
func (f *fakeController) PointerUp()               { f.calls = append(f.calls, "up") }
func (f *fakeController) Reset(id surface.ParamID) { f.calls = append(f.calls, "reset "+string(id)) }
func (f *fakeController) Toggle(id surface.ParamID) {
	f.calls = append(f.calls, "toggle "+string(id))
}

func newPointer() (*pointer, *fakeController, paint.Layout) {
	fc := &fakeController{}
	l := paint.NewLayout(1)
	return &pointer{ctrl: fc, layout: l}, fc, l
}

func expectCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDragKnob(t *testing.T) {
	p, fc, l := newPointer()
	k, _ := l.Knob(surface.Ratio)
	now := time.Unix(100, 0)

	p.press(k.CX, k.CY, now)
	p.move(k.CY-40, false)
	p.move(k.CY-45, true)
	p.release()
	p.move(k.CY, false)
	p.release()

	expectCalls(t, fc.calls,
		fmt.Sprintf("down ratioIn %.0f", k.CY),
		fmt.Sprintf("move %.0f false", k.CY-40),
		fmt.Sprintf("move %.0f true", k.CY-45),
		"up",
	)
}

func TestDoubleClickResets(t *testing.T) {
	p, fc, l := newPointer()
	k, _ := l.Knob(surface.Ratio)
	now := time.Unix(100, 0)

	p.press(k.CX, k.CY, now)
	p.release()
	p.press(k.CX, k.CY, now.Add(200*time.Millisecond))
	p.release()

	expectCalls(t, fc.calls, fmt.Sprintf("down ratioIn %.0f", k.CY), "up", "reset ratioIn")
}

func TestSlowClicksDrag(t *testing.T) {
	p, fc, l := newPointer()
	k, _ := l.Knob(surface.AttackMs)
	now := time.Unix(100, 0)

	p.press(k.CX, k.CY, now)
	p.release()
	p.press(k.CX, k.CY, now.Add(DoubleClick+time.Millisecond))
	p.release()

	down := fmt.Sprintf("down attackMsIn %.0f", k.CY)
	expectCalls(t, fc.calls, down, "up", down, "up")
}

func TestDoubleClickNeedsSameKnob(t *testing.T) {
	p, fc, l := newPointer()
	a, _ := l.Knob(surface.Drive)
	b, _ := l.Knob(surface.SatMix)
	now := time.Unix(100, 0)

	p.press(a.CX, a.CY, now)
	p.release()
	p.press(b.CX, b.CY, now.Add(100*time.Millisecond))

	if len(fc.calls) != 3 || fc.calls[2] != fmt.Sprintf("down satMixIn %.0f", b.CY) {
		t.Errorf("calls = %q", fc.calls)
	}
}

func TestToggleClick(t *testing.T) {
	p, fc, l := newPointer()
	r := l.Toggles[1].Rect
	p.press(r.X0+5, r.Y0+5, time.Unix(100, 0))
	p.move(0, false)
	p.release()
	expectCalls(t, fc.calls, "toggle "+string(surface.SidechainFilter))
}

func TestPressOnEmptySpace(t *testing.T) {
	p, fc, _ := newPointer()
	p.press(2, 2, time.Unix(100, 0))
	p.move(10, false)
	p.release()
	if len(fc.calls) != 0 {
		t.Errorf("calls = %q, want none", fc.calls)
	}
}
