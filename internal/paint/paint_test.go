package paint

import (
	"image"
	"image/color"
	"testing"

	"github.com/satindergrewal/uppercomp/internal/bridge"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

// near compares colors allowing for anti-aliasing rounding.
func near(t *testing.T, what string, got color.RGBA, want color.Color) {
	t.Helper()
	r, g, b, _ := want.RGBA()
	w := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	if d(got.R, w.R) > 2 || d(got.G, w.G) > 2 || d(got.B, w.B) > 2 {
		t.Errorf("%s = %v, want %v", what, got, w)
	}
}

func liveFrame() surface.Frame {
	m := surface.NewModel(surface.DefaultSettings(), nil)
	m.HandleEndpoint(surface.StreamInputMeter, 6.0)
	m.HandleEndpoint(surface.StreamPostSatMeter, 9.0)
	m.HandleParameter(bridge.ParameterEvent{EndpointID: string(surface.EnableLookahead), Value: true})
	m.Step()
	return m.Snapshot()
}

// --- Layout ---

func TestLayoutSize(t *testing.T) {
	if w, h := NewLayout(1).Size(); w != 900 || h != 440 {
		t.Errorf("Size = %dx%d, want 900x440", w, h)
	}
	if w, h := NewLayout(2).Size(); w != 1800 || h != 880 {
		t.Errorf("Size(2x) = %dx%d, want 1800x880", w, h)
	}
	if got := NewLayout(0).Scale; got != 1 {
		t.Errorf("Scale = %v, want 1", got)
	}
}

func TestLayoutKnobs(t *testing.T) {
	l := NewLayout(1)
	if len(l.Knobs) != len(surface.Knobs) {
		t.Fatalf("knob boxes = %d, want %d", len(l.Knobs), len(surface.Knobs))
	}
	k, _ := l.Knob(surface.Ratio)
	if k.CX != 405 || k.CY != 112.5 {
		t.Errorf("ratio centre = (%v, %v), want (405, 112.5)", k.CX, k.CY)
	}
	mix, _ := l.Knob(surface.CompMix)
	if mix.CX != 75 || mix.CY != 362.5 {
		t.Errorf("comp mix centre = (%v, %v), want (75, 362.5)", mix.CX, mix.CY)
	}
	big, _ := NewLayout(2).Knob(surface.Drive)
	if big.CX != 150 || big.CY != 225 || big.R != 60 {
		t.Errorf("2x drive = %+v", big)
	}
}

func TestHitTesting(t *testing.T) {
	l := NewLayout(1)
	for _, k := range l.Knobs {
		if id, ok := l.HitKnob(k.CX, k.CY); !ok || id != k.ID {
			t.Errorf("HitKnob(centre of %s) = %q, %v", k.ID, id, ok)
		}
	}
	if id, ok := l.HitKnob(5, 5); ok {
		t.Errorf("HitKnob(5,5) = %q, want miss", id)
	}
	if id, ok := l.HitToggle(150, 330); !ok || id != surface.EnableLookahead {
		t.Errorf("HitToggle(150,330) = %q, %v, want %s", id, ok, surface.EnableLookahead)
	}
	if id, ok := l.HitToggle(150, 375); !ok || id != surface.SidechainFilter {
		t.Errorf("HitToggle(150,375) = %q, %v, want %s", id, ok, surface.SidechainFilter)
	}
	if _, ok := l.HitToggle(75, 362); ok {
		t.Error("comp mix knob should not hit a toggle")
	}
}

// --- Render ---

func TestRenderFaceplate(t *testing.T) {
	p := NewPainter(1)
	img := p.Render(liveFrame())
	if img.Bounds() != image.Rect(0, 0, 900, 440) {
		t.Fatalf("Bounds = %v", img.Bounds())
	}
	l := p.Layout()

	near(t, "background", img.RGBAAt(1, 1), Background)
	near(t, "saturation LED", img.RGBAAt(int(l.LEDX), int(l.LEDY)), surface.RedColor)

	in := l.Meters[0]
	x, y := l.dotCenter(in, surface.DotCount-1, surface.DotCount)
	near(t, "top input dot", img.RGBAAt(int(x), int(y)), surface.RedColor)
	x, y = l.dotCenter(in, 0, surface.DotCount)
	near(t, "bottom input dot", img.RGBAAt(int(x), int(y)), surface.GreenColor)

	out := l.Meters[2]
	x, y = l.dotCenter(out, 0, surface.DotCount)
	near(t, "idle output dot", img.RGBAAt(int(x), int(y)), surface.OffColor)

	on, off := l.Toggles[0].Rect, l.Toggles[1].Rect
	near(t, "lookahead toggle", img.RGBAAt(int(on.X0)+3, int(on.Y0)+3), surface.GreenColor)
	near(t, "sidechain toggle", img.RGBAAt(int(off.X0)+3, int(off.Y0)+3), surface.OffColor)
}

func TestRenderLEDOff(t *testing.T) {
	p := NewPainter(1)
	f := liveFrame()
	f.SaturationLED = false
	img := p.Render(f)
	l := p.Layout()
	near(t, "LED", img.RGBAAt(int(l.LEDX), int(l.LEDY)), surface.OffColor)
}

func TestRenderStaleBanner(t *testing.T) {
	p := NewPainter(1)
	f := liveFrame()

	count := func(img *image.RGBA) int {
		n := 0
		for y := 15; y < 34; y++ {
			for x := 600; x < 890; x++ {
				if img.RGBAAt(x, y) == (color.RGBA{255, 82, 82, 255}) {
					n++
				}
			}
		}
		return n
	}
	if n := count(p.Render(f)); n != 0 {
		t.Errorf("healthy frame has %d banner pixels", n)
	}
	f.Stale = true
	if n := count(p.Render(f)); n == 0 {
		t.Error("stale frame should draw the banner")
	}
}

// --- Waveform ---

func TestRenderScene(t *testing.T) {
	samples := []surface.Sample{{InputLevel: 0}}
	img := RenderScene(surface.WaveformScene(samples, 30, -28, 300, 144))
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 144 {
		t.Fatalf("Bounds = %v, want 300x144", img.Bounds())
	}
	near(t, "background", img.RGBAAt(2, 20), color.RGBA{0x1a, 0x1a, 0x1a, 0xff})
	near(t, "bar", img.RGBAAt(4, 100), surface.GreenColor)
	near(t, "empty column", img.RGBAAt(30, 100), color.RGBA{0x1a, 0x1a, 0x1a, 0xff})
}

func TestDashedLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 5))
	c := newCanvas(img)
	c.dashed(color.RGBA{255, 255, 255, 255}, 0, 2.5, 40, 2.5, 3, []float64{5, 3})

	// 0-5 on, 5-8 off, 8-13 on
	near(t, "dash", img.RGBAAt(2, 2), color.White)
	if a := img.RGBAAt(6, 2).A; a != 0 {
		t.Errorf("gap alpha = %d, want 0", a)
	}
	near(t, "second dash", img.RGBAAt(10, 2), color.White)
}
