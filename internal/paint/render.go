package paint

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

// Faceplate palette.
var (
	Background  = color.RGBA{0x22, 0x22, 0x22, 0xff}
	panelColor  = color.RGBA{0x2a, 0x2a, 0x2a, 0xff}
	trackColor  = color.RGBA{0x44, 0x44, 0x44, 0xff}
	labelColor  = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	dimColor    = color.RGBA{0x88, 0x88, 0x88, 0xff}
	pointerCol  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	dragRing    = color.NRGBA{0xff, 0xff, 0xff, 0x40}
	glowColor   = color.NRGBA{0xff, 0xff, 0xff, 0x30}
	staleColor  = surface.RedColor
	accentColor = surface.GreenColor
)

// Painter renders frames for one layout.
type Painter struct {
	layout Layout
}

// NewPainter creates a painter at the given scale.
func NewPainter(scale float64) *Painter {
	return &Painter{layout: NewLayout(scale)}
}

// Layout returns the geometry the painter draws with.
func (p *Painter) Layout() Layout { return p.layout }

// Render draws f into a new image the size of the faceplate.
func (p *Painter) Render(f surface.Frame) *image.RGBA {
	w, h := p.layout.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p.RenderInto(img, f)
	return img
}

// RenderInto draws f over dst, which must be at least the faceplate size.
func (p *Painter) RenderInto(dst *image.RGBA, f surface.Frame) {
	l := p.layout
	c := newCanvas(dst)
	c.rect(Background, Rect{0, 0, l.W, l.H})

	c.text(labelColor, "UPPERCOMP", l.Scale*edgeMargin, l.Scale*headerBase, alignLeft)
	if f.Stale {
		c.text(staleColor, "ENGINE NOT RESPONDING", l.W-l.Scale*edgeMargin, l.Scale*headerBase, alignRight)
	}

	for _, k := range f.Knobs {
		if box, ok := l.Knob(k.ID); ok {
			p.knob(c, box, k)
		}
	}
	p.led(c, f.SaturationLED)
	for _, t := range f.Toggles {
		for _, box := range l.Toggles {
			if box.ID == t.ID {
				p.toggle(c, box, t)
			}
		}
	}
	for _, m := range f.Meters {
		for _, box := range l.Meters {
			if box.ID == m.ID {
				p.meter(c, box, m)
			}
		}
	}

	wf := f.Waveform
	sc := surface.WaveformScene(wf.Samples, wf.Capacity, wf.ThresholdDB, l.Waveform.Dx(), l.Waveform.Dy())
	drawScene(c, sc, l.Waveform.X0, l.Waveform.Y0)
}

func (p *Painter) knob(c *canvas, b KnobBox, k surface.KnobFrame) {
	s := p.layout.Scale
	start, end := radians(-135), radians(135)

	if k.Dragging {
		c.circle(dragRing, b.CX, b.CY, b.R+6*s)
	}
	c.circle(panelColor, b.CX, b.CY, b.R)
	c.ring(trackColor, b.CX, b.CY, b.R-3*s, 4*s, start, end)
	c.ring(accentColor, b.CX, b.CY, b.R-3*s, 4*s, start, radians(k.Angle))

	a := radians(k.Angle)
	sin, cos := math.Sincos(a)
	c.line(pointerCol, b.CX+sin*b.R*0.2, b.CY-cos*b.R*0.2, b.CX+sin*b.R*0.7, b.CY-cos*b.R*0.7, 3*s)

	c.text(labelColor, k.Label, b.CX, b.CY-b.R-labelGap*s, alignCenter)
	c.text(dimColor, k.Display, b.CX, b.CY+b.R+readoutDrop*s, alignCenter)
}

func (p *Painter) led(c *canvas, on bool) {
	l := p.layout
	if l.LEDR == 0 {
		return
	}
	col := color.Color(surface.OffColor)
	if on {
		col = surface.RedColor
		c.circle(glowColor, l.LEDX, l.LEDY, l.LEDR*1.8)
	}
	c.circle(col, l.LEDX, l.LEDY, l.LEDR)
}

func (p *Painter) toggle(c *canvas, b ToggleBox, t surface.ToggleFrame) {
	fill := color.Color(surface.OffColor)
	text := color.Color(labelColor)
	if t.On {
		fill = accentColor
		text = color.RGBA{0x11, 0x11, 0x11, 0xff}
	}
	c.rect(fill, b.Rect)
	cy := (b.Rect.Y0+b.Rect.Y1)/2 + 4
	c.text(text, t.Label, (b.Rect.X0+b.Rect.X1)/2, cy, alignCenter)
}

func (p *Painter) meter(c *canvas, b MeterBox, m surface.MeterFrame) {
	s := p.layout.Scale
	c.text(labelColor, m.Label, b.Rect.X0, b.Rect.Y0+13*s, alignLeft)
	c.text(labelColor, m.Readout, b.Rect.X1, b.Rect.Y0+13*s, alignRight)

	r := dotR * s
	for i, d := range m.Dots {
		x, y := p.layout.dotCenter(b, i, len(m.Dots))
		if d.Glow {
			c.circle(glowColor, x, y, r*1.8)
		}
		c.circle(d.Color, x, y, r)
	}
	for _, mk := range m.Markers {
		if mk.Index < 0 || mk.Index >= len(m.Dots) {
			continue
		}
		x, _ := p.layout.dotCenter(b, mk.Index, len(m.Dots))
		c.text(dimColor, strings.TrimSuffix(mk.Label, " dB"), x, b.Rect.Y0+52*s, alignCenter)
	}
}
