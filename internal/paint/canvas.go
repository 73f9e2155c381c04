package paint

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type point struct{ x, y float64 }

// canvas draws anti-aliased shapes onto an RGBA image. Each shape is
// rasterized inside its own bounding box so the rasterizer stays small.
type canvas struct {
	dst  *image.RGBA
	z    vector.Rasterizer
	face font.Face
}

func newCanvas(dst *image.RGBA) *canvas {
	return &canvas{dst: dst, face: basicfont.Face7x13}
}

// polygon fills the closed polygon pts.
func (c *canvas) polygon(col color.Color, pts []point) {
	if len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	clip := box.Intersect(c.dst.Bounds())
	if clip.Empty() {
		return
	}

	// the rasterizer covers only the visible part; it clips the rest
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	c.z.Reset(clip.Dx(), clip.Dy())
	c.z.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	c.z.ClosePath()
	c.z.Draw(c.dst, clip, image.NewUniform(col), image.Point{})
}

// rect fills r with col, blending when col is translucent.
func (c *canvas) rect(col color.Color, r Rect) {
	draw.Draw(c.dst, r.Image(), image.NewUniform(col), image.Point{}, draw.Over)
}

// circle fills a disc of radius r.
func (c *canvas) circle(col color.Color, cx, cy, r float64) {
	c.polygon(col, arcPoints(cx, cy, r, 0, 2*math.Pi))
}

// ring strokes the arc between angles a0 and a1 (radians, clockwise from
// twelve o'clock) with the given thickness centred on radius r.
func (c *canvas) ring(col color.Color, cx, cy, r, thick, a0, a1 float64) {
	if a1 <= a0 {
		return
	}
	outer := arcPoints(cx, cy, r+thick/2, a0, a1)
	inner := arcPoints(cx, cy, r-thick/2, a0, a1)
	for i := len(inner) - 1; i >= 0; i-- {
		outer = append(outer, inner[i])
	}
	c.polygon(col, outer)
}

// line strokes a segment of the given width.
func (c *canvas) line(col color.Color, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	// unit normal scaled to half the width
	nx, ny := -dy/n*width/2, dx/n*width/2
	c.polygon(col, []point{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	})
}

// dashed strokes a segment using an on/off dash pattern.
func (c *canvas) dashed(col color.Color, x0, y0, x1, y1, width float64, dash []float64) {
	total := math.Hypot(x1-x0, y1-y0)
	if total == 0 || len(dash) == 0 {
		c.line(col, x0, y0, x1, y1, width)
		return
	}
	ux, uy := (x1-x0)/total, (y1-y0)/total
	pos, i, on := 0.0, 0, true
	for pos < total {
		seg := dash[i%len(dash)]
		if seg <= 0 {
			seg = 1
		}
		end := math.Min(pos+seg, total)
		if on {
			c.line(col, x0+ux*pos, y0+uy*pos, x0+ux*end, y0+uy*end, width)
		}
		pos, i, on = end, i+1, !on
	}
}

// Text alignment relative to the anchor x.
const (
	alignLeft = iota
	alignCenter
	alignRight
)

// text draws s with its baseline at y.
func (c *canvas) text(col color.Color, s string, x, y float64, align int) {
	w := font.MeasureString(c.face, s)
	switch align {
	case alignCenter:
		x -= float64(w.Round()) / 2
	case alignRight:
		x -= float64(w.Round())
	}
	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(s)
}

// arcPoints samples the arc from a0 to a1. Angles are clockwise from twelve
// o'clock, matching knob angles.
func arcPoints(cx, cy, r, a0, a1 float64) []point {
	n := int(math.Ceil((a1 - a0) / (2 * math.Pi) * math.Max(24, r*1.5)))
	if n < 2 {
		n = 2
	}
	pts := make([]point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, point{cx + r*math.Sin(a), cy - r*math.Cos(a)})
	}
	return pts
}

// radians converts a knob angle in degrees.
func radians(deg float64) float64 { return deg * math.Pi / 180 }
