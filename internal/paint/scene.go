package paint

import (
	"image"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

// RenderScene rasterizes a display list into a new image of the scene's size.
func RenderScene(sc surface.Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(sc.W+0.5), int(sc.H+0.5)))
	drawScene(newCanvas(img), sc, 0, 0)
	return img
}

// drawScene replays sc with its origin at (ox, oy).
func drawScene(c *canvas, sc surface.Scene, ox, oy float64) {
	for _, op := range sc.Ops {
		switch op.Kind {
		case surface.OpFillRect:
			c.rect(op.Color, Rect{ox + op.X0, oy + op.Y0, ox + op.X1, oy + op.Y1})
		case surface.OpLine:
			w := op.Width
			if w <= 0 {
				w = 1
			}
			if len(op.Dash) > 0 {
				c.dashed(op.Color, ox+op.X0, oy+op.Y0, ox+op.X1, oy+op.Y1, w, op.Dash)
			} else {
				c.line(op.Color, ox+op.X0, oy+op.Y0, ox+op.X1, oy+op.Y1, w)
			}
		case surface.OpText:
			align := alignLeft
			if op.Align == surface.AlignRight {
				align = alignRight
			}
			c.text(op.Color, op.Text, ox+op.X0, oy+op.Y0, align)
		}
	}
}
