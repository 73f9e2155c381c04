// Package desktop shows the control surface in a native window.
package desktop

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/satindergrewal/uppercomp/internal/paint"
)

// Window is an ebiten game that paints the latest frame and feeds mouse
// input back to the surface.
type Window struct {
	ctx     context.Context
	ctrl    Controller
	painter *paint.Painter
	input   pointer

	w, h   int
	canvas *image.RGBA
	screen *ebiten.Image
}

// NewWindow creates a window drawing at the given scale. The game ends when
// ctx is cancelled or the window is closed.
func NewWindow(ctx context.Context, ctrl Controller, scale float64) *Window {
	p := paint.NewPainter(scale)
	w, h := p.Layout().Size()
	return &Window{
		ctx:     ctx,
		ctrl:    ctrl,
		painter: p,
		input:   pointer{ctrl: ctrl, layout: p.Layout()},
		w:       w,
		h:       h,
		canvas:  image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Run opens the window and blocks until it closes.
func (win *Window) Run(title string) error {
	ebiten.SetWindowSize(win.w, win.h)
	ebiten.SetWindowTitle(title)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(win); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (win *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || win.ctx.Err() != nil {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		win.input.press(x, y, time.Now())
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		win.input.release()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		win.input.move(y, shift)
	}
	return nil
}

func (win *Window) Draw(screen *ebiten.Image) {
	if win.screen == nil {
		win.screen = ebiten.NewImage(win.w, win.h)
	}
	win.painter.RenderInto(win.canvas, win.ctrl.Latest())
	win.screen.WritePixels(win.canvas.Pix)
	screen.DrawImage(win.screen, nil)
}

func (win *Window) Layout(_, _ int) (int, int) {
	return win.w, win.h
}
