package stream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

const (
	wsReadLimit    = 4096
	wsWriteTimeout = 2 * time.Second
)

// ControlHandler serves the viewer protocol over WebSocket: every published
// frame is written as JSON text, and text messages from the viewer are
// applied as gestures.
type ControlHandler struct {
	surface Surface
	frames  *Broadcaster[surface.Frame]
	log     *zap.Logger

	// OriginPatterns is passed to websocket.AcceptOptions.
	OriginPatterns []string
}

// NewControlHandler creates a WebSocket control handler.
func NewControlHandler(s Surface, frames *Broadcaster[surface.Frame], log *zap.Logger) *ControlHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ControlHandler{surface: s, frames: frames, log: log.Named("ws")}
}

func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.OriginPatterns})
	if err != nil {
		h.log.Warn("Accept failed", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}
	conn.SetReadLimit(wsReadLimit)

	listener := h.frames.Subscribe()
	defer h.frames.Unsubscribe(listener)

	h.log.Info("Viewer connected", zap.String("remote", r.RemoteAddr), zap.Int("viewers", h.frames.ListenerCount()))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		if err := h.writeLoop(ctx, conn, listener); err != nil && ctx.Err() == nil {
			h.log.Warn("Write loop ended", zap.Error(err))
		}
	}()

	err = h.readLoop(ctx, conn)
	switch {
	case err == nil:
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		h.log.Warn("Read loop ended", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "read failed")
	}
	h.log.Info("Viewer disconnected", zap.String("remote", r.RemoteAddr))
}

func (h *ControlHandler) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		typ, payload, err := conn.Read(ctx)
		if err != nil {
			return closeError(err)
		}
		if typ != websocket.MessageText {
			h.log.Debug("Ignoring binary message")
			continue
		}
		if g, err := Dispatch(h.surface, payload); err != nil {
			h.log.Warn("Dropped viewer message", zap.String("type", string(g.Type)), zap.Error(err))
		}
	}
}

func (h *ControlHandler) writeLoop(ctx context.Context, conn *websocket.Conn, l *Listener[surface.Frame]) error {
	if err := h.write(ctx, conn, h.surface.Latest()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.Done():
			return nil
		case f := <-l.C:
			if err := h.write(ctx, conn, f); err != nil {
				return err
			}
		}
	}
}

func (h *ControlHandler) write(ctx context.Context, conn *websocket.Conn, f surface.Frame) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, f)
}

// closeError maps an orderly close or cancellation to nil.
func closeError(err error) error {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
