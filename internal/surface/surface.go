// Package surface is the compressor control surface: knobs, LED meters,
// peak/decay ballistics and the waveform history, driven one frame at a time
// and synchronised with an engine over the Patch Bridge.
package surface

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/uppercomp/internal/bridge"
)

// MaxFPS bounds the frame rate so the tick interval stays positive.
const MaxFPS = 1000

// Surface runs a Model on its own goroutine. Gestures and bridge events are
// posted to that goroutine; a ticker steps the model and publishes frames.
type Surface struct {
	conn     bridge.Connection
	settings Settings
	log      *zap.Logger
	publish  func(Frame)

	model  *Model
	latest atomic.Pointer[Frame]

	mu  sync.Mutex
	cur *run
}

// run is the state of one Start..Stop cycle.
type run struct {
	ops    chan func(*Model)
	cancel context.CancelFunc
	done   chan struct{}

	paramID   bridge.ListenerID
	endpoints map[string]bridge.ListenerID
}

// New creates a stopped surface. publish, if non-nil, receives every frame
// on the surface goroutine and must not block.
func New(conn bridge.Connection, settings Settings, log *zap.Logger, publish func(Frame)) *Surface {
	if log == nil {
		log = zap.NewNop()
	}
	switch {
	case settings.FPS <= 0:
		settings.FPS = 60
	case settings.FPS > MaxFPS:
		settings.FPS = MaxFPS
	}
	s := &Surface{
		conn:     conn,
		settings: settings,
		log:      log.Named("surface"),
		publish:  publish,
		model:    NewModel(settings, conn),
	}
	f := s.model.Snapshot()
	s.latest.Store(&f)
	return s
}

// Streams lists the endpoints the surface listens to.
func Streams() []string {
	out := []string{StreamGainReduction, StreamInputMeter, StreamOutputMeter, StreamPostSatMeter}
	for _, t := range Toggles {
		out = append(out, string(t.ID))
	}
	return out
}

// Start subscribes to the bridge, requests every parameter's current value
// and launches the frame loop. Starting a running surface is a no-op.
func (s *Surface) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &run{
		ops:       make(chan func(*Model), 256),
		cancel:    cancel,
		done:      make(chan struct{}),
		endpoints: make(map[string]bridge.ListenerID),
	}

	r.paramID = s.conn.AddAllParameterListener(func(ev bridge.ParameterEvent) {
		r.post(func(m *Model) { m.HandleParameter(ev) })
	})
	for _, stream := range Streams() {
		stream := stream
		r.endpoints[stream] = s.conn.AddEndpointListener(stream, func(v any) {
			r.post(func(m *Model) { m.HandleEndpoint(stream, v) })
		})
	}

	s.cur = r
	go s.loop(ctx, r)

	for _, k := range Knobs {
		s.conn.RequestParameterValue(string(k.ID))
	}
	for _, t := range Toggles {
		s.conn.RequestParameterValue(string(t.ID))
	}
	s.log.Info("Surface started", zap.Int("fps", s.settings.FPS), zap.Int("listeners", 1+len(r.endpoints)))
}

// Stop ends the frame loop, waits for it and removes every listener Start
// registered. Stopping a stopped surface is a no-op.
func (s *Surface) Stop() {
	s.mu.Lock()
	r := s.cur
	s.cur = nil
	s.mu.Unlock()
	if r == nil {
		return
	}

	r.cancel()
	<-r.done

	s.conn.RemoveAllParameterListener(r.paramID)
	for stream, id := range r.endpoints {
		s.conn.RemoveEndpointListener(stream, id)
	}
	s.log.Info("Surface stopped")
}

// Running reports whether the frame loop is active.
func (s *Surface) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil
}

// Latest returns the most recently published frame.
func (s *Surface) Latest() Frame {
	return *s.latest.Load()
}

// PointerDown starts a drag on knob id.
func (s *Surface) PointerDown(id ParamID, y float64) {
	s.do(func(m *Model) { m.PointerDown(id, y) })
}

// PointerMove feeds a pointer position to the dragging knob.
func (s *Surface) PointerMove(y float64, precision bool) {
	s.do(func(m *Model) { m.PointerMove(y, precision) })
}

// PointerUp ends any drag.
func (s *Surface) PointerUp() {
	s.do(func(m *Model) { m.PointerUp() })
}

// Reset restores knob id to its default.
func (s *Surface) Reset(id ParamID) {
	s.do(func(m *Model) { m.Reset(id) })
}

// Toggle flips toggle id.
func (s *Surface) Toggle(id ParamID) {
	s.do(func(m *Model) { m.FlipToggle(id) })
}

// Apply validates g and posts it to the frame loop.
func (s *Surface) Apply(g Gesture) error {
	if err := Validate(g); err != nil {
		return err
	}
	s.do(func(m *Model) { m.Apply(g) })
	return nil
}

// Validate checks g against the parameter catalogue without touching state.
func Validate(g Gesture) error {
	switch g.Type {
	case GesturePointerMove, GesturePointerUp:
		return nil
	case GesturePointerDown, GestureReset:
		if _, ok := LookupKnob(g.Param); !ok {
			return fmt.Errorf("%s: %w: %q", g.Type, ErrUnknownParam, g.Param)
		}
		return nil
	case GestureToggle:
		if !IsToggle(g.Param) {
			return fmt.Errorf("%s: %w: %q", g.Type, ErrUnknownParam, g.Param)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownGesture, g.Type)
}

// do posts fn to the running loop. Calls on a stopped surface are dropped.
func (s *Surface) do(fn func(*Model)) {
	s.mu.Lock()
	r := s.cur
	s.mu.Unlock()
	if r == nil {
		return
	}
	r.post(fn)
}

func (r *run) post(fn func(*Model)) {
	select {
	case r.ops <- fn:
	case <-r.done:
	}
}

func (s *Surface) loop(ctx context.Context, r *run) {
	defer close(r.done)

	ticker := time.NewTicker(time.Second / time.Duration(s.settings.FPS))
	defer ticker.Stop()

	wasStale := false
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-r.ops:
			fn(s.model)
		case <-ticker.C:
			s.model.Step()
			stale := s.model.Stale()
			switch {
			case stale && !wasStale:
				s.log.Warn("No meter events from engine", zap.Duration("after", s.settings.StaleAfter))
			case !stale && wasStale:
				s.log.Info("Meter events resumed")
			}
			wasStale = stale

			f := s.model.Snapshot()
			s.latest.Store(&f)
			if s.publish != nil {
				s.publish(f)
			}
		}
	}
}
