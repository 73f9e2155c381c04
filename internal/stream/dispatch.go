// Package stream serves the control surface to remote viewers: frames go out
// as JSON over WebSocket or a WebRTC data channel, gestures come back the same
// way, and the engine's output is available as a monitor feed.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

// Surface is the part of the control surface a viewer talks to.
// *surface.Surface satisfies it.
type Surface interface {
	Latest() surface.Frame
	Apply(g surface.Gesture) error
}

// Dispatch decodes one viewer message and applies it to s.
func Dispatch(s Surface, payload []byte) (surface.Gesture, error) {
	var g surface.Gesture
	if err := json.Unmarshal(payload, &g); err != nil {
		return g, fmt.Errorf("decode gesture: %w", err)
	}
	if err := s.Apply(g); err != nil {
		return g, fmt.Errorf("apply gesture: %w", err)
	}
	return g, nil
}
