package surface

import (
	"errors"
	"fmt"
)

// GestureType names a viewer input message.
type GestureType string

const (
	GesturePointerDown GestureType = "pointerDown"
	GesturePointerMove GestureType = "pointerMove"
	GesturePointerUp   GestureType = "pointerUp"
	GestureReset       GestureType = "reset"
	GestureToggle      GestureType = "toggle"
)

// Gesture is one input event from a viewer, in screen coordinates.
type Gesture struct {
	Type      GestureType `json:"type"`
	Param     ParamID     `json:"param,omitempty"`
	Y         float64     `json:"y,omitempty"`
	Precision bool        `json:"precision,omitempty"`
}

var (
	ErrUnknownGesture = errors.New("unknown gesture")
	ErrUnknownParam   = errors.New("unknown parameter")
)

// Apply routes g to the matching model operation.
func (m *Model) Apply(g Gesture) error {
	ok := true
	switch g.Type {
	case GesturePointerDown:
		ok = m.PointerDown(g.Param, g.Y)
	case GesturePointerMove:
		m.PointerMove(g.Y, g.Precision)
	case GesturePointerUp:
		m.PointerUp()
	case GestureReset:
		ok = m.Reset(g.Param)
	case GestureToggle:
		ok = m.FlipToggle(g.Param)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGesture, g.Type)
	}
	if !ok {
		return fmt.Errorf("%s: %w: %q", g.Type, ErrUnknownParam, g.Param)
	}
	return nil
}
