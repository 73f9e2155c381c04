// Package bridge defines the Patch Bridge: the narrow interface between the
// control surface and an audio engine.
package bridge

import (
	"math"
	"sync"
)

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uint64

// ParameterEvent reports a parameter's current value. Value is a float64
// for continuous parameters and a bool for toggles.
type ParameterEvent struct {
	EndpointID string `json:"endpointID"`
	Value      any    `json:"value"`
}

// ParameterListener receives every parameter change.
type ParameterListener func(ParameterEvent)

// EndpointListener receives values from one named stream.
type EndpointListener func(value any)

// Connection is what the surface needs from an engine.
type Connection interface {
	// RequestParameterValue asks for one asynchronous delivery of name's
	// current value to the all-parameter listeners.
	RequestParameterValue(name string)
	// SendEventOrValue writes a value. It must not block.
	SendEventOrValue(name string, value any)

	AddAllParameterListener(fn ParameterListener) ListenerID
	RemoveAllParameterListener(id ListenerID)
	AddEndpointListener(endpoint string, fn EndpointListener) ListenerID
	RemoveEndpointListener(endpoint string, id ListenerID)
}

// Hub is a listener registry. Engines embed it to satisfy the listener half
// of Connection and call Emit* to deliver events.
type Hub struct {
	mu        sync.RWMutex
	next      ListenerID
	params    map[ListenerID]ParameterListener
	endpoints map[string]map[ListenerID]EndpointListener
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{
		params:    make(map[ListenerID]ParameterListener),
		endpoints: make(map[string]map[ListenerID]EndpointListener),
	}
}

// AddAllParameterListener registers fn for every parameter event.
func (h *Hub) AddAllParameterListener(fn ParameterListener) ListenerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.params[h.next] = fn
	return h.next
}

// RemoveAllParameterListener unregisters a parameter listener. Unknown ids are ignored.
func (h *Hub) RemoveAllParameterListener(id ListenerID) {
	h.mu.Lock()
	delete(h.params, id)
	h.mu.Unlock()
}

// AddEndpointListener registers fn for values on endpoint.
func (h *Hub) AddEndpointListener(endpoint string, fn EndpointListener) ListenerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	m, ok := h.endpoints[endpoint]
	if !ok {
		m = make(map[ListenerID]EndpointListener)
		h.endpoints[endpoint] = m
	}
	m[h.next] = fn
	return h.next
}

// RemoveEndpointListener unregisters an endpoint listener. Unknown ids are ignored.
func (h *Hub) RemoveEndpointListener(endpoint string, id ListenerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.endpoints[endpoint]
	if !ok {
		return
	}
	delete(m, id)
	if len(m) == 0 {
		delete(h.endpoints, endpoint)
	}
}

// ListenerCount returns the number of registered listeners of both kinds.
func (h *Hub) ListenerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.params)
	for _, m := range h.endpoints {
		n += len(m)
	}
	return n
}

// EmitParameter delivers a parameter event to every parameter listener.
// Listeners run on the caller's goroutine, outside the registry lock.
func (h *Hub) EmitParameter(name string, value any) {
	h.mu.RLock()
	fns := make([]ParameterListener, 0, len(h.params))
	for _, fn := range h.params {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	ev := ParameterEvent{EndpointID: name, Value: value}
	for _, fn := range fns {
		fn(ev)
	}
}

// EmitEndpoint delivers value to the listeners of endpoint.
func (h *Hub) EmitEndpoint(endpoint string, value any) {
	h.mu.RLock()
	m := h.endpoints[endpoint]
	fns := make([]EndpointListener, 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(value)
	}
}

// Float extracts a finite numeric value. JSON numbers, Go integer and float
// kinds are accepted; NaN and infinities are not.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Bool extracts a boolean value. Numbers are true when non-zero.
func Bool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if f, ok := Float(v); ok {
		return f != 0, true
	}
	return false, false
}
