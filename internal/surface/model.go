package surface

import (
	"time"

	"github.com/satindergrewal/uppercomp/internal/bridge"
)

// Settings are the tunable constants of the surface. The silence floor and the
// output offset are empirical values carried over from the plugin's faceplate.
type Settings struct {
	FPS            int
	DecayDB        float64       // peak fall per frame
	SilenceDB      float64       // input below this forces gain reduction to zero
	OutputOffsetDB float64       // added to the engine's output meter
	SatLEDDB       float64       // postSat level that lights the saturation LED
	HistoryLen     int           // waveform samples kept
	HistoryEvery   int           // frames between waveform samples
	StaleAfter     time.Duration // no meter events for this long marks the frame stale; 0 disables
}

// DefaultSettings returns the faceplate's stock tuning.
func DefaultSettings() Settings {
	return Settings{
		FPS:            60,
		DecayDB:        DefaultDecayDB,
		SilenceDB:      DefaultSilence,
		OutputOffsetDB: DefaultOutputDB,
		SatLEDDB:       DefaultSatLEDDB,
		HistoryLen:     DefaultHistory,
		HistoryEvery:   1,
		StaleAfter:     2 * time.Second,
	}
}

// Sender is the outbound half of the bridge.
type Sender interface {
	SendEventOrValue(name string, value any)
}

// Model is the surface's whole state. It is not safe for concurrent use;
// Surface confines it to one goroutine.
type Model struct {
	settings Settings
	out      Sender
	now      func() time.Time

	knobs   []*Knob
	byID    map[ParamID]*Knob
	toggles []*Toggle

	meters  Meters
	satLED  bool
	history *History

	frameCount int
	seq        uint64
	lastMeter  time.Time
	stale      bool
}

// NewModel builds the faceplate from the knob and toggle catalogues.
func NewModel(settings Settings, out Sender) *Model {
	if settings.HistoryEvery <= 0 {
		settings.HistoryEvery = 1
	}
	m := &Model{
		settings: settings,
		out:      out,
		now:      time.Now,
		byID:     make(map[ParamID]*Knob, len(Knobs)),
		meters:   NewMeters(settings.DecayDB, settings.SilenceDB),
		history:  NewHistory(settings.HistoryLen),
	}
	for _, d := range Knobs {
		k := NewKnob(d)
		m.knobs = append(m.knobs, k)
		m.byID[d.ID] = k
	}
	for _, t := range Toggles {
		m.toggles = append(m.toggles, &Toggle{ToggleDescriptor: t})
	}
	m.lastMeter = m.now()
	return m
}

// Knob returns the knob for id.
func (m *Model) Knob(id ParamID) (*Knob, bool) {
	k, ok := m.byID[id]
	return k, ok
}

// Toggle returns the toggle for id.
func (m *Model) Toggle(id ParamID) (*Toggle, bool) {
	for _, t := range m.toggles {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Meters exposes the meter state.
func (m *Model) Meters() *Meters {
	return &m.meters
}

// History exposes the waveform history.
func (m *Model) History() *History {
	return m.history
}

// SaturationLED reports whether the saturation LED is lit.
func (m *Model) SaturationLED() bool {
	return m.satLED
}

// Stale reports whether meter events stopped arriving.
func (m *Model) Stale() bool {
	return m.stale
}

// PointerDown starts dragging knob id at screen position y.
func (m *Model) PointerDown(id ParamID, y float64) bool {
	k, ok := m.byID[id]
	if !ok {
		return false
	}
	k.PointerDown(y)
	return true
}

// PointerMove feeds a pointer position to every dragging knob.
func (m *Model) PointerMove(y float64, precision bool) {
	for _, k := range m.knobs {
		k.PointerMove(y, precision)
	}
}

// PointerUp releases every knob.
func (m *Model) PointerUp() {
	for _, k := range m.knobs {
		k.PointerUp()
	}
}

// Adjust moves knob id's target by a vertical displacement.
func (m *Model) Adjust(id ParamID, deltaY float64, precision bool) bool {
	k, ok := m.byID[id]
	if !ok {
		return false
	}
	k.Adjust(deltaY, precision)
	return true
}

// Reset restores knob id to its default and sends it outward.
func (m *Model) Reset(id ParamID) bool {
	k, ok := m.byID[id]
	if !ok {
		return false
	}
	v := k.Reset()
	m.send(string(id), v)
	return true
}

// FlipToggle inverts toggle id and sends the new state outward.
func (m *Model) FlipToggle(id ParamID) bool {
	t, ok := m.Toggle(id)
	if !ok {
		return false
	}
	t.On = !t.On
	m.send(string(id), t.On)
	return true
}

// HandleParameter applies an inbound parameter event.
func (m *Model) HandleParameter(ev bridge.ParameterEvent) {
	id := ParamID(ev.EndpointID)
	if t, ok := m.Toggle(id); ok {
		if on, ok := bridge.Bool(ev.Value); ok {
			t.On = on
		}
		return
	}
	k, ok := m.byID[id]
	if !ok {
		return
	}
	if v, ok := bridge.Float(ev.Value); ok {
		k.Inbound(v)
	}
}

// HandleEndpoint applies a value from a named engine stream.
func (m *Model) HandleEndpoint(stream string, value any) {
	if IsToggle(ParamID(stream)) {
		m.HandleParameter(bridge.ParameterEvent{EndpointID: stream, Value: value})
		return
	}
	v, ok := bridge.Float(value)
	if !ok {
		return
	}
	switch stream {
	case StreamGainReduction:
		m.meters.GainReduction.Value = v
	case StreamInputMeter:
		m.meters.Input.Value = v
	case StreamOutputMeter:
		m.meters.Output.Value = v + m.settings.OutputOffsetDB
	case StreamPostSatMeter:
		m.satLED = v >= m.settings.SatLEDDB
	default:
		return
	}
	m.lastMeter = m.now()
}

// Step advances the model by one frame: meter ballistics, knob smoothing
// with outbound sync, and the waveform history.
func (m *Model) Step() {
	m.seq++
	m.meters.Step()

	for _, k := range m.knobs {
		if k.Smooth() {
			m.send(string(k.ID), k.Current)
		}
	}

	m.frameCount++
	if m.frameCount >= m.settings.HistoryEvery {
		m.frameCount = 0
		m.history.Push(Sample{
			InputLevel:    m.meters.Input.Value,
			GainReduction: m.meters.GainReduction.Value,
			OutputLevel:   m.meters.Output.Value,
		})
	}

	if m.settings.StaleAfter > 0 {
		m.stale = m.now().Sub(m.lastMeter) > m.settings.StaleAfter
	}
}

// ThresholdDB is the value the waveform's threshold line is drawn at.
func (m *Model) ThresholdDB() float64 {
	if k, ok := m.byID[ThresholdDB]; ok {
		return k.Current
	}
	return 0
}

// Snapshot captures the current state as a Frame.
func (m *Model) Snapshot() Frame {
	f := Frame{
		Seq:           m.seq,
		Knobs:         make([]KnobFrame, 0, len(m.knobs)),
		Toggles:       make([]ToggleFrame, 0, len(m.toggles)),
		SaturationLED: m.satLED,
		Stale:         m.stale,
	}
	for _, k := range m.knobs {
		f.Knobs = append(f.Knobs, KnobFrame{
			ID:       k.ID,
			Label:    k.Label,
			Value:    k.Current,
			Min:      k.Min,
			Max:      k.Max,
			Default:  k.Default,
			Angle:    k.Angle(),
			Display:  k.Display(),
			Dragging: k.Dragging(),
			Row:      k.Row,
		})
	}
	for _, t := range m.toggles {
		f.Toggles = append(f.Toggles, ToggleFrame{ID: t.ID, Label: t.Label, On: t.On})
	}
	f.Meters = []MeterFrame{
		meterFrame(InputLevel, "Input Level", LevelScale, m.meters.Input),
		meterFrame(GainReduction, "Gain Reduction", GainReductionScale, m.meters.GainReduction),
		meterFrame(OutputLevel, "Output Level", LevelScale, m.meters.Output),
	}
	th := m.ThresholdDB()
	f.Waveform = WaveformFrame{
		Samples:     m.history.Samples(),
		Capacity:    m.history.Cap(),
		ThresholdDB: th,
		Label:       ThresholdLabel(th),
	}
	return f
}

func meterFrame(id ChannelID, label string, s Scale, ch Channel) MeterFrame {
	return MeterFrame{
		ID:      id,
		Label:   label,
		Value:   ch.Value,
		Peak:    ch.Peak,
		Readout: s.Readout(ch.Peak),
		Dots:    s.Render(ch.Peak),
		Markers: s.ScaleMarkers(),
	}
}

func (m *Model) send(name string, value any) {
	if m.out == nil {
		return
	}
	m.out.SendEventOrValue(name, value)
}
