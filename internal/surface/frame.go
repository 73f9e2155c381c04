package surface

// Frame is an immutable snapshot of everything a painter needs for one tick.
type Frame struct {
	Seq           uint64        `json:"seq"`
	Knobs         []KnobFrame   `json:"knobs"`
	Toggles       []ToggleFrame `json:"toggles"`
	Meters        []MeterFrame  `json:"meters"`
	SaturationLED bool          `json:"saturationLed"`
	Waveform      WaveformFrame `json:"waveform"`
	Stale         bool          `json:"stale"`
}

// KnobFrame is a knob as displayed.
type KnobFrame struct {
	ID       ParamID `json:"id"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Default  float64 `json:"default"`
	Angle    float64 `json:"angle"`
	Display  string  `json:"display"`
	Dragging bool    `json:"dragging,omitempty"`
	Row      int     `json:"row"`
}

// ToggleFrame is a toggle as displayed.
type ToggleFrame struct {
	ID    ParamID `json:"id"`
	Label string  `json:"label"`
	On    bool    `json:"on"`
}

// MeterFrame is one LED meter as displayed.
type MeterFrame struct {
	ID      ChannelID `json:"id"`
	Label   string    `json:"label"`
	Value   float64   `json:"value"`
	Peak    float64   `json:"peak"`
	Readout string    `json:"readout"`
	Dots    []Dot     `json:"dots"`
	Markers []Marker  `json:"markers"`
}

// WaveformFrame carries the level history and threshold line.
type WaveformFrame struct {
	Samples     []Sample `json:"samples"`
	Capacity    int      `json:"capacity"`
	ThresholdDB float64  `json:"thresholdDb"`
	Label       string   `json:"label"`
}

// Knob returns the knob frame for id.
func (f Frame) Knob(id ParamID) (KnobFrame, bool) {
	for _, k := range f.Knobs {
		if k.ID == id {
			return k, true
		}
	}
	return KnobFrame{}, false
}

// Toggle returns the toggle frame for id.
func (f Frame) Toggle(id ParamID) (ToggleFrame, bool) {
	for _, t := range f.Toggles {
		if t.ID == id {
			return t, true
		}
	}
	return ToggleFrame{}, false
}

// Meter returns the meter frame for id.
func (f Frame) Meter(id ChannelID) (MeterFrame, bool) {
	for _, m := range f.Meters {
		if m.ID == id {
			return m, true
		}
	}
	return MeterFrame{}, false
}

// LitDots counts dots with non-zero intensity.
func (m MeterFrame) LitDots() int {
	n := 0
	for _, d := range m.Dots {
		if d.Active {
			n++
		}
	}
	return n
}
