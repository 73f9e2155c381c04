package surface

import (
	"fmt"
	"math"
)

// Meter constants.
const (
	DotCount        = 30
	DeadbandDB      = 0.05 // |gain reduction| below this reads as exactly zero
	DefaultDecayDB  = 0.5  // peak fall per frame
	DefaultSilence  = -50.0
	DefaultOutputDB = 5.6 // added to the engine's output meter to match host meters
	DefaultSatLEDDB = 8.0
	levelFloorDB    = -36.0
)

// ChannelID names a meter on the faceplate.
type ChannelID string

const (
	InputLevel    ChannelID = "inputLevel"
	GainReduction ChannelID = "gainReduction"
	OutputLevel   ChannelID = "outputLevel"
)

// Channel is one meter's live value and held peak, in dB.
type Channel struct {
	Value float64
	Peak  float64
}

// Scale describes how a meter spreads its dB range over dots.
type Scale struct {
	MinDB     float64
	MaxDB     float64
	Ascending bool
	Markers   []float64
	Dots      int
}

// LevelScale is used by the input and output meters.
var LevelScale = Scale{
	MinDB:     -36,
	MaxDB:     6,
	Ascending: true,
	Markers:   []float64{-36, -30, -24, -18, -12, -6, 0, 6},
	Dots:      DotCount,
}

// GainReductionScale runs from 0 dB down to -36 dB.
var GainReductionScale = Scale{
	MinDB:     0,
	MaxDB:     -36,
	Ascending: false,
	Markers:   []float64{0, -6, -12, -18, -24, -30, -36},
	Dots:      DotCount,
}

// Step returns the dB width of one dot.
func (s Scale) Step() float64 {
	if s.Dots <= 0 {
		return 0
	}
	return math.Abs(s.MaxDB-s.MinDB) / float64(s.Dots)
}

// edgeDB returns the boundary between dot i-1 and dot i, measured from the
// meter's start. edgeDB(Dots) is the far end of the scale.
func (s Scale) edgeDB(i int) float64 {
	return s.MinDB + (s.MaxDB-s.MinDB)*float64(i)/float64(s.Dots)
}

// DotLowerDB returns the edge of dot i nearest the meter's start: the lower
// edge for ascending meters, the least negative edge for gain reduction.
func (s Scale) DotLowerDB(i int) float64 {
	return s.edgeDB(i)
}

// Intensity returns how lit dot i is for value, in [0,1]. A dot is fully lit
// once value reaches its far edge and ramps linearly across one step before it.
func (s Scale) Intensity(i int, value float64) float64 {
	if s.Dots <= 0 || math.IsNaN(value) {
		return 0
	}
	near, far := s.edgeDB(i), s.edgeDB(i+1)
	if s.Ascending {
		switch {
		case value >= far:
			return 1
		case value <= near:
			return 0
		}
		return clamp((value-near)/(far-near), 0, 1)
	}
	value = math.Min(0, value)
	if math.Abs(value) < DeadbandDB {
		return 0
	}
	switch {
	case value <= far:
		return 1
	case value >= near:
		return 0
	}
	return clamp((near-value)/(near-far), 0, 1)
}

// ActiveColor returns the fully-lit color of dot i.
func (s Scale) ActiveColor(i int) RGB {
	if !s.Ascending {
		return RedColor
	}
	db := s.DotLowerDB(i)
	switch {
	case db < -12:
		return GreenColor
	case db < 0:
		return YellowColor
	default:
		return RedColor
	}
}

// MarkerIndex returns the dot aligned with a labeled tick at db.
func (s Scale) MarkerIndex(db float64) int {
	rng := math.Abs(s.MaxDB - s.MinDB)
	if rng == 0 || s.Dots <= 1 {
		return 0
	}
	var frac float64
	if s.MinDB < s.MaxDB {
		frac = (db - s.MinDB) / rng
	} else {
		frac = (s.MinDB - db) / rng
	}
	return int(math.Round(clamp(frac, 0, 1) * float64(s.Dots-1)))
}

// Marker is a labeled scale tick.
type Marker struct {
	DB    float64 `json:"db"`
	Index int     `json:"index"`
	Label string  `json:"label"`
}

// ScaleMarkers returns the labeled ticks for s.
func (s Scale) ScaleMarkers() []Marker {
	out := make([]Marker, 0, len(s.Markers))
	for _, db := range s.Markers {
		label := fmt.Sprintf("%g dB", db)
		if db > 0 {
			label = "+" + label
		}
		out = append(out, Marker{DB: db, Index: s.MarkerIndex(db), Label: label})
	}
	return out
}

func (s Scale) isMarker(i int) bool {
	for _, db := range s.Markers {
		if s.MarkerIndex(db) == i {
			return true
		}
	}
	return false
}

// Dot is one rendered meter segment.
type Dot struct {
	Intensity float64 `json:"i"`
	Color     RGB     `json:"c"`
	Active    bool    `json:"a,omitempty"`
	Marker    bool    `json:"m,omitempty"`
	Glow      bool    `json:"g,omitempty"`
}

// Render computes every dot for value.
func (s Scale) Render(value float64) []Dot {
	dots := make([]Dot, s.Dots)
	for i := range dots {
		in := s.Intensity(i, value)
		marker := s.isMarker(i)
		dots[i] = Dot{
			Intensity: in,
			Color:     LerpColor(OffColor, s.ActiveColor(i), in),
			Active:    in > 0,
			Marker:    marker,
			Glow:      marker && in > 0.5,
		}
	}
	return dots
}

// Readout formats a meter value; gain reduction inside the deadband reads 0.0.
func (s Scale) Readout(value float64) string {
	if !s.Ascending && math.Abs(value) < DeadbandDB {
		value = 0
	}
	return fmt.Sprintf("%.1f dB", value)
}

// Meters holds the three faceplate meters and their ballistics.
type Meters struct {
	Input         Channel
	GainReduction Channel
	Output        Channel

	DecayRate float64
	SilenceDB float64
}

// NewMeters returns meters at rest: levels at the floor, no gain reduction.
func NewMeters(decay, silence float64) Meters {
	return Meters{
		Input:     Channel{Value: levelFloorDB, Peak: levelFloorDB},
		Output:    Channel{Value: levelFloorDB, Peak: levelFloorDB},
		DecayRate: decay,
		SilenceDB: silence,
	}
}

// Step advances peak hold and decay by one frame.
func (m *Meters) Step() {
	if m.Input.Value < m.SilenceDB {
		m.GainReduction = Channel{}
	}
	m.Input.Peak = math.Max(m.Input.Value, m.Input.Peak-m.DecayRate)
	m.Output.Peak = math.Max(m.Output.Value, m.Output.Peak-m.DecayRate)

	if math.Abs(m.GainReduction.Value) < DeadbandDB {
		m.GainReduction = Channel{}
	} else {
		m.GainReduction.Peak = m.GainReduction.Value
	}
}

// Channel returns the channel named id.
func (m *Meters) Channel(id ChannelID) (*Channel, bool) {
	switch id {
	case InputLevel:
		return &m.Input, true
	case GainReduction:
		return &m.GainReduction, true
	case OutputLevel:
		return &m.Output, true
	}
	return nil, false
}
