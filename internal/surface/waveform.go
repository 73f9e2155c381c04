package surface

import (
	"fmt"
	"image/color"
)

// DefaultHistory is the number of samples the level display keeps.
const DefaultHistory = 30

// Waveform display range.
const (
	WaveformMinDB = -60.0
	WaveformMaxDB = 12.0
	TimeDivisions = 5
)

// WaveformGridDB lists the horizontal grid lines.
var WaveformGridDB = []float64{-60, -48, -36, -24, -12, 0, 12}

// Sample is one snapshot of the meters, taken once per history tick.
type Sample struct {
	InputLevel    float64 `json:"in"`
	GainReduction float64 `json:"gr"`
	OutputLevel   float64 `json:"out"`
}

// History is a bounded FIFO of samples; the oldest is evicted first.
type History struct {
	samples []Sample
	limit   int
}

// NewHistory creates a history holding at most limit samples.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &History{samples: make([]Sample, 0, limit+1), limit: limit}
}

// Push appends s, evicting the oldest sample when full.
func (h *History) Push(s Sample) {
	h.samples = append(h.samples, s)
	if len(h.samples) > h.limit {
		n := copy(h.samples, h.samples[1:])
		h.samples = h.samples[:n]
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int { return len(h.samples) }

// Cap returns the history limit.
func (h *History) Cap() int { return h.limit }

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// DBToY maps db onto a display of height h; -60 dB is the bottom edge and
// +12 dB the top. Values outside that range are clamped.
func DBToY(db, h float64) float64 {
	db = clamp(db, WaveformMinDB, WaveformMaxDB)
	norm := (db - WaveformMinDB) / (WaveformMaxDB - WaveformMinDB)
	return h - norm*h
}

// OpKind identifies a display-list operation.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpLine
	OpText
)

// Align is horizontal text alignment relative to X0.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Op is one drawing instruction in display coordinates.
type Op struct {
	Kind   OpKind
	X0, Y0 float64
	X1, Y1 float64 // rect corner or line end
	Width  float64 // line width
	Dash   []float64
	Color  color.NRGBA
	Text   string
	Align  Align
}

// Scene is an ordered display list.
type Scene struct {
	W, H float64
	Ops  []Op
}

var (
	waveBackground = color.NRGBA{0x1a, 0x1a, 0x1a, 0xff}
	waveGrid       = color.NRGBA{0x33, 0x33, 0x33, 0xff}
	waveGridLabel  = color.NRGBA{0x66, 0x66, 0x66, 0xff}
	waveBar        = color.NRGBA{0x4c, 0xaf, 0x50, 0xff}
	waveThreshold  = color.NRGBA{0xff, 0xff, 0xff, 0xb3}
)

// WaveformScene lays out the level display: grid, one bar per sample and the
// dashed threshold line. It is a pure function of its arguments.
func WaveformScene(samples []Sample, capacity int, thresholdDB, w, h float64) Scene {
	sc := Scene{W: w, H: h}
	sc.Ops = append(sc.Ops, Op{Kind: OpFillRect, X1: w, Y1: h, Color: waveBackground})

	for _, db := range WaveformGridDB {
		y := DBToY(db, h)
		sc.Ops = append(sc.Ops,
			Op{Kind: OpLine, X0: 0, Y0: y, X1: w, Y1: y, Width: 1, Color: waveGrid},
			Op{Kind: OpText, X0: w - 5, Y0: y - 5, Text: fmt.Sprintf("%.0f dB", db), Color: waveGridLabel, Align: AlignRight},
		)
	}
	for i := 1; i < TimeDivisions; i++ {
		x := w * float64(i) / TimeDivisions
		sc.Ops = append(sc.Ops, Op{Kind: OpLine, X0: x, Y0: 0, X1: x, Y1: h, Width: 1, Color: waveGrid})
	}

	if capacity <= 0 {
		capacity = DefaultHistory
	}
	barWidth := w / float64(capacity)
	for i, s := range samples {
		top := DBToY(s.InputLevel, h)
		if h-top <= 0 {
			continue
		}
		x := float64(i) * barWidth
		sc.Ops = append(sc.Ops, Op{Kind: OpFillRect, X0: x, Y0: top, X1: x + barWidth - 1, Y1: h, Color: waveBar})
	}

	ty := DBToY(thresholdDB, h)
	sc.Ops = append(sc.Ops,
		Op{Kind: OpLine, X0: 0, Y0: ty, X1: w, Y1: ty, Width: 2, Dash: []float64{5, 3}, Color: waveThreshold},
		Op{Kind: OpText, X0: 10, Y0: ty - 5, Text: ThresholdLabel(thresholdDB), Color: waveThreshold},
	)
	return sc
}

// ThresholdLabel is the caption drawn above the threshold line.
func ThresholdLabel(db float64) string {
	return fmt.Sprintf("Threshold: %.1f dB", db)
}
