package surface

import "fmt"

// ParamID is an engine endpoint identifier.
type ParamID string

// Knob parameters.
const (
	Drive         ParamID = "drive"
	SatMix        ParamID = "satMixIn"
	InputGain     ParamID = "inputGainIn"
	Ratio         ParamID = "ratioIn"
	ThresholdDB   ParamID = "thresholdDbIn"
	LookaheadMs   ParamID = "lookaheadMsIn"
	AttackMs      ParamID = "attackMsIn"
	ReleaseMs     ParamID = "releaseMsIn"
	OutputGain    ParamID = "outputGainIn"
	SidechainFreq ParamID = "sidechainFreqIn"
	CompMix       ParamID = "compMixIn"
)

// Toggle parameters.
const (
	EnableLookahead ParamID = "enableLookAheadIn"
	SidechainFilter ParamID = "sidechainFilterEnableIn"
)

// Meter streams published by the engine.
const (
	StreamGainReduction = "gainReduction"
	StreamInputMeter    = "inputMeter"
	StreamOutputMeter   = "outputMeter"
	StreamPostSatMeter  = "postSatMeter"
)

// Format selects how a knob value is printed under the knob.
type Format string

const (
	FormatFixed1   Format = "fixed1"   // 1.0
	FormatFixed2   Format = "fixed2"   // 0.50
	FormatRatio    Format = "ratio"    // 4.0:1
	FormatSignedDB Format = "signedDb" // +0.0 dB / -28.0 dB
	FormatGainDB   Format = "gainDb"   // 0.00 dB
	FormatMs       Format = "ms"       // 25.0 ms
	FormatHz       Format = "hz"       // 200.0 Hz
)

// Descriptor declares one knob on the faceplate.
type Descriptor struct {
	ID      ParamID `json:"id"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Format  Format  `json:"format"`
	Row     int     `json:"row"`
}

// FormatValue prints v the way the faceplate shows it.
func (d Descriptor) FormatValue(v float64) string {
	switch d.Format {
	case FormatFixed2:
		return fmt.Sprintf("%.2f", v)
	case FormatRatio:
		return fmt.Sprintf("%.1f:1", v)
	case FormatSignedDB:
		if v >= 0 {
			return fmt.Sprintf("+%.1f dB", v)
		}
		return fmt.Sprintf("%.1f dB", v)
	case FormatGainDB:
		return fmt.Sprintf("%.2f dB", v)
	case FormatMs:
		return fmt.Sprintf("%.1f ms", v)
	case FormatHz:
		return fmt.Sprintf("%.1f Hz", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// ToggleDescriptor declares one toggle button.
type ToggleDescriptor struct {
	ID    ParamID `json:"id"`
	Label string  `json:"label"`
}

// Knobs lists every knob in faceplate order (row by row, left to right).
var Knobs = []Descriptor{
	{ID: Drive, Label: "Saturation", Min: 0.1, Max: 10, Default: 1.0, Format: FormatFixed1, Row: 0},
	{ID: SatMix, Label: "Saturation Mix", Min: 0, Max: 1, Default: 1.0, Format: FormatFixed2, Row: 0},
	{ID: InputGain, Label: "Comp In Gain", Min: -25, Max: 25, Default: 0, Format: FormatGainDB, Row: 0},
	{ID: Ratio, Label: "Ratio", Min: 1, Max: 10, Default: 4.0, Format: FormatRatio, Row: 0},
	{ID: ThresholdDB, Label: "Threshold", Min: -60, Max: 0, Default: -28.0, Format: FormatSignedDB, Row: 0},
	{ID: LookaheadMs, Label: "Lookahead", Min: 0, Max: 50, Default: 5.0, Format: FormatMs, Row: 1},
	{ID: AttackMs, Label: "Attack", Min: 1, Max: 100, Default: 25.0, Format: FormatMs, Row: 1},
	{ID: ReleaseMs, Label: "Release", Min: 10, Max: 500, Default: 80.0, Format: FormatMs, Row: 1},
	{ID: OutputGain, Label: "Output Gain", Min: -25, Max: 25, Default: 0, Format: FormatGainDB, Row: 1},
	{ID: SidechainFreq, Label: "Sidechain Freq", Min: 20, Max: 20000, Default: 200.0, Format: FormatHz, Row: 1},
	{ID: CompMix, Label: "Comp Mix", Min: 0, Max: 1, Default: 1.0, Format: FormatFixed2, Row: 2},
}

// Toggles lists the toggle buttons in faceplate order.
var Toggles = []ToggleDescriptor{
	{ID: EnableLookahead, Label: "LOOKAHEAD ENABLED"},
	{ID: SidechainFilter, Label: "SIDECHAIN FILTER ENABLED"},
}

// LookupKnob returns the descriptor for id.
func LookupKnob(id ParamID) (Descriptor, bool) {
	for _, d := range Knobs {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IsToggle reports whether id names a toggle button.
func IsToggle(id ParamID) bool {
	for _, t := range Toggles {
		if t.ID == id {
			return true
		}
	}
	return false
}
