package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SilenceDB is reported for an all-zero block.
const SilenceDB = -100.0

// PeakDB returns the block peak of all channels in dBFS, floored at SilenceDB.
func PeakDB(chans ...[]float64) float64 {
	peak := 0.0
	for _, ch := range chans {
		if len(ch) == 0 {
			continue
		}
		peak = math.Max(peak, math.Max(math.Abs(floats.Max(ch)), math.Abs(floats.Min(ch))))
	}
	if peak <= 0 {
		return SilenceDB
	}
	return math.Max(SilenceDB, 20*math.Log10(peak))
}

func scale(g float64, chans ...[]float64) {
	if g == 1 {
		return
	}
	for _, ch := range chans {
		floats.Scale(g, ch)
	}
}
