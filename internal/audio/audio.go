package audio

import (
	"math"
	"time"
)

const (
	SampleRate    = 48000
	Channels      = 2
	BitDepth      = 16
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per PCM frame (int16 = 2 bytes)
)

// FloatToPCM converts interleaved float samples in [-1,1] to int16, clipping
// anything outside that range.
func FloatToPCM(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// PCMToFloat converts int16 samples to floats in [-1,1).
func PCMToFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / 32768
	}
	return out
}

// Deinterleave splits stereo frames into left and right. l and r must hold
// len(src)/2 samples.
func Deinterleave(src, l, r []float64) {
	for i := 0; i+1 < len(src); i += 2 {
		l[i/2] = src[i]
		r[i/2] = src[i+1]
	}
}

// Interleave is the inverse of Deinterleave.
func Interleave(dst, l, r []float64) {
	for i := range l {
		dst[2*i] = l[i]
		dst[2*i+1] = r[i]
	}
}
