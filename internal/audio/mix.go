package audio

// Smoothstep returns the smoothstep interpolation for t in [0,1].
// Formula: 3t^2 - 2t^3.
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Blend writes a linear dry/wet mix into dst (0 = all dry, 1 = all wet).
// dst may alias either input.
func Blend(dst, dry, wet []float64, mix float64) {
	if mix < 0 {
		mix = 0
	} else if mix > 1 {
		mix = 1
	}
	for i := range dst {
		dst[i] = dry[i]*(1-mix) + wet[i]*mix
	}
}

// SeamFade smooths the loop point of interleaved samples: the last fade frames
// are crossfaded into the first ones with a smoothstep curve, and the
// returned slice drops that tail so playback wraps without a click.
func SeamFade(samples []float64, fade int) []float64 {
	total := len(samples) / Channels
	if fade <= 0 || fade > total/2 {
		return samples
	}
	tail := (total - fade) * Channels
	out := make([]float64, tail)
	copy(out, samples[:tail])
	for i := 0; i < fade; i++ {
		g := Smoothstep(float64(i) / float64(fade))
		for c := 0; c < Channels; c++ {
			head := i*Channels + c
			out[head] = samples[tail+head]*(1-g) + samples[head]*g
		}
	}
	return out
}
