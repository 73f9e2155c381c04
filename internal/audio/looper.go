package audio

// Looper plays interleaved stereo samples in an endless loop.
type Looper struct {
	samples []float64
	pos     int
}

// NewLooper creates a looper over samples. An empty buffer plays silence.
func NewLooper(samples []float64) *Looper {
	n := len(samples) - len(samples)%Channels
	return &Looper{samples: samples[:n]}
}

// Len returns the loop length in frames.
func (l *Looper) Len() int {
	return len(l.samples) / Channels
}

// Next fills dst with the next len(dst) interleaved samples.
func (l *Looper) Next(dst []float64) {
	if len(l.samples) == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	for i := range dst {
		dst[i] = l.samples[l.pos]
		l.pos++
		if l.pos == len(l.samples) {
			l.pos = 0
		}
	}
}
