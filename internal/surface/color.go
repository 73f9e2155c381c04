package surface

import (
	"fmt"
	"math"
)

// RGB is an opaque 8-bit color. It satisfies color.Color so painters can
// use it directly, and marshals to a CSS rgb() string for browser viewers.
type RGB struct {
	R, G, B uint8
}

// Palette used by the meters and the waveform display.
var (
	OffColor    = RGB{51, 51, 51}   // #333
	GreenColor  = RGB{76, 175, 80}  // #4CAF50
	YellowColor = RGB{255, 235, 59} // #FFEB3B
	RedColor    = RGB{255, 82, 82}  // #FF5252
)

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalText renders the color as a CSS rgb() value.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the rgb() form produced by MarshalText.
func (c *RGB) UnmarshalText(b []byte) error {
	var r, g, bl uint8
	if _, err := fmt.Sscanf(string(b), "rgb(%d, %d, %d)", &r, &g, &bl); err != nil {
		return fmt.Errorf("parse color %q: %w", b, err)
	}
	*c = RGB{r, g, bl}
	return nil
}

// CubicEase is the S-curve used for LED brightness ramps.
func CubicEase(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// LerpColor blends off toward on by the eased value of t. t is clamped to [0,1]
// so t=0 yields off and t=1 yields on exactly.
func LerpColor(off, on RGB, t float64) RGB {
	t = clamp(t, 0, 1)
	e := CubicEase(t)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*e))
	}
	return RGB{mix(off.R, on.R), mix(off.G, on.G), mix(off.B, on.B)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
