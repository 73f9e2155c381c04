package surface

import (
	"encoding/json"
	"testing"
)

func TestLerpColorEndpoints(t *testing.T) {
	for _, on := range []RGB{GreenColor, YellowColor, RedColor} {
		if got := LerpColor(OffColor, on, 0); got != OffColor {
			t.Errorf("LerpColor(off, %v, 0) = %v, want %v", on, got, OffColor)
		}
		if got := LerpColor(OffColor, on, 1); got != on {
			t.Errorf("LerpColor(off, %v, 1) = %v, want %v", on, got, on)
		}
	}
}

func TestLerpColorClamps(t *testing.T) {
	if got := LerpColor(OffColor, RedColor, -3); got != OffColor {
		t.Errorf("LerpColor(t=-3) = %v, want %v", got, OffColor)
	}
	if got := LerpColor(OffColor, RedColor, 7); got != RedColor {
		t.Errorf("LerpColor(t=7) = %v, want %v", got, RedColor)
	}
}

func TestLerpColorMonotonic(t *testing.T) {
	prev := LerpColor(OffColor, GreenColor, 0)
	for i := 1; i <= 100; i++ {
		c := LerpColor(OffColor, GreenColor, float64(i)/100)
		if c.R < prev.R || c.G < prev.G || c.B < prev.B {
			t.Fatalf("step %d: %v darker than %v", i, c, prev)
		}
		prev = c
	}
}

func TestCubicEase(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{0.25, 0.0625},
	}
	for _, tt := range tests {
		if got := CubicEase(tt.in); !approx(got, tt.want, 1e-12) {
			t.Errorf("CubicEase(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGBText(t *testing.T) {
	b, err := json.Marshal(YellowColor)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"rgb(255, 235, 59)"` {
		t.Errorf("Marshal = %s, want %q", b, "rgb(255, 235, 59)")
	}

	var c RGB
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c != YellowColor {
		t.Errorf("Unmarshal = %v, want %v", c, YellowColor)
	}

	if err := c.UnmarshalText([]byte("#ff0000")); err == nil {
		t.Error("UnmarshalText(#ff0000) should fail")
	}
}

func approx(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
