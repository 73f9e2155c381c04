package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/satindergrewal/uppercomp/internal/surface"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Surface timing
	FPS          int           // frame rate of the surface loop
	HistoryLen   int           // waveform samples kept
	HistoryEvery int           // frames between waveform samples
	StaleAfter   time.Duration // meter silence before the surface reports a lost engine

	// Meter calibration
	DecayDB        float64 // peak fall per frame
	SilenceDB      float64 // input level below which gain reduction is forced to zero
	OutputOffsetDB float64 // added to the engine's output meter
	SatLEDDB       float64 // postSat level that lights the saturation LED

	// Demo engine
	Source  string // audio file to loop; empty plays the generated test signal
	Monitor bool   // encode engine output for WebRTC viewers

	// Desktop window
	WindowScale float64

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("UPPERCOMP_PORT", 8080),

		FPS:          envInt("UPPERCOMP_FPS", 60),
		HistoryLen:   envInt("UPPERCOMP_HISTORY", 30),
		HistoryEvery: envInt("UPPERCOMP_HISTORY_EVERY", 1),
		StaleAfter:   envDuration("UPPERCOMP_STALE_AFTER", 2*time.Second),

		DecayDB:        envFloat("UPPERCOMP_DECAY_DB", 0.5),
		SilenceDB:      envFloat("UPPERCOMP_SILENCE_DB", -50),
		OutputOffsetDB: envFloat("UPPERCOMP_OUTPUT_OFFSET_DB", 5.6),
		SatLEDDB:       envFloat("UPPERCOMP_SAT_LED_DB", 8.0),

		Source:  envStr("UPPERCOMP_SOURCE", ""),
		Monitor: envBool("UPPERCOMP_MONITOR", true),

		WindowScale: envFloat("UPPERCOMP_WINDOW_SCALE", 1.0),

		LogLevel: strings.ToLower(envStr("UPPERCOMP_LOG_LEVEL", "info")),
	}
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Surface returns the surface settings this configuration describes.
func (c Config) Surface() surface.Settings {
	s := surface.DefaultSettings()
	s.FPS = c.FPS
	s.HistoryLen = c.HistoryLen
	s.HistoryEvery = c.HistoryEvery
	s.StaleAfter = c.StaleAfter
	s.DecayDB = c.DecayDB
	s.SilenceDB = c.SilenceDB
	s.OutputOffsetDB = c.OutputOffsetDB
	s.SatLEDDB = c.SatLEDDB
	return s
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go durations ("1500ms") or plain seconds ("2").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
