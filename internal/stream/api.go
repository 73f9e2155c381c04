package stream

import (
	"encoding/json"
	"image/png"
	"net/http"

	"go.uber.org/zap"

	"github.com/satindergrewal/uppercomp/internal/paint"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

// Catalogue is the parameter list served at /api/params.
type Catalogue struct {
	Knobs   []surface.Descriptor       `json:"knobs"`
	Toggles []surface.ToggleDescriptor `json:"toggles"`
	Streams []string                   `json:"streams"`
}

// FrameHandler serves the latest frame as JSON.
func FrameHandler(s Surface) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.Latest())
	})
}

// ParamsHandler serves the parameter catalogue as JSON.
func ParamsHandler() http.Handler {
	c := Catalogue{Knobs: surface.Knobs, Toggles: surface.Toggles, Streams: surface.Streams()}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, c)
	})
}

// SnapshotHandler serves the latest frame rendered as a PNG faceplate.
func SnapshotHandler(s Surface, p *paint.Painter, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := p.Render(s.Latest())
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache, no-store")
		if err := png.Encode(w, img); err != nil {
			log.Warn("Snapshot encode failed", zap.Error(err))
		}
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(v)
}
