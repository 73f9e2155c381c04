package stream

import (
	"context"
	"io"
	"net/http"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/satindergrewal/uppercomp/internal/audio"
)

// MonitorHandler serves the engine output as a chunked MP3 stream for
// listeners without WebRTC. Each connection spawns an FFmpeg encoder.
type MonitorHandler struct {
	pcm *Broadcaster[[]int16]
	log *zap.Logger
}

// NewMonitorHandler creates an MP3 monitor handler.
func NewMonitorHandler(pcm *Broadcaster[[]int16], log *zap.Logger) *MonitorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MonitorHandler{pcm: pcm, log: log.Named("monitor")}
}

// encoderArgs is the FFmpeg command line: PCM on stdin, MP3 on stdout.
func encoderArgs() []string {
	return []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(audio.SampleRate),
		"-ac", strconv.Itoa(audio.Channels),
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", "192k",
		"-f", "mp3",
		"-fflags", "nobuffer",
		"-flush_packets", "1",
		"-loglevel", "error",
		"pipe:1",
	}
}

func (h *MonitorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", encoderArgs()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		h.log.Error("Encoder stdin pipe", zap.Error(err))
		http.Error(w, "encoder unavailable", http.StatusInternalServerError)
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		h.log.Error("Encoder stdout pipe", zap.Error(err))
		http.Error(w, "encoder unavailable", http.StatusInternalServerError)
		return
	}
	if err := cmd.Start(); err != nil {
		h.log.Error("Encoder start", zap.Error(err))
		http.Error(w, "encoder unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	listener := h.pcm.Subscribe()
	defer h.pcm.Unsubscribe(listener)

	h.log.Info("Monitor listener connected", zap.Int("listeners", h.pcm.ListenerCount()))
	defer h.log.Info("Monitor listener disconnected")

	go func() {
		defer stdin.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-listener.C:
				if _, err := stdin.Write(audio.SamplesToBytes(frame)); err != nil {
					return
				}
			}
		}
	}()

	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				break
			}
			flusher.Flush()
		}
		if err != nil {
			if err != io.EOF {
				h.log.Warn("Encoder read", zap.Error(err))
			}
			break
		}
	}

	cancel()
	cmd.Wait()
}
