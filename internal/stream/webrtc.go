package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"go.uber.org/zap"
	"gopkg.in/hraban/opus.v2"

	"github.com/satindergrewal/uppercomp/internal/audio"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

// ControlLabel is the data channel label viewers open for the control protocol.
const ControlLabel = "control"

const monitorBitrate = 128000

// WebRTCHandler serves WebRTC SDP negotiation. Each peer gets the engine
// output as an Opus track and may open a "control" data channel that speaks
// the same JSON protocol as the WebSocket endpoint.
type WebRTCHandler struct {
	surface Surface
	frames  *Broadcaster[surface.Frame]
	pcm     *Broadcaster[[]int16] // nil disables the monitor track
	log     *zap.Logger

	mu    sync.Mutex
	peers []*webrtc.PeerConnection
}

// NewWebRTCHandler creates a WebRTC handler. pcm may be nil.
func NewWebRTCHandler(s Surface, frames *Broadcaster[surface.Frame], pcm *Broadcaster[[]int16], log *zap.Logger) *WebRTCHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebRTCHandler{
		surface: s,
		frames:  frames,
		pcm:     pcm,
		log:     log.Named("webrtc"),
	}
}

// PeerCount returns the number of active WebRTC peers.
func (h *WebRTCHandler) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *WebRTCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	var offer webrtc.SessionDescription
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		http.Error(w, "invalid SDP offer", http.StatusBadRequest)
		return
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		h.log.Error("Create peer connection failed", zap.Error(err))
		http.Error(w, "create peer connection failed", http.StatusInternalServerError)
		return
	}

	var track *webrtc.TrackLocalStaticSample
	if h.pcm != nil {
		track, err = webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus},
			"audio",
			"uppercomp-monitor",
		)
		if err == nil {
			_, err = pc.AddTrack(track)
		}
		if err != nil {
			pc.Close()
			h.log.Error("Add monitor track failed", zap.Error(err))
			http.Error(w, "add track failed", http.StatusInternalServerError)
			return
		}
	}

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != ControlLabel {
			h.log.Debug("Ignoring data channel", zap.String("label", dc.Label()))
			return
		}
		h.serveControl(dc)
	})

	if err := pc.SetRemoteDescription(offer); err != nil {
		pc.Close()
		http.Error(w, "set remote description failed", http.StatusBadRequest)
		return
	}

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		pc.Close()
		http.Error(w, "create answer failed", http.StatusInternalServerError)
		return
	}

	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(answer); err != nil {
		pc.Close()
		http.Error(w, "set local description failed", http.StatusInternalServerError)
		return
	}
	<-gatherComplete

	h.mu.Lock()
	h.peers = append(h.peers, pc)
	h.mu.Unlock()

	h.log.Info("Peer connected", zap.Int("peers", h.PeerCount()))

	gone := make(chan struct{})
	if track != nil {
		go h.streamToPeer(track, gone)
	}

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		if s == webrtc.PeerConnectionStateFailed ||
			s == webrtc.PeerConnectionStateClosed ||
			s == webrtc.PeerConnectionStateDisconnected {
			if h.removePeer(pc) {
				close(gone)
				pc.Close()
				h.log.Info("Peer disconnected", zap.Int("peers", h.PeerCount()))
			}
		}
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(pc.LocalDescription())
}

// serveControl sends frames on dc while it is open and applies incoming gestures.
func (h *WebRTCHandler) serveControl(dc *webrtc.DataChannel) {
	l := h.frames.Subscribe()
	dc.OnOpen(func() {
		go func() {
			defer h.frames.Unsubscribe(l)
			if !h.sendFrame(dc, h.surface.Latest()) {
				return
			}
			for {
				select {
				case <-l.Done():
					return
				case f := <-l.C:
					if !h.sendFrame(dc, f) {
						return
					}
				}
			}
		}()
	})
	dc.OnClose(func() { h.frames.Unsubscribe(l) })
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if !msg.IsString {
			return
		}
		if g, err := Dispatch(h.surface, msg.Data); err != nil {
			h.log.Warn("Dropped viewer message", zap.String("type", string(g.Type)), zap.Error(err))
		}
	})
}

func (h *WebRTCHandler) sendFrame(dc *webrtc.DataChannel, f surface.Frame) bool {
	b, err := json.Marshal(f)
	if err != nil {
		h.log.Error("Encode frame failed", zap.Error(err))
		return false
	}
	if err := dc.SendText(string(b)); err != nil {
		h.log.Debug("Control channel send failed", zap.Error(err))
		return false
	}
	return true
}

func (h *WebRTCHandler) streamToPeer(track *webrtc.TrackLocalStaticSample, gone <-chan struct{}) {
	listener := h.pcm.Subscribe()
	defer h.pcm.Unsubscribe(listener)

	enc, err := opus.NewEncoder(audio.SampleRate, audio.Channels, opus.AppAudio)
	if err != nil {
		h.log.Error("Opus encoder error", zap.Error(err))
		return
	}
	enc.SetBitrate(monitorBitrate)

	opusBuf := make([]byte, 4000)

	for {
		select {
		case <-gone:
			return
		case frame := <-listener.C:
			n, err := enc.Encode(frame, opusBuf)
			if err != nil {
				h.log.Warn("Opus encode error", zap.Error(err))
				continue
			}
			if err := track.WriteSample(media.Sample{
				Data:     opusBuf[:n],
				Duration: audio.FrameDuration,
			}); err != nil {
				return
			}
		}
	}
}

// removePeer reports whether pc was still registered.
func (h *WebRTCHandler) removePeer(pc *webrtc.PeerConnection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, p := range h.peers {
		if p == pc {
			h.peers = append(h.peers[:i], h.peers[i+1:]...)
			return true
		}
	}
	return false
}
