package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"gopkg.in/hraban/opus.v2"

	"github.com/perklund/storydeck/internal/audio"
	"github.com/perklund/storydeck/internal/logging"
)

const opusBitrate = 128000

// WebRTCHandler negotiates SDP offers and streams the mixed table audio
// to browser peers as Opus.
type WebRTCHandler struct {
	broadcaster *Broadcaster
	mu          sync.Mutex
	peers       []*webrtc.PeerConnection
}

func NewWebRTCHandler(b *Broadcaster) *WebRTCHandler {
	return &WebRTCHandler{broadcaster: b}
}

// PeerCount returns the number of connected WebRTC peers.
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
		http.Error(w, "create peer connection failed", http.StatusInternalServerError)
		return
	}

	audioTrack, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus},
		"audio",
		"storydeck",
	)
	if err != nil {
		pc.Close()
		http.Error(w, "create audio track failed", http.StatusInternalServerError)
		return
	}
	if _, err := pc.AddTrack(audioTrack); err != nil {
		pc.Close()
		http.Error(w, "add track failed", http.StatusInternalServerError)
		return
	}

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
	if err := pc.SetLocalDescription(answer); err != nil {
		pc.Close()
		http.Error(w, "set local description failed", http.StatusInternalServerError)
		return
	}

	<-webrtc.GatheringCompletePromise(pc)

	h.mu.Lock()
	h.peers = append(h.peers, pc)
	h.mu.Unlock()
	logging.Infof("WebRTC peer connected (total: %d)", h.PeerCount())

	go h.streamToPeer(audioTrack)

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		switch s {
		case webrtc.PeerConnectionStateFailed,
			webrtc.PeerConnectionStateClosed,
			webrtc.PeerConnectionStateDisconnected:
			h.removePeer(pc)
			pc.Close()
			logging.Infof("WebRTC peer disconnected (remaining: %d)", h.PeerCount())
		}
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(pc.LocalDescription())
}

func (h *WebRTCHandler) streamToPeer(track *webrtc.TrackLocalStaticSample) {
	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	enc, err := opus.NewEncoder(audio.SampleRate, audio.Channels, opus.AppAudio)
	if err != nil {
		logging.Errorf("WebRTC: opus encoder: %v", err)
		return
	}
	enc.SetBitrate(opusBitrate)

	opusBuf := make([]byte, 4000)
	for {
		select {
		case <-listener.Done():
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			n, err := enc.Encode(frame, opusBuf)
			if err != nil {
				logging.Errorf("WebRTC: opus encode: %v", err)
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

func (h *WebRTCHandler) removePeer(pc *webrtc.PeerConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, p := range h.peers {
		if p == pc {
			h.peers = append(h.peers[:i], h.peers[i+1:]...)
			return
		}
	}
}
