package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/perklund/storydeck/internal/audio"
	"github.com/perklund/storydeck/internal/catalog"
	"github.com/perklund/storydeck/internal/config"
	"github.com/perklund/storydeck/internal/logging"
	"github.com/perklund/storydeck/internal/narration"
	"github.com/perklund/storydeck/internal/playback"
	"github.com/perklund/storydeck/internal/stream"
	"github.com/perklund/storydeck/internal/web"
)

const statusPushInterval = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func main() {
	cfg := config.Load()

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		logging.Fatalf("init logging: %v", err)
	}
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Infof("storydeck starting up...")

	creds, err := config.OpenCredentialStore(cfg.CredentialPath)
	if err != nil {
		logging.Fatalf("open credential store: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logging.Fatalf("load catalog %s: %v", cfg.CatalogPath, err)
	}
	logging.Infof("catalog loaded: %d categories, %d effects",
		len(cat.Categories()), len(cat.EffectKeys()))

	// Mixer: single loop owning all playback state
	engine := audio.NewEngine()
	go engine.Run(ctx)

	sequencer := audio.NewSequencer(engine, cat)
	effects := audio.NewEffectPlayer(engine, cat)

	// Narration provider
	ttsClient := narration.NewClient(cfg.TTSEndpoint, narration.VoiceConfig{
		LanguageCode: cfg.TTSLanguage,
		Name:         cfg.TTSVoice,
		Pitch:        cfg.TTSPitch,
		SpeakingRate: cfg.TTSRate,
	}, creds.Get)
	narrator := narration.NewController(ttsClient, engine, creds.Get)

	// Broadcaster: fan out the mixed master to all transports
	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, engine.Frames())

	webrtcHandler := stream.NewWebRTCHandler(broadcaster)

	if cfg.LocalPlayback {
		speaker := playback.NewSpeaker(broadcaster)
		go func() {
			if err := speaker.Run(ctx); err != nil {
				logging.Errorf("local playback: %v", err)
			}
		}()
	}

	statusPayload := func() map[string]any {
		st := engine.Status()
		return map[string]any{
			"category":     st.Category,
			"track_index":  st.TrackIndex,
			"queue_length": st.QueueLength,
			"speaking":     st.Speaking,
			"loading":      narrator.Loading(),
			"categories":   cat.Categories(),
			"effects":      cat.EffectKeys(),
			"listeners":    broadcaster.ListenerCount() + webrtcHandler.PeerCount(),
		}
	}

	mux := http.NewServeMux()

	// Web UI
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.IndexHTML)
	})

	// Audio streams
	mux.Handle("/stream", stream.NewMP3Handler(broadcaster))
	mux.Handle("/offer", webrtcHandler)

	// API endpoints
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(statusPayload())
	})

	mux.HandleFunc("/api/playlist", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Category string `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == "" {
			http.Error(w, "invalid category", http.StatusBadRequest)
			return
		}
		if !cat.IsValidCategory(req.Category) {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		sequencer.Start(req.Category)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "category": req.Category})
	})

	mux.HandleFunc("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		sequencer.Stop()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	mux.HandleFunc("/api/sfx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			http.Error(w, "invalid effect key", http.StatusBadRequest)
			return
		}
		effects.Play(req.Key)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	mux.HandleFunc("/api/narrate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		switch err := narrator.Narrate(r.Context(), req.Text); {
		case err == nil:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"ok": true})
		case errors.Is(err, narration.ErrConfiguration):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, narration.ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
	})

	mux.HandleFunc("/api/credential", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			http.Error(w, "invalid credential", http.StatusBadRequest)
			return
		}
		if err := creds.Set(req.Key); err != nil {
			logging.Errorf("persist credential: %v", err)
			http.Error(w, "could not persist credential", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	// Live state feed for the web UI
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Debugf("ws upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Discard client messages; detect disconnect.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					conn.Close()
					return
				}
			}
		}()

		ticker := time.NewTicker(statusPushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteJSON(statusPayload()); err != nil {
					return
				}
			}
		}
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		logging.Infof("shutting down...")
		server.Close()
	}()

	logging.Infof("storydeck live on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatalf("HTTP server error: %v", err)
	}
}
