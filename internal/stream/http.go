package stream

import (
	"context"
	"io"
	"net/http"
	"os/exec"
	"strconv"

	"github.com/perklund/storydeck/internal/audio"
	"github.com/perklund/storydeck/internal/logging"
)

// MP3Handler serves the mixed table audio as a chunked MP3 stream.
// Each connection runs its own ffmpeg process encoding PCM to MP3.
type MP3Handler struct {
	broadcaster *Broadcaster
}

func NewMP3Handler(b *Broadcaster) *MP3Handler {
	return &MP3Handler{broadcaster: b}
}

func (h *MP3Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Connection", "close")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("ICY-Name", "storydeck")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
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
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		logging.Errorf("MP3 stream: stdin pipe: %v", err)
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logging.Errorf("MP3 stream: stdout pipe: %v", err)
		return
	}
	if err := cmd.Start(); err != nil {
		logging.Errorf("MP3 stream: ffmpeg start: %v", err)
		return
	}

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	logging.Infof("MP3 listener connected (total: %d)", h.broadcaster.ListenerCount())
	defer logging.Infof("MP3 listener disconnected")

	go func() {
		defer stdin.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-listener.Done():
				return
			case frame, ok := <-listener.C:
				if !ok {
					return
				}
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
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				break
			}
			flusher.Flush()
		}
		if err != nil {
			if err != io.EOF {
				logging.Errorf("MP3 stream: ffmpeg read: %v", err)
			}
			break
		}
	}
	cmd.Wait()
}
