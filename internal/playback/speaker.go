// Package playback plays the mixed master signal on the host's default
// audio output. It is optional; headless servers run without it.
package playback

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/perklund/storydeck/internal/audio"
	"github.com/perklund/storydeck/internal/logging"
	"github.com/perklund/storydeck/internal/stream"
)

// Speaker drains broadcaster frames to a portaudio output stream.
type Speaker struct {
	broadcaster *stream.Broadcaster
}

func NewSpeaker(b *stream.Broadcaster) *Speaker {
	return &Speaker{broadcaster: b}
}

// Run opens the default output device and plays frames until the context
// ends. Missing frames are played as silence so the device clock never
// starves.
func (s *Speaker) Run(ctx context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	defer portaudio.Terminate()

	buffer := make([]int16, audio.FrameSamples)
	pa, err := portaudio.OpenDefaultStream(0, audio.Channels, float64(audio.SampleRate), audio.FrameSize, &buffer)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer pa.Close()

	if err := pa.Start(); err != nil {
		return fmt.Errorf("start output stream: %w", err)
	}
	defer pa.Stop()

	listener := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(listener)

	logging.Infof("local playback started")
	defer logging.Infof("local playback stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-listener.C:
			if !ok {
				return nil
			}
			n := copy(buffer, frame)
			for i := n; i < len(buffer); i++ {
				buffer[i] = 0
			}
			if err := pa.Write(); err != nil {
				// Underruns are routine when the host is busy.
				logging.Debugf("portaudio write: %v", err)
			}
		}
	}
}
