// Package narration drives the text-to-speech provider and the lifecycle
// of the single narration channel: synthesize, decode, play at full
// volume while the music ducks underneath.
package narration

import (
	"context"
	"errors"
)

var (
	// ErrConfiguration marks a request rejected before any network or
	// audio action: missing credential or empty input.
	ErrConfiguration = errors.New("narration configuration error")

	// ErrProvider marks a provider/network failure or a malformed
	// response. The provider's message is preserved for display.
	ErrProvider = errors.New("narration provider error")

	// ErrBusy marks a request while another narration is in flight or
	// speaking. The command source is expected to disable the control;
	// the controller does not queue.
	ErrBusy = errors.New("narration already in progress")
)

// VoiceConfig is the fixed synthesis configuration. Not exposed to the
// command source.
type VoiceConfig struct {
	LanguageCode string
	Name         string
	Pitch        float64
	SpeakingRate float64
}

// Provider synthesizes text into a decodable audio payload.
type Provider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
