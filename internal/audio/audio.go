// Package audio implements the playback core: a single mixing loop that
// owns the background-music, narration, and sound-effect channels and
// produces the mixed master output as fixed-size PCM frames.
package audio

import (
	"errors"
	"time"
)

const (
	SampleRate    = 48000
	Channels      = 2
	BitDepth      = 16
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 960                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per frame (int16 = 2 bytes)
)

// Design values for the playlist handoff and ducking behavior.
const (
	TrackFadeIn  = 2000 * time.Millisecond // new track rises from silence
	TrackFadeOut = 1000 * time.Millisecond // outgoing track on stop/switch
	DuckFade     = 500 * time.Millisecond
	DuckLevel    = 0.2
	FullLevel    = 1.0
)

// ErrPlayback marks a resource that could not be loaded or decoded. The
// sequencer treats it as non-fatal: the failure is logged, no completion
// fires, and playback state is otherwise untouched.
var ErrPlayback = errors.New("playback resource error")

// framesIn returns the number of whole frames in a duration, at least 1.
func framesIn(d time.Duration) int {
	n := int(d / FrameDuration)
	if n < 1 {
		n = 1
	}
	return n
}
