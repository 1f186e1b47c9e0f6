package audio

import (
	"context"
	"testing"
	"time"

	"github.com/perklund/storydeck/internal/catalog"
)

// drain runs queued engine commands inline until none remain. Tests drive
// the loop by hand instead of running the ticker.
func drain(e *Engine) {
	for {
		select {
		case fn := <-e.cmdCh:
			fn()
		default:
			return
		}
	}
}

// newTestRig builds an engine plus sequencer with synchronous decode and
// spawn, so every Start/Stop settles completely inside drain.
func newTestRig(music map[string][]string) (*Engine, *Sequencer) {
	e := NewEngine()
	c := &catalog.Catalog{
		Music:   music,
		Effects: map[string]string{},
	}
	s := NewSequencer(e, c)
	s.decode = func(path string) ([]int16, error) {
		return makeSamples(400, 100), nil // 8s of audio, outlasts every fade
	}
	s.spawn = func(fn func()) { fn() }
	return e, s
}

// finishTrack forces the live music channel to its natural end and mixes
// one frame so the completion fires on the loop.
func finishTrack(e *Engine) {
	ch := e.music
	ch.pos = len(ch.samples)
	e.mixFrame()
	drain(e)
}

func TestNarrationLifecycle(t *testing.T) {
	e := NewEngine()

	doneCount := 0
	e.PlayNarration(makeSamples(3, 50), func() { doneCount++ })
	drain(e)

	if e.narration == nil {
		t.Fatal("No narration channel after PlayNarration")
	}
	if !e.Status().Speaking {
		t.Error("Speaking flag should be true while narration plays")
	}

	for i := 0; i < 3; i++ {
		e.mixFrame()
	}
	drain(e)

	if e.narration != nil {
		t.Error("Narration channel should be released after completion")
	}
	if e.Status().Speaking {
		t.Error("Speaking flag should clear on completion")
	}
	if doneCount != 1 {
		t.Errorf("onDone fired %d times, want 1", doneCount)
	}
}

func TestNarrationStopSuppressesCompletion(t *testing.T) {
	e := NewEngine()

	done := false
	e.PlayNarration(makeSamples(3, 50), func() { done = true })
	drain(e)
	e.StopNarration()
	drain(e)

	if e.Status().Speaking {
		t.Error("Speaking flag should clear on explicit stop")
	}

	for i := 0; i < 5; i++ {
		e.mixFrame()
	}
	drain(e)
	if done {
		t.Error("onDone must not fire after explicit stop")
	}
}

func TestNarrationSupersededReleasesOldChannel(t *testing.T) {
	e := NewEngine()

	firstDone := false
	e.PlayNarration(makeSamples(10, 50), func() { firstDone = true })
	drain(e)
	first := e.narration

	e.PlayNarration(makeSamples(2, 60), nil)
	drain(e)

	if e.narration == first {
		t.Fatal("New narration should replace the old channel")
	}
	if !first.stopped {
		t.Error("Superseded narration channel should be stopped")
	}

	for i := 0; i < 3; i++ {
		e.mixFrame()
	}
	drain(e)
	if firstDone {
		t.Error("Superseded narration must not fire completion")
	}
	if e.Status().Speaking {
		t.Error("Speaking should clear when the replacement completes")
	}
}

func TestPlayEffectRunsToCompletion(t *testing.T) {
	e := NewEngine()

	e.PlayEffect(makeSamples(2, 500))
	e.PlayEffect(makeSamples(4, 500))
	drain(e)

	if len(e.effects) != 2 {
		t.Fatalf("Live effects = %d, want 2", len(e.effects))
	}

	e.mixFrame()
	e.mixFrame()
	if len(e.effects) != 1 {
		t.Errorf("After 2 frames live effects = %d, want 1", len(e.effects))
	}

	e.mixFrame()
	e.mixFrame()
	if len(e.effects) != 0 {
		t.Errorf("After 4 frames live effects = %d, want 0", len(e.effects))
	}
}

func TestMixFrameSumsMusicAndNarration(t *testing.T) {
	e := NewEngine()

	music := newChannel(makeSamples(10, 1000), FullLevel)
	e.attachMusic(music)
	e.PlayNarration(makeSamples(10, 100), nil)
	drain(e)

	frame := e.mixFrame()

	// Narration at full volume, music ducking toward DuckLevel. The first
	// duck step is just below full, so the sum sits between the extremes.
	if frame[0] <= 300 {
		t.Errorf("frame[0] = %d, expected mixed music+narration above duck floor", frame[0])
	}
	if frame[0] > 1100 {
		t.Errorf("frame[0] = %d, expected at most full music + narration", frame[0])
	}
}

func TestEngineRunProducesFrames(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go e.Run(ctx)

	select {
	case frame := <-e.Frames():
		if len(frame) != FrameSamples {
			t.Errorf("Frame length = %d, want %d", len(frame), FrameSamples)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for a mixed frame")
	}
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Engine did not stop after context cancel")
	}
}
