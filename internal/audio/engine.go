package audio

import (
	"context"
	"sync"
	"time"
)

// Status is a read-only snapshot of the playback core for rendering.
type Status struct {
	Category    string `json:"category"`
	TrackIndex  int    `json:"track_index"`
	QueueLength int    `json:"queue_length"`
	Speaking    bool   `json:"speaking"`
}

// Engine owns every live channel and mixes them into the master output,
// one 20ms frame per tick. All playback state is confined to the loop
// goroutine: external callers post commands with Do, and completion
// callbacks and fade steps run on the loop. That single logical thread is
// what makes the handoff and ducking logic race-free without locks.
type Engine struct {
	cmdCh   chan func()
	frameCh chan []int16

	music     *channel   // the one live background-music channel, or nil
	narration *channel   // the one live narration channel, or nil
	effects   []*channel // one-shot sound effects
	retiring  []*channel // outgoing music channels fading to silence

	speaking bool

	statusMu sync.RWMutex
	status   Status
}

// NewEngine creates a stopped engine. Call Run to start mixing.
func NewEngine() *Engine {
	return &Engine{
		cmdCh:   make(chan func(), 128),
		frameCh: make(chan []int16, 100),
	}
}

// Frames returns the channel of mixed master frames (20ms each).
func (e *Engine) Frames() <-chan []int16 {
	return e.frameCh
}

// Do schedules fn onto the mixer loop. Commands are executed in order,
// serialized with frame mixing and completion callbacks.
func (e *Engine) Do(fn func()) {
	e.cmdCh <- fn
}

// Status returns the current playback snapshot.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// Run drives the mixer loop. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.frameCh)

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-e.cmdCh:
			fn()
		case <-ticker.C:
			frame := e.mixFrame()
			select {
			case e.frameCh <- frame:
			case <-ctx.Done():
				return
			}
		}
	}
}

// mixFrame renders one master frame and advances all fades. Channels that
// reach their natural end fire completion here, on the loop.
func (e *Engine) mixFrame() []int16 {
	acc := make([]float64, FrameSamples)

	if ch := e.music; ch != nil {
		if ch.mixFrame(acc) {
			e.music = nil
			ch.complete()
		}
	}

	kept := e.retiring[:0]
	for _, ch := range e.retiring {
		exhausted := ch.mixFrame(acc)
		if exhausted || ch.fadeDone() {
			ch.stopNow() // release; completion is already suppressed
			continue
		}
		kept = append(kept, ch)
	}
	e.retiring = kept

	if ch := e.narration; ch != nil {
		if ch.mixFrame(acc) {
			e.narration = nil
			ch.complete()
		}
	}

	liveFx := e.effects[:0]
	for _, ch := range e.effects {
		if ch.mixFrame(acc) {
			ch.complete()
			continue
		}
		liveFx = append(liveFx, ch)
	}
	e.effects = liveFx

	return clipFrame(acc)
}

// attachMusic installs the new background-music channel. Exactly one music
// channel is live at a time; retireMusic must have been called for any
// predecessor.
func (e *Engine) attachMusic(ch *channel) {
	e.music = ch
}

// retireMusic demotes the live music channel to the retiring list: it
// fades to silence over d, its completion notification is suppressed, and
// the engine releases it when the fade ends. Fire-and-forget cleanup.
func (e *Engine) retireMusic(d time.Duration) {
	ch := e.music
	if ch == nil {
		return
	}
	e.music = nil
	ch.onComplete = nil
	ch.fadeTo(0, d)
	e.retiring = append(e.retiring, ch)
}

// PlayNarration replaces any live narration channel with a new one playing
// samples at full volume. onDone runs on the loop after natural completion.
func (e *Engine) PlayNarration(samples []int16, onDone func()) {
	e.Do(func() {
		if old := e.narration; old != nil {
			old.stopNow()
			e.narration = nil
		}
		ch := newChannel(samples, FullLevel)
		ch.onComplete = func() {
			e.setSpeaking(false)
			if onDone != nil {
				onDone()
			}
		}
		e.narration = ch
		e.setSpeaking(true)
	})
}

// StopNarration releases the live narration channel, if any, without
// firing its completion.
func (e *Engine) StopNarration() {
	e.Do(func() {
		if ch := e.narration; ch != nil {
			ch.stopNow()
			e.narration = nil
			e.setSpeaking(false)
		}
	})
}

// PlayEffect mixes in a one-shot sound effect at full volume.
func (e *Engine) PlayEffect(samples []int16) {
	e.Do(func() {
		e.effects = append(e.effects, newChannel(samples, FullLevel))
	})
}

func (e *Engine) updateStatus(fn func(*Status)) {
	e.statusMu.Lock()
	fn(&e.status)
	e.statusMu.Unlock()
}
