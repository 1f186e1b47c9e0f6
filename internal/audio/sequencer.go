package audio

import (
	"github.com/perklund/storydeck/internal/catalog"
	"github.com/perklund/storydeck/internal/logging"
)

// Sequencer owns the shuffled background-music queue: which category is
// active, what plays next, and when to loop. Each activation gets a fresh
// shuffle and a new generation id; re-looping never reshuffles. All state
// below the constructor fields is confined to the engine loop.
type Sequencer struct {
	engine *Engine
	tracks *catalog.Catalog

	// decode and spawn are swappable for tests.
	decode func(path string) ([]int16, error)
	spawn  func(fn func())

	// Loop-confined state.
	generation uint64
	category   string
	queue      []string
	cursor     int
}

// NewSequencer creates a sequencer bound to an engine and catalog.
func NewSequencer(engine *Engine, tracks *catalog.Catalog) *Sequencer {
	return &Sequencer{
		engine: engine,
		tracks: tracks,
		decode: DecodeFile,
		spawn:  func(fn func()) { go fn() },
	}
}

// Start activates a category: the current channel (if any) fades out, a
// fresh shuffle is generated, and the first track fades in from silence.
// Starting the already-active category restarts with a fresh shuffle.
// An unknown or empty category is a silent no-op: current playback, if
// any, keeps going untouched.
func (s *Sequencer) Start(category string) {
	tracks := s.tracks.Tracks(category)
	s.engine.Do(func() {
		if len(tracks) == 0 {
			logging.Warnf("sequencer: no tracks for category %q, ignoring", category)
			return
		}

		s.generation++
		s.engine.retireMusic(TrackFadeOut)
		s.queue = Shuffle(tracks)
		s.cursor = 0
		s.category = category
		s.publishState()

		logging.Infof("sequencer: category %q activated, %d tracks", category, len(s.queue))
		s.loadTrack(s.generation, s.queue[0])
	})
}

// Stop deactivates the playlist: the active channel fades out and the
// queue is discarded. Calling Stop while already idle is a no-op.
func (s *Sequencer) Stop() {
	s.engine.Do(func() {
		s.generation++
		s.engine.retireMusic(TrackFadeOut)
		s.queue = nil
		s.cursor = 0
		s.category = ""
		s.publishState()
	})
}

// loadTrack decodes a track off the loop, then attaches the resulting
// channel back on the loop -- if the activation it belongs to is still the
// current one. The generation guard is what discards stale attachments and
// stale completions after a stop or category switch, including restarts of
// the same category.
func (s *Sequencer) loadTrack(gen uint64, path string) {
	s.spawn(func() {
		samples, err := s.decode(path)
		if err != nil {
			// Playback state is left alone; the current track keeps going.
			logging.Errorf("sequencer: %v", err)
			return
		}
		s.engine.Do(func() {
			if gen != s.generation {
				return // superseded activation, discard
			}
			ch := newChannel(samples, 0)
			ch.fadeFromTo(0, s.engine.duckTarget(), TrackFadeIn)
			ch.onComplete = func() { s.trackDone(gen) }
			s.engine.attachMusic(ch)
		})
	})
}

// trackDone advances the cursor when the current track ends naturally,
// wrapping to the head of the queue without reshuffling.
func (s *Sequencer) trackDone(gen uint64) {
	if gen != s.generation {
		return
	}
	s.cursor = (s.cursor + 1) % len(s.queue)
	s.publishState()
	s.loadTrack(gen, s.queue[s.cursor])
}

func (s *Sequencer) publishState() {
	category, cursor, length := s.category, s.cursor, len(s.queue)
	s.engine.updateStatus(func(st *Status) {
		st.Category = category
		st.TrackIndex = cursor
		st.QueueLength = length
	})
}
