package audio

// Ducking: while narration is speaking, the background music fades toward
// a reduced level so the voice sits on top; when the narration ends it
// fades back to full. The target is re-read whenever a music channel is
// created, so a category switch mid-narration comes up already ducked
// rather than blasting over the voice.

// setSpeaking records a narration active/inactive transition and retargets
// the live music channel. No-op when the flag does not change or when no
// music is playing. Must run on the engine loop.
func (e *Engine) setSpeaking(v bool) {
	if e.speaking == v {
		return
	}
	e.speaking = v
	if e.music != nil {
		e.music.fadeTo(e.duckTarget(), DuckFade)
	}
	e.updateStatus(func(st *Status) { st.Speaking = v })
}

// duckTarget is the music volume the ducking state currently calls for.
func (e *Engine) duckTarget() float64 {
	if e.speaking {
		return DuckLevel
	}
	return FullLevel
}
