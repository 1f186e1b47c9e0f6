package audio

import "time"

// channel is the single-stream playback primitive: one decoded PCM buffer,
// an instantaneous gain, and at most one in-flight gain ramp. Channels are
// owned and mutated exclusively by the engine loop; nothing else touches
// their volume or fade state.
type channel struct {
	samples []int16
	pos     int
	gain    float64
	ramp    *ramp

	// onComplete fires exactly once when playback reaches the natural end
	// of the buffer. It never fires after stop().
	onComplete func()
	stopped    bool
}

func newChannel(samples []int16, gain float64) *channel {
	return &channel{samples: samples, gain: gain}
}

// fadeTo replaces any in-flight ramp with a new one from the current gain
// toward target. The superseded ramp is silently cancelled.
func (c *channel) fadeTo(target float64, d time.Duration) {
	c.ramp = newRamp(c.gain, target, d)
}

// fadeFromTo starts a ramp from an explicit level, e.g. a fade-in from
// silence regardless of the channel's current gain.
func (c *channel) fadeFromTo(from, to float64, d time.Duration) {
	c.gain = from
	c.ramp = newRamp(from, to, d)
}

// setGain applies an instant level and cancels any in-flight ramp.
func (c *channel) setGain(v float64) {
	c.gain = v
	c.ramp = nil
}

// stop releases the buffer and suppresses the completion notification.
func (c *channel) stopNow() {
	c.stopped = true
	c.samples = nil
}

// fadeDone reports whether the channel has no in-flight ramp left.
func (c *channel) fadeDone() bool {
	return c.ramp == nil || c.ramp.done()
}

// mixFrame steps the fade by one frame and accumulates one frame of
// gain-scaled samples into acc. Returns true when the buffer is exhausted.
func (c *channel) mixFrame(acc []float64) bool {
	if c.stopped || c.pos >= len(c.samples) {
		return true
	}
	if c.ramp != nil {
		c.gain = c.ramp.step()
		if c.ramp.done() {
			c.ramp = nil
		}
	}

	end := c.pos + FrameSamples
	if end > len(c.samples) {
		end = len(c.samples)
	}
	accumulate(acc, c.samples[c.pos:end], c.gain)
	c.pos = end
	return c.pos >= len(c.samples)
}

// complete fires the completion notification unless the channel was
// stopped. Called by the engine after the final frame was mixed.
func (c *channel) complete() {
	if c.stopped || c.onComplete == nil {
		return
	}
	cb := c.onComplete
	c.onComplete = nil
	c.samples = nil
	cb()
}
