package audio

import "testing"

func makeSamples(frames int, val int16) []int16 {
	s := make([]int16, frames*FrameSamples)
	for i := range s {
		s[i] = val
	}
	return s
}

func TestChannelMixAppliesGain(t *testing.T) {
	ch := newChannel(makeSamples(1, 1000), 0.5)
	acc := make([]float64, FrameSamples)
	exhausted := ch.mixFrame(acc)

	if !exhausted {
		t.Error("Single-frame channel should be exhausted after one mix")
	}
	if acc[0] != 500 {
		t.Errorf("acc[0] = %v, want 500", acc[0])
	}
}

func TestChannelCompletionFiresOnce(t *testing.T) {
	ch := newChannel(makeSamples(1, 1), 1)
	fired := 0
	ch.onComplete = func() { fired++ }

	ch.complete()
	ch.complete()
	if fired != 1 {
		t.Errorf("Completion fired %d times, want exactly 1", fired)
	}
	if ch.samples != nil {
		t.Error("Completion should release the buffer")
	}
}

func TestChannelStopSuppressesCompletion(t *testing.T) {
	ch := newChannel(makeSamples(1, 1), 1)
	fired := false
	ch.onComplete = func() { fired = true }

	ch.stopNow()
	ch.complete()
	if fired {
		t.Error("Completion must never fire after stop")
	}
	if ch.samples != nil {
		t.Error("Stop should release the buffer")
	}

	acc := make([]float64, FrameSamples)
	if !ch.mixFrame(acc) {
		t.Error("Stopped channel should report exhausted")
	}
	if acc[0] != 0 {
		t.Error("Stopped channel must contribute silence")
	}
}

func TestChannelFadeSupersedes(t *testing.T) {
	ch := newChannel(makeSamples(400, 1000), 1)
	acc := make([]float64, FrameSamples)

	// Long fade toward silence, partially stepped.
	ch.fadeTo(0, TrackFadeOut)
	for i := 0; i < 10; i++ {
		ch.mixFrame(acc)
	}
	midGain := ch.gain
	if midGain >= 1 || midGain <= 0 {
		t.Fatalf("Mid-fade gain = %v, want between 0 and 1", midGain)
	}

	// A new fade supersedes: it starts from the current gain and heads to
	// the new target; the old ramp must not keep pulling toward 0.
	ch.fadeTo(1, DuckFade)
	prev := midGain
	for i := 0; i < framesIn(DuckFade); i++ {
		ch.mixFrame(acc)
		if ch.gain < prev {
			t.Fatalf("Superseding upward fade moved down: %v < %v", ch.gain, prev)
		}
		prev = ch.gain
	}
	if ch.gain != 1 {
		t.Errorf("Gain after superseding fade = %v, want 1", ch.gain)
	}
}

func TestChannelSetGainCancelsFade(t *testing.T) {
	ch := newChannel(makeSamples(10, 1000), 1)
	ch.fadeTo(0, TrackFadeOut)
	ch.setGain(0.7)

	acc := make([]float64, FrameSamples)
	ch.mixFrame(acc)
	if ch.gain != 0.7 {
		t.Errorf("Gain = %v, want 0.7 held after setGain", ch.gain)
	}
}

func TestChannelPartialFinalFrame(t *testing.T) {
	// A buffer that is not a whole number of frames still completes.
	ch := newChannel(make([]int16, FrameSamples+7), 1)
	acc := make([]float64, FrameSamples)

	if ch.mixFrame(acc) {
		t.Fatal("Exhausted too early")
	}
	if !ch.mixFrame(acc) {
		t.Error("Partial final frame should exhaust the channel")
	}
}
