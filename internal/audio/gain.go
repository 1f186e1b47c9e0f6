package audio

import "time"

// ramp is a linear gain transition stepped once per mixed frame. A channel
// carries at most one ramp; installing a new one discards the old, which is
// what makes fades linearizable.
type ramp struct {
	from, to float64
	pos      int
	length   int // frames
}

func newRamp(from, to float64, d time.Duration) *ramp {
	return &ramp{from: from, to: to, length: framesIn(d)}
}

// step advances the ramp one frame and returns the gain for that frame.
// Past the end it holds the target level.
func (r *ramp) step() float64 {
	if r.pos >= r.length {
		return r.to
	}
	r.pos++
	t := float64(r.pos) / float64(r.length)
	return r.from + (r.to-r.from)*t
}

func (r *ramp) done() bool {
	return r.pos >= r.length
}

// accumulate adds gain-scaled samples into the float accumulator. src may
// be shorter than one frame at the end of a buffer.
func accumulate(acc []float64, src []int16, gain float64) {
	for i, s := range src {
		acc[i] += float64(s) * gain
	}
}

// clipFrame converts the accumulator to int16 samples, clipping to range.
func clipFrame(acc []float64) []int16 {
	out := make([]int16, len(acc))
	for i, v := range acc {
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(uint16(s))
		buf[i*2+1] = byte(uint16(s) >> 8)
	}
	return buf
}
