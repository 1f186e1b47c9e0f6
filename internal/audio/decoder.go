package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os/exec"
)

// DecodeFile runs FFmpeg to decode an audio file to raw PCM int16 samples,
// interleaved stereo at 48kHz. A missing or undecodable resource wraps
// ErrPlayback.
func DecodeFile(path string) ([]int16, error) {
	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"-loglevel", "error",
		"pipe:1",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg decode %s: %v", ErrPlayback, path, err)
	}
	return bytesToSamples(out), nil
}

// DecodeBytes decodes an in-memory audio payload (e.g. a synthesized
// narration response) the same way DecodeFile decodes a file.
func DecodeBytes(payload []byte) ([]int16, error) {
	cmd := exec.Command("ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"-loglevel", "error",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(payload)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg decode payload: %v", ErrPlayback, err)
	}
	return bytesToSamples(out), nil
}

func bytesToSamples(out []byte) []int16 {
	// Ensure even byte count for int16 alignment
	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}
	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}
	return samples
}
