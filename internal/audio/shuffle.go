package audio

import "math/rand"

// Shuffle returns a uniform random permutation of tracks without mutating
// the input. Pure Fisher-Yates; safe to call concurrently.
func Shuffle(tracks []string) []string {
	out := make([]string, len(tracks))
	copy(out, tracks)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
