package osutil

import (
	"crypto/rand"
)

const randomNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomName returns a cryptographically random alphanumeric string of
// length n, suitable for use as a temporary file name. Each call produces a
// distinct name with overwhelming probability.
func RandomName(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("osutil: RandomName: system randomness unavailable: " + err.Error())
	}

	out := make([]byte, n)
	for i, c := range b {
		out[i] = randomNameAlphabet[int(c)%len(randomNameAlphabet)]
	}
	return string(out)
}
