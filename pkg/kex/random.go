package kex

import (
	"crypto/rand"
	"io"
)

// secureRandom fills b with cryptographically secure random bytes from the
// OS CSPRNG. Failure here is a critical system failure, not a recoverable
// protocol error.
func secureRandom(b []byte) error {
	_, err := io.ReadFull(rand.Reader, b)
	return err
}

// Zeroize overwrites b with zeros. Intended for key and secret material
// that's no longer needed; the Go runtime may retain copies elsewhere, so
// this is a best-effort hygiene measure, not a hard guarantee.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
