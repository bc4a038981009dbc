package handshake

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"time"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
)

var errRandomLen = errors.New("handshake: random buffer has the wrong length")

// fillRandomWithTimestamp fills dst (expected to be RandomLen bytes) the way
// the source does: the first four bytes carry the current Unix time, the
// remainder is cryptographically random. The timestamp prefix is a legacy
// RFC 5246 convention this driver preserves for wire compatibility; nothing
// here actually relies on it for security.
func fillRandomWithTimestamp(dst []byte) error {
	if len(dst) != constants.RandomLen {
		return errRandomLen
	}
	binary.BigEndian.PutUint32(dst[:4], uint32(time.Now().Unix()))
	_, err := rand.Read(dst[4:])
	return err
}
