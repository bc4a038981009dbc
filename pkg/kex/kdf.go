package kex

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// DeriveKey runs SHAKE-256 over a length-prefixed domain separator and
// input, squeezing outputLen bytes. The length prefixes are 4-byte
// big-endian integers so distinct (domain, input) pairs can never collide
// under naive concatenation.
func DeriveKey(domain string, input []byte, outputLen int) ([]byte, error) {
	if outputLen <= 0 || outputLen > 1<<20 {
		return nil, qerrors.ErrInvalidKeySize
	}

	h := sha3.NewShake256()
	writeLenPrefixed(h, []byte(domain))
	writeLenPrefixed(h, input)

	out := make([]byte, outputLen)
	_, _ = h.Read(out)
	return out, nil
}

// DeriveKeyMultiple is DeriveKey generalized over several length-prefixed
// inputs, each absorbed in order.
func DeriveKeyMultiple(domain string, inputs [][]byte, outputLen int) ([]byte, error) {
	if outputLen <= 0 || outputLen > 1<<20 {
		return nil, qerrors.ErrInvalidKeySize
	}

	h := sha3.NewShake256()
	writeLenPrefixed(h, []byte(domain))

	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(inputs)))
	h.Write(countBuf)
	for _, in := range inputs {
		writeLenPrefixed(h, in)
	}

	out := make([]byte, outputLen)
	_, _ = h.Read(out)
	return out, nil
}

func writeLenPrefixed(h sha3.ShakeHash, b []byte) {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(b)))
	h.Write(lenBuf)
	h.Write(b)
}

// TranscriptHash computes a binding SHA3-256 digest over an ordered,
// length-prefixed list of public handshake values. Used by the CH-KEM
// collaborator to bind the derived secret to the exchanged key shares;
// distinct from, and independent of, the MD5/SHA-1/SHA-256 transcript the
// core driver maintains for the Finished computation (pkg/digest).
func TranscriptHash(components ...[]byte) []byte {
	h := sha3.New256()
	countBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(countBuf, uint32(len(components)))
	h.Write(countBuf)
	for _, c := range components {
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(c)))
		h.Write(lenBuf)
		h.Write(c)
	}
	return h.Sum(nil)
}

// DeriveCHKEMSecret combines the X25519 and ML-KEM shared secrets with a
// binding transcript hash into the final CH-KEM shared secret. The output
// is indistinguishable from random as long as either cascaded mechanism
// remains unbroken.
func DeriveCHKEMSecret(x25519Secret, mlkemSecret, transcriptHash []byte) ([]byte, error) {
	if len(x25519Secret) != constants.X25519SharedSecretSize {
		return nil, qerrors.ErrInvalidKeySize
	}
	if len(mlkemSecret) != constants.MLKEMSharedSecretSize {
		return nil, qerrors.ErrInvalidKeySize
	}
	if len(transcriptHash) != constants.TranscriptHashSize {
		return nil, qerrors.ErrInvalidKeySize
	}
	return DeriveKeyMultiple(
		constants.DomainSeparatorHandshakeKeys,
		[][]byte{x25519Secret, mlkemSecret, transcriptHash},
		constants.CHKEMSharedSecretSize,
	)
}

// HandshakeKeys holds the directional keys and IVs derived from a CH-KEM
// master secret for protecting the remainder of the handshake and the
// application data that follows it.
type HandshakeKeys struct {
	ClientKey, ServerKey []byte
	ClientIV, ServerIV   []byte
}

// DeriveHandshakeKeys derives both directions' AEAD keys and IVs from the
// CH-KEM master secret in a single SHAKE-256 squeeze.
func DeriveHandshakeKeys(masterSecret []byte) (HandshakeKeys, error) {
	if len(masterSecret) != constants.CHKEMSharedSecretSize {
		return HandshakeKeys{}, qerrors.ErrInvalidKeySize
	}

	material, err := DeriveKey(
		constants.DomainSeparatorHandshakeKeys,
		masterSecret,
		2*constants.AESKeySize+2*constants.AESNonceSize,
	)
	if err != nil {
		return HandshakeKeys{}, err
	}

	off := 0
	clientKey := material[off : off+constants.AESKeySize]
	off += constants.AESKeySize
	serverKey := material[off : off+constants.AESKeySize]
	off += constants.AESKeySize
	clientIV := material[off : off+constants.AESNonceSize]
	off += constants.AESNonceSize
	serverIV := material[off : off+constants.AESNonceSize]

	return HandshakeKeys{
		ClientKey: clientKey, ServerKey: serverKey,
		ClientIV: clientIV, ServerIV: serverIV,
	}, nil
}

// DeriveFinishedVerifyData derives the verify_data field of a Finished
// message from the master secret and the peer-specific transcript digest,
// using a domain separator scoped to the sender's role.
func DeriveFinishedVerifyData(masterSecret, transcriptDigest []byte, fromClient bool) ([]byte, error) {
	domain := constants.DomainSeparatorServerFinish
	if fromClient {
		domain = constants.DomainSeparatorClientFinish
	}
	return DeriveKeyMultiple(domain, [][]byte{masterSecret, transcriptDigest}, constants.FinishedVerifyDataLen)
}
