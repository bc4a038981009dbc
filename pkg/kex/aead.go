// Package kex supplies the default key-exchange and record-protection
// collaborator this driver's core treats as external: the cascaded hybrid
// key encapsulation (X25519 + ML-KEM-1024) that stands in for the classic
// ServerKeyExchange/ClientKeyExchange exchange, the SHAKE-256 based key
// derivation that turns the shared secret into traffic keys, and the AEAD
// that protects records once ChangeCipherSpec has been processed.
//
// None of this is part of the handshake state machine itself; it exists so
// the driver is runnable end to end rather than stopping at the boundary
// the state machine hands off to.
package kex

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// AEAD is a nonce-managed authenticated cipher over one traffic direction.
// It satisfies pkg/record.Protection.
type AEAD struct {
	cipher cipher.AEAD
	suite  constants.CipherSuite

	mu      sync.Mutex
	counter uint64
}

// NewAEAD builds the AEAD for suite, keyed by key (exactly AESKeySize
// bytes regardless of which underlying cipher is selected).
func NewAEAD(suite constants.CipherSuite, key []byte) (*AEAD, error) {
	if len(key) != constants.AESKeySize {
		return nil, qerrors.ErrInvalidKeySize
	}

	var c cipher.AEAD
	switch suite {
	case constants.CipherSuiteCHKEMAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		c, err = cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
	case constants.CipherSuiteCHKEMChaCha20Poly1305:
		var err error
		c, err = chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
	default:
		return nil, qerrors.ErrCipherMismatch
	}

	return &AEAD{cipher: c, suite: suite}, nil
}

// Seal implements record.Protection: it prepends a counter-derived nonce
// to the sealed output so Open can recover it without out-of-band state.
func (a *AEAD) Seal(plaintext []byte) ([]byte, error) {
	nonce, err := a.nextNonce()
	if err != nil {
		return nil, err
	}
	out := make([]byte, constants.AESNonceSize, constants.AESNonceSize+len(plaintext)+constants.AESTagSize)
	copy(out, nonce)
	out = a.cipher.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Open implements record.Protection, recovering the nonce from the
// ciphertext's prefix.
func (a *AEAD) Open(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < constants.AESNonceSize+constants.AESTagSize {
		return nil, qerrors.ErrInvalidCiphertext
	}
	nonce := ciphertext[:constants.AESNonceSize]
	plaintext, err := a.cipher.Open(nil, nonce, ciphertext[constants.AESNonceSize:], nil)
	if err != nil {
		return nil, qerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// nextNonce derives the next 96-bit nonce from a monotonic counter, the
// low 8 bytes big-endian, the high 4 bytes zero. Each (key, nonce) pair is
// used at most once for the cipher's lifetime.
func (a *AEAD) nextNonce() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.counter == ^uint64(0) {
		return nil, qerrors.ErrNonceSpaceExhausted
	}
	nonce := make([]byte, constants.AESNonceSize)
	binary.BigEndian.PutUint64(nonce[4:], a.counter)
	a.counter++
	return nonce, nil
}

// Suite reports which cipher suite this AEAD was constructed for.
func (a *AEAD) Suite() constants.CipherSuite { return a.suite }
