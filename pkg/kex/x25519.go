package kex

import (
	"crypto/ecdh"
	"crypto/rand"

	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// x25519KeyPair is the classical half of the cascaded key exchange.
type x25519KeyPair struct {
	private *ecdh.PrivateKey
	public  *ecdh.PublicKey
}

func generateX25519KeyPair() (*x25519KeyPair, error) {
	private, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &x25519KeyPair{private: private, public: private.PublicKey()}, nil
}

// x25519SharedSecret computes the ECDH shared secret between a local
// private key and a peer's public key bytes.
func x25519SharedSecret(private *ecdh.PrivateKey, peerPublic []byte) ([]byte, error) {
	pub, err := ecdh.X25519().NewPublicKey(peerPublic)
	if err != nil {
		return nil, qerrors.ErrInvalidCiphertext
	}
	secret, err := private.ECDH(pub)
	if err != nil {
		return nil, err
	}
	return secret, nil
}
