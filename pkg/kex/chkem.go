package kex

import (
	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// KeyPair is a CH-KEM (Cascaded Hybrid KEM) key pair: X25519 for classical
// defense-in-depth, ML-KEM-1024 for quantum resistance. It backs the
// ServerKeyExchange message the SERVER_KEY state sends and the
// ClientKeyExchange message the CLIENT_KEY state consumes.
type KeyPair struct {
	x25519 *x25519KeyPair
	mlkem  *mlkemKeyPair
}

// GenerateKeyPair generates a fresh CH-KEM key pair.
func GenerateKeyPair() (*KeyPair, error) {
	x, err := generateX25519KeyPair()
	if err != nil {
		return nil, err
	}
	m, err := generateMLKEMKeyPair()
	if err != nil {
		return nil, err
	}
	return &KeyPair{x25519: x, mlkem: m}, nil
}

// PublicKeyBytes encodes the key pair's public component: the 32-byte
// X25519 public key followed by the 1568-byte ML-KEM-1024 public key,
// exactly as it appears in the ServerKeyExchange body.
func (kp *KeyPair) PublicKeyBytes() []byte {
	out := make([]byte, 0, constants.CHKEMPublicKeySize)
	out = append(out, kp.x25519.public.Bytes()...)
	out = append(out, kp.mlkem.publicKeyBytes()...)
	return out
}

// Encapsulate runs the client side of the exchange against a server's
// encoded public key: it generates an ephemeral X25519 key, performs the
// classical DH, encapsulates against ML-KEM, and binds both secrets
// together with a transcript hash into a 32-byte shared secret. It
// returns the CH-KEM ciphertext that belongs in the ClientKeyExchange
// body alongside the derived secret.
func Encapsulate(serverPublic []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(serverPublic) != constants.CHKEMPublicKeySize {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}
	serverX25519 := serverPublic[:constants.X25519PublicKeySize]
	serverMLKEM := serverPublic[constants.X25519PublicKeySize:]

	ephemeral, err := generateX25519KeyPair()
	if err != nil {
		return nil, nil, err
	}
	x25519Secret, err := x25519SharedSecret(ephemeral.private, serverX25519)
	if err != nil {
		return nil, nil, err
	}

	mlkemCiphertext, mlkemSecret, err := mlkemEncapsulate(serverMLKEM)
	if err != nil {
		return nil, nil, err
	}

	ct := make([]byte, 0, constants.CHKEMCiphertextSize)
	ct = append(ct, ephemeral.public.Bytes()...)
	ct = append(ct, mlkemCiphertext...)

	transcript := TranscriptHash(serverX25519, serverMLKEM, ct)
	secret, err := DeriveCHKEMSecret(x25519Secret, mlkemSecret, transcript)
	Zeroize(x25519Secret)
	Zeroize(mlkemSecret)
	if err != nil {
		return nil, nil, err
	}
	return ct, secret, nil
}

// Decapsulate runs the server side: it recovers the shared secret from a
// CH-KEM ciphertext using this key pair's private components. The
// transcript hash binds identically to Encapsulate's, so both sides
// arrive at the same shared secret.
func (kp *KeyPair) Decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != constants.CHKEMCiphertextSize {
		return nil, qerrors.ErrInvalidCiphertext
	}
	ephemeralPublic := ciphertext[:constants.X25519PublicKeySize]
	mlkemCiphertext := ciphertext[constants.X25519PublicKeySize:]

	x25519Secret, err := x25519SharedSecret(kp.x25519.private, ephemeralPublic)
	if err != nil {
		return nil, err
	}
	mlkemSecret, err := kp.mlkem.decapsulate(mlkemCiphertext)
	if err != nil {
		return nil, err
	}

	transcript := TranscriptHash(kp.x25519.public.Bytes(), kp.mlkem.publicKeyBytes(), ciphertext)
	secret, err := DeriveCHKEMSecret(x25519Secret, mlkemSecret, transcript)
	Zeroize(x25519Secret)
	Zeroize(mlkemSecret)
	if err != nil {
		return nil, err
	}
	return secret, nil
}
