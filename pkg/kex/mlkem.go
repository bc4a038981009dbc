package kex

import (
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// mlkemKeyPair is the post-quantum half of the cascaded key exchange.
type mlkemKeyPair struct {
	public  *mlkem1024.PublicKey
	private *mlkem1024.PrivateKey
}

func generateMLKEMKeyPair() (*mlkemKeyPair, error) {
	pk, sk, err := mlkem1024.GenerateKeyPair(nil)
	if err != nil {
		return nil, err
	}
	return &mlkemKeyPair{public: pk, private: sk}, nil
}

func (kp *mlkemKeyPair) publicKeyBytes() []byte {
	buf := make([]byte, mlkem1024.PublicKeySize)
	kp.public.Pack(buf)
	return buf
}

// mlkemEncapsulate produces a fresh ciphertext/shared-secret pair against
// the peer's encoded public key.
func mlkemEncapsulate(peerPublic []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(peerPublic) != constants.MLKEMPublicKeySize {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}
	pk := new(mlkem1024.PublicKey)
	if err := pk.Unpack(peerPublic); err != nil {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}

	ct := make([]byte, mlkem1024.CiphertextSize)
	ss := make([]byte, mlkem1024.SharedKeySize)
	seed := make([]byte, mlkem1024.EncapsulationSeedSize)
	if err := secureRandom(seed); err != nil {
		return nil, nil, err
	}
	pk.EncapsulateTo(ct, ss, seed)
	return ct, ss, nil
}

// mlkemDecapsulate recovers the shared secret from a ciphertext using the
// local decapsulation key. Decapsulation never fails outwardly (FO
// transform implicit rejection) but a malformed ciphertext length is
// rejected up front.
func (kp *mlkemKeyPair) decapsulate(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != constants.MLKEMCiphertextSize {
		return nil, qerrors.ErrInvalidCiphertext
	}
	ss := make([]byte, mlkem1024.SharedKeySize)
	kp.private.DecapsulateTo(ss, ciphertext)
	return ss, nil
}
