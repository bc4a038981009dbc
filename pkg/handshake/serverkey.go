package handshake

import (
	"encoding/binary"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/kex"
)

// serverKeySend generates a fresh CH-KEM key pair for this handshake and
// publishes its public component as the ServerKeyExchange body, 2-byte
// length-prefixed. A signed key-exchange params message (as classic
// ServerKeyExchange carries) is out of scope; CH-KEM's own transcript
// binding is what anchors the exchange instead.
func serverKeySend(conn *Connection) error {
	kp, err := kex.GenerateKeyPair()
	if err != nil {
		return err
	}
	conn.serverKeyPair = kp

	pub := kp.PublicKeyBytes()
	conn.pending.ServerKeyShare = pub
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(pub)))
	if err := conn.handshakeIO.WriteBytes(lenBuf); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes(pub); err != nil {
		return err
	}

	conn.nextState = ServerHelloDone
	return nil
}

// serverKeyRecv reads the server's CH-KEM public key share.
func serverKeyRecv(conn *Connection) error {
	lenBuf, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	n := int(binary.BigEndian.Uint16(lenBuf))
	if n != constants.CHKEMPublicKeySize || n > conn.handshakeIO.Available() {
		return qerrors.ErrBadMessage
	}
	pub, err := conn.handshakeIO.ReadBytes(n)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	conn.pending.ServerKeyShare = pub

	conn.nextState = ServerHelloDone
	return nil
}

// clientKeySend encapsulates against the server's published key share,
// deriving the master secret and the directional handshake keys from it.
// This is the point the client first knows enough to protect its own
// ChangeCipherSpec/Finished pair.
func clientKeySend(conn *Connection) error {
	ciphertext, secret, err := kex.Encapsulate(conn.pending.ServerKeyShare)
	if err != nil {
		return err
	}
	conn.pending.ClientKeyShare = ciphertext
	conn.pending.MasterSecret = secret

	keys, err := kex.DeriveHandshakeKeys(secret)
	if err != nil {
		return err
	}
	conn.pending.HandshakeKeys = keys

	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(ciphertext)))
	if err := conn.handshakeIO.WriteBytes(lenBuf); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes(ciphertext); err != nil {
		return err
	}

	conn.nextState = ClientChangeCipherSpec
	return nil
}

// clientKeyRecv decapsulates the client's CH-KEM ciphertext against this
// connection's server key pair, arriving at the same master secret and
// handshake keys clientKeySend derived.
func clientKeyRecv(conn *Connection) error {
	lenBuf, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	n := int(binary.BigEndian.Uint16(lenBuf))
	if n != constants.CHKEMCiphertextSize || n > conn.handshakeIO.Available() {
		return qerrors.ErrBadMessage
	}
	ciphertext, err := conn.handshakeIO.ReadBytes(n)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	conn.pending.ClientKeyShare = ciphertext

	if conn.serverKeyPair == nil {
		return qerrors.ErrBadMessage
	}
	secret, err := conn.serverKeyPair.Decapsulate(ciphertext)
	if err != nil {
		return qerrors.ErrDecapsulationFailed
	}
	conn.pending.MasterSecret = secret

	keys, err := kex.DeriveHandshakeKeys(secret)
	if err != nil {
		return err
	}
	conn.pending.HandshakeKeys = keys

	conn.nextState = ClientChangeCipherSpec
	return nil
}
