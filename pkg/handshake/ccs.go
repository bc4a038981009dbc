package handshake

import (
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/kex"
)

// ccsValue is the single byte a ChangeCipherSpec record ever carries (RFC
// 5246 section 7.1).
const ccsValue = 1

// clientCCSSend writes the ChangeCipherSpec byte, then immediately arms
// write protection for everything this connection sends from here on: the
// Finished message that follows is the first record actually encrypted.
func clientCCSSend(conn *Connection) error {
	if err := conn.handshakeIO.WriteBytes([]byte{ccsValue}); err != nil {
		return err
	}
	aead, err := kex.NewAEAD(conn.pending.CipherSuite, conn.pending.HandshakeKeys.ClientKey)
	if err != nil {
		return err
	}
	conn.records.SetWriteProtection(aead)
	conn.nextState = ClientFinished
	return nil
}

// serverCCSRecv validates the received byte and arms read protection so
// the client's Finished, sent encrypted, can be opened.
func serverCCSRecv(conn *Connection) error {
	b, err := conn.handshakeIO.ReadBytes(1)
	if err != nil || b[0] != ccsValue || conn.handshakeIO.Available() != 0 {
		return qerrors.ErrBadMessage
	}
	aead, err := kex.NewAEAD(conn.pending.CipherSuite, conn.pending.HandshakeKeys.ClientKey)
	if err != nil {
		return err
	}
	conn.records.SetReadProtection(aead)
	conn.nextState = ClientFinished
	return nil
}

// serverCCSSend is clientCCSSend's dual: it arms write protection with the
// server-direction key ahead of sending its own Finished.
func serverCCSSend(conn *Connection) error {
	if err := conn.handshakeIO.WriteBytes([]byte{ccsValue}); err != nil {
		return err
	}
	aead, err := kex.NewAEAD(conn.pending.CipherSuite, conn.pending.HandshakeKeys.ServerKey)
	if err != nil {
		return err
	}
	conn.records.SetWriteProtection(aead)
	conn.nextState = ServerFinished
	return nil
}

// clientCCSRecv is serverCCSRecv's dual.
func clientCCSRecv(conn *Connection) error {
	b, err := conn.handshakeIO.ReadBytes(1)
	if err != nil || b[0] != ccsValue || conn.handshakeIO.Available() != 0 {
		return qerrors.ErrBadMessage
	}
	aead, err := kex.NewAEAD(conn.pending.CipherSuite, conn.pending.HandshakeKeys.ServerKey)
	if err != nil {
		return err
	}
	conn.records.SetReadProtection(aead)
	conn.nextState = ServerFinished
	return nil
}
