package handshake

import (
	"crypto/subtle"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/digest"
	"github.com/sara-star-quant/tls-handshake/pkg/kex"
)

// finishedSend returns the Handler for the fromClient direction's Finished
// message: it derives verify_data over the transcript accumulated so far
// (this message's own bytes are folded in only after the driver finishes
// framing it, never before) and writes it out.
func finishedSend(fromClient bool) Handler {
	return func(conn *Connection) error {
		transcriptDigest := conn.transcript.Sum(digest.SHA256, fromClient)
		verifyData, err := kex.DeriveFinishedVerifyData(conn.pending.MasterSecret, transcriptDigest, fromClient)
		if err != nil {
			return err
		}
		if err := conn.handshakeIO.WriteBytes(verifyData); err != nil {
			return err
		}
		if fromClient {
			conn.nextState = ServerChangeCipherSpec
		} else {
			conn.nextState = HandshakeOver
		}
		return nil
	}
}

// finishedRecv returns the Handler for the fromClient direction's Finished
// message: it recomputes the expected verify_data from the same
// pre-self transcript state and compares in constant time.
func finishedRecv(fromClient bool) Handler {
	return func(conn *Connection) error {
		if conn.handshakeIO.Available() != constants.FinishedVerifyDataLen {
			return qerrors.ErrBadMessage
		}
		peerVerifyData, err := conn.handshakeIO.ReadBytes(constants.FinishedVerifyDataLen)
		if err != nil {
			return qerrors.ErrBadMessage
		}

		transcriptDigest := conn.transcript.Sum(digest.SHA256, fromClient)
		expected, err := kex.DeriveFinishedVerifyData(conn.pending.MasterSecret, transcriptDigest, fromClient)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare(peerVerifyData, expected) != 1 {
			conn.stats.RecordAuthFailure()
			return qerrors.ErrAuthenticationFailed
		}

		if fromClient {
			conn.nextState = ServerChangeCipherSpec
		} else {
			conn.nextState = HandshakeOver
		}
		return nil
	}
}
