package handshake

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/metrics"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
	"github.com/sara-star-quant/tls-handshake/pkg/record"
)

// maxBlindingDelay bounds the randomized delay imposed before a receive-side
// handler failure is surfaced to the caller, so a bad MAC or bad padding
// can't be distinguished from a structural error by timing alone.
const maxBlindingDelay = 10 * time.Second

// blindingSleep is swapped out in tests; production code always delays.
var blindingSleep = time.Sleep

// applyBlindingDelay sleeps a uniformly random duration in [0, maxBlindingDelay)
// before returning err unchanged. It is invoked for every handler failure on
// the receive path, since the read driver can't distinguish an attacker
// probing for a side channel from a genuinely malformed peer.
func (conn *Connection) applyBlindingDelay(err error) error {
	conn.stats.RecordBlindingDelay()
	n, randErr := rand.Int(rand.Reader, big.NewInt(int64(maxBlindingDelay)))
	if randErr != nil {
		return err
	}
	blindingSleep(time.Duration(n.Int64()))
	return err
}

// handshakeReadIO drives one state's worth of input: it accumulates
// records from the transport into conn.handshakeIO until a complete
// message is available (handling both standard TLS framing and, at
// CLIENT_HELLO, the legacy SSLv2-compat frame), validates that this
// connection's role is the expected reader, runs the state's handler, and
// folds the message into the transcript only once the handler has
// accepted it.
func handshakeReadIO(conn *Connection) (BlockedStatus, error) {
	action := stateMachine[conn.state]

	if err := validateRecvState(conn.mode, conn.state); err != nil {
		return NotBlocked, err
	}

	for {
		// A prior record may already have delivered this message in full,
		// packed alongside the one before it: check before blocking on the
		// transport for more.
		complete, err := conn.tryCompleteMessage(action)
		if err != nil {
			return NotBlocked, err
		}
		if complete {
			if err := conn.runReadHandler(action); err != nil {
				return NotBlocked, err
			}
			conn.logger.Debug("received handshake message", metrics.Fields{"state": conn.state.String()})
			conn.state = conn.nextState
			conn.stats.StateEntered(conn.state.String())
			return NotBlocked, nil
		}

		ct, payload, sslv2, err := conn.records.ReadRecord()
		if err != nil {
			if err == record.ErrWouldBlock {
				conn.stats.RecordBlockedOnRead()
				return BlockedOnRead, nil
			}
			return NotBlocked, err
		}

		if sslv2 != nil {
			if conn.state != ClientHello {
				return NotBlocked, qerrors.ErrBadMessage
			}
			return NotBlocked, conn.consumeSSLv2ClientHello(sslv2)
		}

		if ct == protocol.ContentTypeAlert {
			conn.alerts.processFragment(payload)
			continue
		}

		if ct != action.RecordType {
			return NotBlocked, qerrors.ErrBadMessage
		}

		if err := conn.handshakeIO.WriteBytes(payload); err != nil {
			return NotBlocked, err
		}
	}
}

// tryCompleteMessage reports whether conn.handshakeIO now holds at least
// one full message for action's record type, positioning the read cursor
// just past the handshake header (if any) so the handler can read fields
// directly. Any bytes belonging to a subsequent message already buffered
// (two messages packed into one record) are preserved for the next call.
func (conn *Connection) tryCompleteMessage(action Action) (bool, error) {
	if action.RecordType != protocol.ContentTypeHandshake {
		return conn.handshakeIO.Len() >= 1, nil
	}

	if conn.handshakeIO.Len() < constants.HandshakeHeaderLen {
		return false, nil
	}
	headerBytes, err := conn.handshakeIO.PeekAt(0, constants.HandshakeHeaderLen)
	if err != nil {
		return false, err
	}
	header, err := protocol.DecodeHandshakeHeader(headerBytes)
	if err != nil {
		return false, err
	}
	total := constants.HandshakeHeaderLen + int(header.Length)
	if conn.handshakeIO.Len() < total {
		return false, nil
	}
	if header.MessageType != action.MessageType {
		return false, qerrors.ErrBadMessage
	}

	// Stash bytes belonging to the next message, if any arrived packed into
	// the same record, then rebuild handshakeIO holding only this message
	// with the read cursor past its header.
	all := conn.handshakeIO.AllBytes()
	leftover := append([]byte(nil), all[total:]...)
	thisMessage := append([]byte(nil), all[:total]...)

	conn.handshakeIO.Wipe()
	if err := conn.handshakeIO.WriteBytes(thisMessage); err != nil {
		return false, err
	}
	if _, err := conn.handshakeIO.ReadBytes(constants.HandshakeHeaderLen); err != nil {
		return false, err
	}
	conn.pendingNextMessage = leftover
	return true, nil
}

// runReadHandler invokes action's handler for this connection's mode,
// folding the just-reassembled message into the transcript afterward (for
// Handshake-typed messages only) and imposing the blinding delay on any
// handler failure. On success, it restores any already-buffered bytes
// belonging to the next message.
func (conn *Connection) runReadHandler(action Action) error {
	handler := action.handler(conn.mode)
	if handler == nil {
		return qerrors.ErrInvalidRole
	}

	if action.RecordType != protocol.ContentTypeHandshake {
		if err := handler(conn); err != nil {
			return conn.applyBlindingDelay(qerrors.NewHandlerError(conn.state.String(), err))
		}
		if err := validateTransition(conn.state, conn.nextState); err != nil {
			return err
		}
		return conn.restorePendingNextMessage()
	}

	messageBytes := append([]byte(nil), conn.handshakeIO.AllBytes()...)
	if err := handler(conn); err != nil {
		return conn.applyBlindingDelay(qerrors.NewHandlerError(conn.state.String(), err))
	}
	if err := validateTransition(conn.state, conn.nextState); err != nil {
		return err
	}
	conn.transcript.Update(messageBytes)
	return conn.restorePendingNextMessage()
}

func (conn *Connection) restorePendingNextMessage() error {
	leftover := conn.pendingNextMessage
	conn.pendingNextMessage = nil
	conn.handshakeIO.Wipe()
	if len(leftover) == 0 {
		return nil
	}
	return conn.handshakeIO.WriteBytes(leftover)
}

// consumeSSLv2ClientHello handles the legacy framing where a ClientHello
// arrives without a standard 5-byte record header: the 3-byte
// message-type+version prefix is hashed into the transcript separately
// from the body, then a synthetic 4-byte handshake header is constructed
// so the rest of the read path (and clientHelloRecv) see an ordinary
// handshake message.
func (conn *Connection) consumeSSLv2ClientHello(frame *record.SSLv2Frame) error {
	conn.transcript.Update(frame.Prefix[:])

	syntheticHeader := make([]byte, constants.HandshakeHeaderLen)
	protocol.EncodeHandshakeHeader(syntheticHeader, protocol.HandshakeHeader{
		MessageType: protocol.MessageTypeClientHello,
		Length:      uint32(len(frame.Body)),
	})

	conn.handshakeIO.Wipe()
	if err := conn.handshakeIO.WriteBytes(syntheticHeader); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes(frame.Body); err != nil {
		return err
	}
	if _, err := conn.handshakeIO.ReadBytes(constants.HandshakeHeaderLen); err != nil {
		return err
	}

	handler := stateMachine[ClientHello].handler(conn.mode)
	if handler == nil {
		return qerrors.ErrInvalidRole
	}
	if err := handler(conn); err != nil {
		return conn.applyBlindingDelay(qerrors.NewHandlerError(conn.state.String(), err))
	}
	if err := validateTransition(conn.state, conn.nextState); err != nil {
		return err
	}
	conn.transcript.Update(frame.Body)
	conn.handshakeIO.Wipe()
	conn.state = conn.nextState
	return nil
}
