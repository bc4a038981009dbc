package handshake

import (
	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/metrics"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
)

// handshakeWriteIO drives one state's worth of output: it validates that
// this connection's role is the expected writer, runs the state's handler
// to populate conn.handshakeIO, frames the result (adding a handshake
// header for Handshake-typed states; ChangeCipherSpec carries none),
// folds it into the rolling transcript, fragments it across as many
// records as MaxWritePayloadSize requires, and flushes to the transport.
//
// The transcript is updated only after the handler has run to completion:
// this is what lets the Finished handler compute verify_data over every
// prior message without also hashing itself.
func handshakeWriteIO(conn *Connection) (BlockedStatus, error) {
	action := stateMachine[conn.state]

	if !conn.awaitingFlush {
		if err := validateSendState(conn.mode, conn.state); err != nil {
			return NotBlocked, err
		}

		handler := action.handler(conn.mode)
		if handler == nil {
			return NotBlocked, qerrors.ErrInvalidRole
		}

		conn.handshakeIO.Wipe()
		isHandshakeMsg := action.RecordType == protocol.ContentTypeHandshake
		if isHandshakeMsg {
			conn.handshakeIO.RawWrite(constants.HandshakeHeaderLen)
		}

		if err := handler(conn); err != nil {
			return NotBlocked, qerrors.NewHandlerError(conn.state.String(), err)
		}
		if err := validateTransition(conn.state, conn.nextState); err != nil {
			return NotBlocked, err
		}

		if isHandshakeMsg {
			header, _ := conn.handshakeIO.PeekAt(0, constants.HandshakeHeaderLen)
			protocol.EncodeHandshakeHeader(header, protocol.HandshakeHeader{
				MessageType: action.MessageType,
				Length:      uint32(conn.handshakeIO.Len() - constants.HandshakeHeaderLen),
			})
			conn.transcript.Update(conn.handshakeIO.AllBytes())
		}

		payload := conn.handshakeIO.AllBytes()
		maxPayload := conn.records.MaxWritePayloadSize()
		for len(payload) > 0 {
			n := len(payload)
			if n > maxPayload {
				n = maxPayload
			}
			if err := conn.records.WriteRecord(action.RecordType, payload[:n]); err != nil {
				return NotBlocked, err
			}
			payload = payload[n:]
		}

		conn.awaitingFlush = true
	}

	wouldBlock, err := conn.records.Flush()
	if err != nil {
		return NotBlocked, err
	}
	if wouldBlock {
		conn.stats.RecordBlockedOnWrite()
		return BlockedOnWrite, nil
	}

	conn.logger.Debug("sent handshake message", metrics.Fields{"state": conn.state.String()})
	conn.awaitingFlush = false
	conn.state = conn.nextState
	conn.stats.StateEntered(conn.state.String())
	return NotBlocked, nil
}
