package handshake

import (
	"time"

	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/metrics"
)

// Negotiate drives conn through as many handshake states as the transport
// currently allows, stopping at HANDSHAKE_OVER, a would-block condition, or
// a fatal error. On BlockedOnRead/BlockedOnWrite, the caller should wait for
// the transport to become ready in that direction and call Negotiate again;
// all progress already made is retained on conn.
//
// Once a fatal error is returned, conn is latched closed and must not be
// reused.
func Negotiate(conn *Connection) (BlockedStatus, error) {
	if conn.closed {
		return NotBlocked, qerrors.ErrHandshakeFailed
	}

	for conn.state != HandshakeOver {
		action := stateMachine[conn.state]
		writer := action.Writer
		if writer == WriterBoth {
			break
		}

		var (
			blocked BlockedStatus
			err     error
		)
		if writer == writerFor(conn.mode) {
			blocked, err = handshakeWriteIO(conn)
		} else {
			blocked, err = handshakeReadIO(conn)
		}

		if err != nil {
			conn.closed = true
			conn.stats.HandshakeFailed()
			conn.logger.Error("handshake failed", metrics.Fields{
				"state": conn.state.String(),
				"error": err.Error(),
			})
			return NotBlocked, err
		}
		if blocked != NotBlocked {
			return blocked, nil
		}
	}

	if conn.state == HandshakeOver && !conn.completed {
		conn.completed = true
		d := time.Since(conn.startedAt)
		conn.stats.HandshakeCompleted(d)
		conn.logger.Info("handshake complete", metrics.Fields{
			"cipher_suite": conn.pending.CipherSuite.String(),
			"duration_ms":  d.Milliseconds(),
		})
	}

	return NotBlocked, nil
}
