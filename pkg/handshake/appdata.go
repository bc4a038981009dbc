package handshake

import (
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
	"github.com/sara-star-quant/tls-handshake/pkg/record"
)

// Send writes plaintext as one or more ApplicationData records once
// HANDSHAKE_OVER has been reached, fragmenting across MaxWritePayloadSize
// the same way the handshake write driver does. It blocks until every
// fragment has been handed to the transport or a hard error occurs.
func (c *Connection) Send(plaintext []byte) error {
	if c.state != HandshakeOver {
		return qerrors.ErrNotNegotiated
	}

	total := len(plaintext)
	maxPayload := c.records.MaxWritePayloadSize()
	for len(plaintext) > 0 {
		n := len(plaintext)
		if n > maxPayload {
			n = maxPayload
		}
		if err := c.records.WriteRecord(protocol.ContentTypeApplicationData, plaintext[:n]); err != nil {
			return err
		}
		plaintext = plaintext[n:]
	}

	for {
		wouldBlock, err := c.records.Flush()
		if err != nil {
			return err
		}
		if !wouldBlock {
			c.stats.RecordBytesSent(uint64(total))
			return nil
		}
	}
}

// Receive blocks until one ApplicationData record arrives, transparently
// absorbing any interleaved Alert records, and returns its plaintext.
func (c *Connection) Receive() ([]byte, error) {
	if c.state != HandshakeOver {
		return nil, qerrors.ErrNotNegotiated
	}

	for {
		ct, payload, sslv2, err := c.records.ReadRecord()
		if err != nil {
			if err == record.ErrWouldBlock {
				return nil, err
			}
			return nil, err
		}
		if sslv2 != nil {
			return nil, qerrors.ErrNotNegotiated
		}
		if ct == protocol.ContentTypeAlert {
			c.alerts.processFragment(payload)
			continue
		}
		if ct != protocol.ContentTypeApplicationData {
			return nil, qerrors.ErrNotNegotiated
		}
		c.stats.RecordBytesReceived(uint64(len(payload)))
		return payload, nil
	}
}
