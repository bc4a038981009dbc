// Package record implements the TLS record layer the handshake driver is
// built on top of: RFC 5246 section 6.2 record framing, SSLv2-compat
// ClientHello detection, record-sized write fragmentation, and resumable,
// would-block-signaling reads and writes over a caller-supplied transport.
//
// Per the driver's design, the record layer is a collaborator the core
// handshake engine consumes through a narrow interface (ReadRecord,
// WriteRecord, MaxWritePayloadSize, Flush); this package is the concrete
// implementation wired in by default.
package record

import (
	"errors"
	"io"
	"net"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
	"github.com/sara-star-quant/tls-handshake/pkg/stuffer"
)

// ErrWouldBlock is returned by Layer.ReadRecord and Layer.Flush when the
// transport has no more bytes to offer, or can't accept more output, right
// now. The caller should retry once the transport is ready; all partial
// progress is retained on the Layer.
var ErrWouldBlock = errors.New("record: would block")

// isWouldBlock reports whether err signals a transient would-block
// condition rather than a hard failure: our own sentinel, or a net.Error
// whose Timeout() is true (the idiom for a deadline-based non-blocking
// read/write over a net.Conn).
func isWouldBlock(err error) bool {
	if errors.Is(err, ErrWouldBlock) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Protection is the record-layer encryption hook activated once
// ChangeCipherSpec has been processed. Before that point records flow in
// the clear; cryptography itself is out of this driver's scope and is
// delegated to whatever Protection the caller's key-exchange collaborator
// installs (see pkg/kex).
type Protection interface {
	// Seal transforms plaintext into on-the-wire payload bytes.
	Seal(plaintext []byte) ([]byte, error)
	// Open recovers plaintext from on-the-wire payload bytes.
	Open(ciphertext []byte) ([]byte, error)
}

// SSLv2Frame carries a legacy SSLv2-framed ClientHello recognized by
// ReadRecord. Prefix is the 3-byte message-type+version slice the
// transcript hash absorbs separately from Body (see §4.3/§4.5 of the
// design this driver follows).
type SSLv2Frame struct {
	Prefix [3]byte
	Body   []byte
}

// Layer is a concrete, resumable TLS record layer over a transport.
type Layer struct {
	transport io.ReadWriter

	// Inbound accumulation state, preserved across would-block returns.
	headerBuf     [5]byte
	headerHave    int
	sslv2         bool
	sslv2LenKnown bool
	bodyWant      int
	body          []byte
	bodyHave      int

	// Outbound accumulation state.
	pendingOut *stuffer.Stuffer

	readProtection  Protection
	writeProtection Protection
}

// New wraps transport in a record Layer. The returned Layer starts in the
// plaintext state; call SetReadProtection/SetWriteProtection once a
// ChangeCipherSpec has been processed for that direction.
func New(transport io.ReadWriter) *Layer {
	return &Layer{
		transport:  transport,
		pendingOut: stuffer.New(constants.MaxRecordPayload),
	}
}

// SetReadProtection installs (or clears, with nil) the cipher used to open
// inbound records.
func (l *Layer) SetReadProtection(p Protection) { l.readProtection = p }

// SetWriteProtection installs (or clears, with nil) the cipher used to seal
// outbound records.
func (l *Layer) SetWriteProtection(p Protection) { l.writeProtection = p }

// MaxWritePayloadSize returns the largest plaintext payload a single
// outbound record may carry. This is the record-layer fragmentation
// boundary the write driver chops handshake messages against.
func (l *Layer) MaxWritePayloadSize() int {
	return constants.MaxRecordPayload
}

func (l *Layer) resetInbound() {
	l.headerHave = 0
	l.sslv2 = false
	l.sslv2LenKnown = false
	l.bodyWant = 0
	l.body = nil
	l.bodyHave = 0
}

// fill reads into dst[have:] from the transport, returning the new byte
// count and ErrWouldBlock (wrapping any partial progress already recorded
// in dst) if the transport has nothing more right now.
func (l *Layer) fill(dst []byte, have int) (int, error) {
	for have < len(dst) {
		n, err := l.transport.Read(dst[have:])
		have += n
		if err != nil {
			if err == io.EOF {
				return have, qerrors.ErrTransportClosed
			}
			if isWouldBlock(err) {
				return have, ErrWouldBlock
			}
			return have, err
		}
		if n == 0 {
			return have, ErrWouldBlock
		}
	}
	return have, nil
}

// ReadRecord consumes at most one record from the transport. On
// ErrWouldBlock, all bytes read so far are retained and the next call
// resumes from where this one left off.
//
// When sslv2 is non-nil, an SSLv2-compat ClientHello frame was recognized
// instead of a standard TLS record; ct and payload are both zero/nil in
// that case.
func (l *Layer) ReadRecord() (ct protocol.ContentType, payload []byte, sslv2 *SSLv2Frame, err error) {
	if l.headerHave < 2 {
		n, ferr := l.fill(l.headerBuf[:2], l.headerHave)
		l.headerHave = n
		if ferr != nil {
			return 0, nil, nil, ferr
		}
		// SSLv2-compat records set the high bit of the first length byte;
		// standard TLS records never do, since ContentType values (20-23)
		// never collide with that bit pattern in the version byte either.
		l.sslv2 = l.headerBuf[0]&0x80 != 0
	}

	if l.sslv2 {
		return l.readSSLv2Record()
	}
	return l.readTLSRecord()
}

func (l *Layer) readTLSRecord() (protocol.ContentType, []byte, *SSLv2Frame, error) {
	if l.headerHave < 5 {
		n, err := l.fill(l.headerBuf[:5], l.headerHave)
		l.headerHave = n
		if err != nil {
			return 0, nil, nil, err
		}
	}

	if l.body == nil {
		hdr, err := protocol.DecodeRecordHeader(l.headerBuf[:5])
		if err != nil {
			l.resetInbound()
			return 0, nil, nil, err
		}
		if int(hdr.Length) > constants.MaxRecordPayload+2048 {
			l.resetInbound()
			return 0, nil, nil, qerrors.ErrBadMessage
		}
		l.bodyWant = int(hdr.Length)
		l.body = make([]byte, l.bodyWant)
		l.bodyHave = 0
	}

	n, err := l.fill(l.body, l.bodyHave)
	l.bodyHave = n
	if err != nil {
		return 0, nil, nil, err
	}

	hdr, _ := protocol.DecodeRecordHeader(l.headerBuf[:5])
	payload := l.body
	if l.readProtection != nil && hdr.Type != protocol.ContentTypeAlert {
		opened, err := l.readProtection.Open(payload)
		if err != nil {
			l.resetInbound()
			return 0, nil, nil, qerrors.ErrBadMessage
		}
		payload = opened
	}
	l.resetInbound()
	return hdr.Type, payload, nil, nil
}

// readSSLv2Record handles the legacy 2-byte-length ClientHello framing.
// The first 2 bytes (already in headerBuf) hold the length of everything
// that follows: a 1-byte message type, a 2-byte version, and the
// ClientHello body. Those first 3 bytes are the synthetic prefix the
// transcript hash absorbs separately (§4.3/§4.5).
func (l *Layer) readSSLv2Record() (protocol.ContentType, []byte, *SSLv2Frame, error) {
	if !l.sslv2LenKnown {
		l.bodyWant = int(l.headerBuf[0]&0x7f)<<8 | int(l.headerBuf[1])
		if l.bodyWant < 3 {
			l.resetInbound()
			return 0, nil, nil, qerrors.ErrBadMessage
		}
		l.body = make([]byte, l.bodyWant)
		l.bodyHave = 0
		l.sslv2LenKnown = true
	}

	n, err := l.fill(l.body, l.bodyHave)
	l.bodyHave = n
	if err != nil {
		return 0, nil, nil, err
	}

	frame := &SSLv2Frame{Body: l.body[3:]}
	copy(frame.Prefix[:], l.body[:3])
	l.resetInbound()
	return 0, nil, frame, nil
}

// WriteRecord appends one framed record of the given content type over
// payload (which must be at most MaxWritePayloadSize() bytes) to the
// pending output buffer. It does not touch the transport; call Flush to
// actually send.
func (l *Layer) WriteRecord(ct protocol.ContentType, payload []byte) error {
	if len(payload) > l.MaxWritePayloadSize() {
		return qerrors.ErrBadMessage
	}
	out := payload
	if l.writeProtection != nil && ct != protocol.ContentTypeAlert && ct != protocol.ContentTypeChangeCipherSpec {
		sealed, err := l.writeProtection.Seal(payload)
		if err != nil {
			return err
		}
		out = sealed
	}

	header := l.pendingOut.RawWrite(constants.RecordHeaderLen)
	protocol.EncodeRecordHeader(header, protocol.RecordHeader{
		Type:    ct,
		Version: protocol.TLS10,
		Length:  uint16(len(out)),
	})
	return l.pendingOut.WriteBytes(out)
}

// Flush writes as much pending output as the transport will currently
// accept. It returns wouldBlock=true (with the remainder retained) if the
// transport can't take it all right now.
func (l *Layer) Flush() (wouldBlock bool, err error) {
	for l.pendingOut.Available() > 0 {
		chunk := l.pendingOut.RawRead(l.pendingOut.Available())
		n, werr := l.transport.Write(chunk)
		if n < len(chunk) {
			// Put back what wasn't sent.
			unsent := chunk[n:]
			remade := stuffer.New(len(unsent))
			remade.WriteBytes(unsent)
			l.pendingOut = remade
			if werr == nil || isWouldBlock(werr) {
				return true, nil
			}
			return false, werr
		}
		if werr != nil {
			if isWouldBlock(werr) {
				return true, nil
			}
			return false, werr
		}
	}
	return false, nil
}
