package handshake

import (
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/stuffer"
)

// placeholderCertificate stands in for an encoded certificate chain.
// Certificate parsing and chain validation are collaborator concerns this
// driver doesn't implement; the bytes are moved but never inspected.
var placeholderCertificate = []byte("tls-handshake-driver placeholder leaf certificate")

// serverCertSend writes a single opaque certificate entry, 3-byte
// length-prefixed as RFC 5246 7.4.2 specifies for the certificate_list.
func serverCertSend(conn *Connection) error {
	conn.pending.ServerCertificate = placeholderCertificate
	if err := writeUint24Prefixed(conn.handshakeIO, placeholderCertificate); err != nil {
		return err
	}
	conn.nextState = ServerKey
	return nil
}

// serverCertRecv reads the single certificate entry serverCertSend wrote.
// SERVER_CERT_STATUS is a legal successor in the transition table but this
// driver's canonical flow never routes through it.
func serverCertRecv(conn *Connection) error {
	cert, err := readUint24Prefixed(conn.handshakeIO)
	if err != nil {
		return err
	}
	conn.pending.ServerCertificate = cert
	conn.nextState = ServerKey
	return nil
}

func writeUint24Prefixed(s *stuffer.Stuffer, body []byte) error {
	lenBuf := []byte{byte(len(body) >> 16), byte(len(body) >> 8), byte(len(body))}
	if err := s.WriteBytes(lenBuf); err != nil {
		return err
	}
	return s.WriteBytes(body)
}

func readUint24Prefixed(s *stuffer.Stuffer) ([]byte, error) {
	lenBuf, err := s.ReadBytes(3)
	if err != nil {
		return nil, qerrors.ErrBadMessage
	}
	n := int(lenBuf[0])<<16 | int(lenBuf[1])<<8 | int(lenBuf[2])
	if n > s.Available() {
		return nil, qerrors.ErrBadMessage
	}
	return s.ReadBytes(n)
}
