package handshake

import qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"

// serverHelloDoneSend writes the (empty) ServerHelloDone body. Client
// certificate authentication is unimplemented, so the canonical flow
// always proceeds straight to CLIENT_KEY rather than CLIENT_CERT.
func serverHelloDoneSend(conn *Connection) error {
	conn.nextState = ClientKey
	return nil
}

// serverHelloDoneRecv validates that the body really is empty.
func serverHelloDoneRecv(conn *Connection) error {
	if conn.handshakeIO.Available() != 0 {
		return qerrors.ErrBadMessage
	}
	conn.nextState = ClientKey
	return nil
}
