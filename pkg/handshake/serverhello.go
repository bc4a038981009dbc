package handshake

import (
	"encoding/binary"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
)

// serverHelloSend picks the actual protocol version (the lower of the two
// offered), latches the signature/digest pairing that choice implies,
// selects a cipher suite from what the client offered, and writes the
// ServerHello body. No extensions are written: extension negotiation is a
// collaborator concern this driver doesn't implement.
func serverHelloSend(conn *Connection) error {
	if err := fillRandomWithTimestamp(conn.pending.ServerRandom[:]); err != nil {
		return err
	}

	if conn.clientProtocolVersion < conn.serverProtocolVersion {
		conn.actualProtocolVersion = conn.clientProtocolVersion
	} else {
		conn.actualProtocolVersion = conn.serverProtocolVersion
	}

	selected, err := selectCipherSuite(conn.pending.ClientOfferedSuites)
	if err != nil {
		return err
	}
	conn.pending.CipherSuite = selected

	conn.pending.SignatureDigestAlg = constants.SignatureDigestMD5SHA1
	if conn.actualProtocolVersion == constants.ProtocolTLS12 {
		conn.pending.SignatureDigestAlg = constants.SignatureDigestSHA1
	}

	version := protocol.FromNumeric(conn.actualProtocolVersion).Bytes()
	if err := conn.handshakeIO.WriteBytes(version[:]); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes(conn.pending.ServerRandom[:]); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes([]byte{0}); err != nil { // session_id_len = 0
		return err
	}
	suiteBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(suiteBytes, uint16(selected))
	if err := conn.handshakeIO.WriteBytes(suiteBytes); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes([]byte{constants.CompressionMethodNull}); err != nil {
		return err
	}

	conn.actualProtocolVersionEstablished = true
	conn.nextState = ServerCert
	return nil
}

// serverHelloRecv is the client-side dual of serverHelloSend, following
// s2n_server_hello_recv field-for-field: the server's chosen version may
// not exceed what actual_protocol_version currently holds, the chosen
// cipher suite must be one the client actually offered, and a trailing
// extensions block (if present) is skipped whole rather than parsed.
func serverHelloRecv(conn *Connection) error {
	versionBytes, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	serverVersion := protocol.ParseVersion(versionBytes).Numeric()
	if serverVersion > conn.actualProtocolVersion {
		return qerrors.ErrUnsupportedVersion
	}
	conn.serverProtocolVersion = serverVersion
	conn.actualProtocolVersion = serverVersion
	conn.actualProtocolVersionEstablished = true

	if conn.actualProtocolVersion < constants.MinProtocolVer || conn.actualProtocolVersion > constants.MaxProtocolVer {
		return qerrors.ErrUnsupportedVersion
	}

	conn.pending.SignatureDigestAlg = constants.SignatureDigestMD5SHA1
	if conn.actualProtocolVersion == constants.ProtocolTLS12 {
		conn.pending.SignatureDigestAlg = constants.SignatureDigestSHA1
	}

	random, err := conn.handshakeIO.ReadBytes(constants.RandomLen)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	copy(conn.pending.ServerRandom[:], random)

	sessionIDLen, err := conn.handshakeIO.ReadBytes(1)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	if sessionIDLen[0] > constants.MaxSessionIDLen {
		return qerrors.ErrBadMessage
	}
	if _, err := conn.handshakeIO.ReadBytes(int(sessionIDLen[0])); err != nil {
		return qerrors.ErrBadMessage
	}

	suiteBytes, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	selected := constants.CipherSuite(binary.BigEndian.Uint16(suiteBytes))
	if !offeredBy(conn.pending.ClientOfferedSuites, selected) {
		conn.stats.RecordCipherMismatch()
		return qerrors.ErrCipherMismatch
	}
	conn.pending.CipherSuite = selected

	compression, err := conn.handshakeIO.ReadBytes(1)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	if compression[0] != constants.CompressionMethodNull {
		return qerrors.ErrBadMessage
	}

	if conn.handshakeIO.Available() < 2 {
		conn.nextState = ServerCert
		return nil
	}
	extLenBytes, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	extLen := int(binary.BigEndian.Uint16(extLenBytes))
	if extLen > conn.handshakeIO.Available() {
		return qerrors.ErrBadMessage
	}
	if _, err := conn.handshakeIO.ReadBytes(extLen); err != nil {
		return qerrors.ErrBadMessage
	}

	conn.nextState = ServerCert
	return nil
}

func selectCipherSuite(offered []constants.CipherSuite) (constants.CipherSuite, error) {
	for _, s := range offered {
		if s.IsSupported() {
			return s, nil
		}
	}
	return 0, qerrors.ErrCipherMismatch
}

func offeredBy(offered []constants.CipherSuite, want constants.CipherSuite) bool {
	for _, s := range offered {
		if s == want {
			return true
		}
	}
	return false
}
