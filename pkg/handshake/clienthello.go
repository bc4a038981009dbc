package handshake

import (
	"encoding/binary"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
)

// clientHelloSend writes client_version, client_random, an empty
// session_id, the offered cipher suites, and the null compression method.
// Extensions are a collaborator concern this driver doesn't implement, so
// none are written.
func clientHelloSend(conn *Connection) error {
	if err := fillRandomWithTimestamp(conn.pending.ClientRandom[:]); err != nil {
		return err
	}

	version := protocol.FromNumeric(conn.clientProtocolVersion).Bytes()
	if err := conn.handshakeIO.WriteBytes(version[:]); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes(conn.pending.ClientRandom[:]); err != nil {
		return err
	}
	if err := conn.handshakeIO.WriteBytes([]byte{0}); err != nil { // session_id_len = 0
		return err
	}

	suites := conn.pending.ClientOfferedSuites
	suiteLen := make([]byte, 2)
	binary.BigEndian.PutUint16(suiteLen, uint16(len(suites)*2))
	if err := conn.handshakeIO.WriteBytes(suiteLen); err != nil {
		return err
	}
	for _, s := range suites {
		suiteBytes := make([]byte, 2)
		binary.BigEndian.PutUint16(suiteBytes, uint16(s))
		if err := conn.handshakeIO.WriteBytes(suiteBytes); err != nil {
			return err
		}
	}
	if err := conn.handshakeIO.WriteBytes([]byte{1, constants.CompressionMethodNull}); err != nil {
		return err
	}

	conn.nextState = ServerHello
	return nil
}

// clientHelloRecv parses the fields clientHelloSend wrote. Session IDs are
// accepted but not resumed: session resumption is out of this driver's
// scope.
func clientHelloRecv(conn *Connection) error {
	versionBytes, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	version := protocol.ParseVersion(versionBytes)
	if !version.InAcceptedRange() {
		return qerrors.ErrUnsupportedVersion
	}
	conn.clientProtocolVersion = version.Numeric()
	if conn.clientProtocolVersion < conn.actualProtocolVersion {
		conn.actualProtocolVersion = conn.clientProtocolVersion
	}

	random, err := conn.handshakeIO.ReadBytes(constants.RandomLen)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	copy(conn.pending.ClientRandom[:], random)

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

	suiteLenBytes, err := conn.handshakeIO.ReadBytes(2)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	suiteLen := binary.BigEndian.Uint16(suiteLenBytes)
	if suiteLen == 0 || suiteLen%2 != 0 {
		return qerrors.ErrBadMessage
	}
	suiteBytes, err := conn.handshakeIO.ReadBytes(int(suiteLen))
	if err != nil {
		return qerrors.ErrBadMessage
	}
	offered := make([]constants.CipherSuite, 0, len(suiteBytes)/2)
	for i := 0; i+1 < len(suiteBytes); i += 2 {
		offered = append(offered, constants.CipherSuite(binary.BigEndian.Uint16(suiteBytes[i:i+2])))
	}
	conn.pending.ClientOfferedSuites = offered

	compressionLen, err := conn.handshakeIO.ReadBytes(1)
	if err != nil {
		return qerrors.ErrBadMessage
	}
	compressionMethods, err := conn.handshakeIO.ReadBytes(int(compressionLen[0]))
	if err != nil {
		return qerrors.ErrBadMessage
	}
	sawNull := false
	for _, m := range compressionMethods {
		if m == constants.CompressionMethodNull {
			sawNull = true
		}
	}
	if !sawNull {
		return qerrors.ErrBadMessage
	}

	// Extensions, if present, are skipped whole: per-extension parsing is a
	// collaborator concern this driver doesn't implement.
	if conn.handshakeIO.Available() >= 2 {
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
	}

	conn.nextState = ServerHello
	return nil
}
