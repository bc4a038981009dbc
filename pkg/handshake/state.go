// Package handshake implements the TLS 1.0-1.2 handshake state machine:
// the role-sensitive finite-state driver, its record-fragmenting write
// path, its reassembling read path, the six-digest transcript hash
// fan-out, and the top-level negotiation loop that alternates between
// them, together with the per-state message handlers. Key exchange and
// record protection come from pkg/kex, record framing from the
// record.Layer the drivers use; certificates are opaque placeholders that
// are never validated.
package handshake

// State identifies a step of the handshake sequence. Both client and
// server steps share one enumeration; which side acts in a given state is
// declared by that state's Action.Writer.
type State int

const (
	ClientHello State = iota
	ServerHello
	ServerCert
	ServerCertStatus
	ServerKey
	ServerCertReq
	ServerHelloDone
	ClientCert
	ClientKey
	ClientCertVerify
	ClientChangeCipherSpec
	ClientFinished
	ServerChangeCipherSpec
	ServerFinished
	HandshakeOver

	numStates
)

func (s State) String() string {
	switch s {
	case ClientHello:
		return "CLIENT_HELLO"
	case ServerHello:
		return "SERVER_HELLO"
	case ServerCert:
		return "SERVER_CERT"
	case ServerCertStatus:
		return "SERVER_CERT_STATUS"
	case ServerKey:
		return "SERVER_KEY"
	case ServerCertReq:
		return "SERVER_CERT_REQ"
	case ServerHelloDone:
		return "SERVER_HELLO_DONE"
	case ClientCert:
		return "CLIENT_CERT"
	case ClientKey:
		return "CLIENT_KEY"
	case ClientCertVerify:
		return "CLIENT_CERT_VERIFY"
	case ClientChangeCipherSpec:
		return "CLIENT_CHANGE_CIPHER_SPEC"
	case ClientFinished:
		return "CLIENT_FINISHED"
	case ServerChangeCipherSpec:
		return "SERVER_CHANGE_CIPHER_SPEC"
	case ServerFinished:
		return "SERVER_FINISHED"
	case HandshakeOver:
		return "HANDSHAKE_OVER"
	default:
		return "UNKNOWN_STATE"
	}
}

// Mode identifies which side of the connection this driver instance is
// playing.
type Mode int

const (
	ModeServer Mode = iota
	ModeClient
)

func (m Mode) String() string {
	if m == ModeClient {
		return "client"
	}
	return "server"
}

func (m Mode) other() Mode {
	if m == ModeClient {
		return ModeServer
	}
	return ModeClient
}

// Writer identifies which role is expected to emit in a given state.
type Writer int

const (
	WriterServer Writer = iota
	WriterClient
	WriterBoth // terminal: neither side writes
)

func writerFor(mode Mode) Writer {
	if mode == ModeClient {
		return WriterClient
	}
	return WriterServer
}
