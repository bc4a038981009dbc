package handshake

import "github.com/sara-star-quant/tls-handshake/pkg/protocol"

// Handler is a one-shot step function: given the connection and its
// scratch handshake_io buffer, it reads or writes the message body and
// sets conn.nextState. It returns an error on any structural or
// collaborator failure; the driver reacts with a blinding delay before
// surfacing a receive-side failure.
type Handler func(conn *Connection) error

// Action is the static, per-state descriptor the driver consults: which
// record type and message type this state exchanges, who is expected to
// write, and the role-indexed handler pair.
type Action struct {
	RecordType    protocol.ContentType
	MessageType   protocol.HandshakeMessageType
	Writer        Writer
	ServerHandler Handler
	ClientHandler Handler
}

// handler returns the step function this connection's mode should invoke
// for this action, or nil if none is wired for that role (e.g.
// SERVER_CERT_REQ, CLIENT_CERT, CLIENT_CERT_VERIFY). The read and write
// drivers fail with ErrInvalidRole on a state whose handler is nil; they
// do not pass through it.
func (a Action) handler(mode Mode) Handler {
	if mode == ModeServer {
		return a.ServerHandler
	}
	return a.ClientHandler
}

// stateMachine is the declarative FSM table, indexed by State. It mirrors
// the s2n state_machine[] array: one row per handshake step, naming the
// record type that carries it, the writer, and the per-role handler pair.
//
// SERVER_CERT_REQ, CLIENT_CERT, and CLIENT_CERT_VERIFY carry nil handler
// pairs, matching their {NULL, NULL} source entries: client certificate
// authentication is not implemented, no handler sets any of these states
// as the next state, and the drivers reject them with ErrInvalidRole
// rather than skipping them.
var stateMachine = [numStates]Action{
	ClientHello: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeClientHello,
		Writer:        WriterClient,
		ServerHandler: clientHelloRecv,
		ClientHandler: clientHelloSend,
	},
	ServerHello: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeServerHello,
		Writer:        WriterServer,
		ServerHandler: serverHelloSend,
		ClientHandler: serverHelloRecv,
	},
	ServerCert: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeCertificate,
		Writer:        WriterServer,
		ServerHandler: serverCertSend,
		ClientHandler: serverCertRecv,
	},
	ServerCertStatus: {
		RecordType:  protocol.ContentTypeHandshake,
		MessageType: protocol.MessageTypeCertificateStatus,
		Writer:      WriterServer,
	},
	ServerKey: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeServerKeyExchange,
		Writer:        WriterServer,
		ServerHandler: serverKeySend,
		ClientHandler: serverKeyRecv,
	},
	ServerCertReq: {
		RecordType:  protocol.ContentTypeHandshake,
		MessageType: protocol.MessageTypeCertificateRequest,
		Writer:      WriterServer,
	},
	ServerHelloDone: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeServerHelloDone,
		Writer:        WriterServer,
		ServerHandler: serverHelloDoneSend,
		ClientHandler: serverHelloDoneRecv,
	},
	ClientCert: {
		RecordType:  protocol.ContentTypeHandshake,
		MessageType: protocol.MessageTypeCertificate,
		Writer:      WriterClient,
	},
	ClientKey: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeClientKeyExchange,
		Writer:        WriterClient,
		ServerHandler: clientKeyRecv,
		ClientHandler: clientKeySend,
	},
	ClientCertVerify: {
		RecordType:  protocol.ContentTypeHandshake,
		MessageType: protocol.MessageTypeCertificateVerify,
		Writer:      WriterClient,
	},
	ClientChangeCipherSpec: {
		RecordType:    protocol.ContentTypeChangeCipherSpec,
		Writer:        WriterClient,
		ServerHandler: serverCCSRecv,
		ClientHandler: clientCCSSend,
	},
	ClientFinished: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeFinished,
		Writer:        WriterClient,
		ServerHandler: finishedRecv(true),
		ClientHandler: finishedSend(true),
	},
	ServerChangeCipherSpec: {
		RecordType:    protocol.ContentTypeChangeCipherSpec,
		Writer:        WriterServer,
		ServerHandler: serverCCSSend,
		ClientHandler: clientCCSRecv,
	},
	ServerFinished: {
		RecordType:    protocol.ContentTypeHandshake,
		MessageType:   protocol.MessageTypeFinished,
		Writer:        WriterServer,
		ServerHandler: finishedSend(false),
		ClientHandler: finishedRecv(false),
	},
	HandshakeOver: {
		RecordType: protocol.ContentTypeApplicationData,
		Writer:     WriterBoth,
	},
}
