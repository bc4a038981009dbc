package handshake

import qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"

// clientStates is the set of states in which the client is expected to be
// the one acting (writing or, symmetrically, the one the server expects a
// send from). HANDSHAKE_OVER is exempt from both role checks: by that
// point neither side writes.
var clientStates = map[State]bool{
	ClientHello:            true,
	ClientCert:             true,
	ClientKey:              true,
	ClientCertVerify:       true,
	ClientChangeCipherSpec: true,
	ClientFinished:         true,
}

// validateSendState asserts that mode is the role expected to write in
// state. A violation indicates a driver bug, not a peer's malformed
// input: it fires before any bytes reach the wire.
func validateSendState(mode Mode, state State) error {
	if state == HandshakeOver {
		return nil
	}
	wantClient := clientStates[state]
	if wantClient != (mode == ModeClient) {
		return qerrors.ErrInvalidRole
	}
	return nil
}

// validateRecvState asserts that mode is the role expected to read in
// state: the dual of validateSendState.
func validateRecvState(mode Mode, state State) error {
	if state == HandshakeOver {
		return nil
	}
	wantClient := clientStates[state]
	if wantClient != (mode == ModeServer) {
		return qerrors.ErrInvalidRole
	}
	return nil
}

// legalTransitions is the exhaustive (state, next_state) table. Anything
// absent is fatal. SERVER_CERT_STATUS is wired in as a legal successor of
// SERVER_CERT, and a legal predecessor of the same states SERVER_CERT
// itself may lead to, resolving the source's open question in the
// affirmative: the descriptor table carries an OCSP-stapling entry, so the
// transition graph should accept it even though the canonical flow this
// driver drives never sets next_state to it.
var legalTransitions = map[State]map[State]bool{
	ClientHello: {ServerHello: true},
	ServerHello: {
		ServerCert:      true,
		ServerKey:       true,
		ServerCertReq:   true,
		ServerHelloDone: true,
	},
	ServerCert: {
		ServerCertStatus: true,
		ServerKey:        true,
		ServerCertReq:    true,
		ServerHelloDone:  true,
	},
	ServerCertStatus: {
		ServerKey:       true,
		ServerCertReq:   true,
		ServerHelloDone: true,
	},
	ServerKey: {
		ServerCertReq:   true,
		ServerHelloDone: true,
	},
	ServerHelloDone: {
		ClientCert: true,
		ClientKey:  true,
	},
	ClientCert: {ClientKey: true},
	ClientKey: {
		ClientCertVerify:       true,
		ClientChangeCipherSpec: true,
	},
	ClientCertVerify:       {ClientChangeCipherSpec: true},
	ClientChangeCipherSpec: {ClientFinished: true},
	ClientFinished:         {ServerChangeCipherSpec: true},
	ServerChangeCipherSpec: {ServerFinished: true},
	ServerFinished:         {HandshakeOver: true},
	HandshakeOver:          {HandshakeOver: true},
}

// validateTransition asserts that (state, next) appears in the legal
// transition table.
func validateTransition(state, next State) error {
	if state == HandshakeOver {
		return nil
	}
	if legalTransitions[state][next] {
		return nil
	}
	return qerrors.ErrInvalidTransition
}
