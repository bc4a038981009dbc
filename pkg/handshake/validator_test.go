package handshake

import "testing"

func TestValidateSendStateMatchesExpectedWriter(t *testing.T) {
	if err := validateSendState(ModeClient, ClientHello); err != nil {
		t.Fatalf("client sending CLIENT_HELLO: %v", err)
	}
	if err := validateSendState(ModeServer, ClientHello); err == nil {
		t.Fatal("expected an error: server may not send CLIENT_HELLO")
	}
	if err := validateSendState(ModeServer, ServerHello); err != nil {
		t.Fatalf("server sending SERVER_HELLO: %v", err)
	}
}

func TestValidateRecvStateIsTheDualOfSend(t *testing.T) {
	if err := validateRecvState(ModeServer, ClientHello); err != nil {
		t.Fatalf("server receiving CLIENT_HELLO: %v", err)
	}
	if err := validateRecvState(ModeClient, ClientHello); err == nil {
		t.Fatal("expected an error: client does not receive its own CLIENT_HELLO")
	}
}

func TestValidateTransitionAcceptsCanonicalFlow(t *testing.T) {
	canonical := []State{
		ClientHello, ServerHello, ServerCert, ServerKey, ServerHelloDone,
		ClientKey, ClientChangeCipherSpec, ClientFinished,
		ServerChangeCipherSpec, ServerFinished, HandshakeOver,
	}
	for i := 0; i+1 < len(canonical); i++ {
		if err := validateTransition(canonical[i], canonical[i+1]); err != nil {
			t.Fatalf("%v -> %v: %v", canonical[i], canonical[i+1], err)
		}
	}
}

func TestValidateTransitionAcceptsOCSPStaplingDetour(t *testing.T) {
	if err := validateTransition(ServerCert, ServerCertStatus); err != nil {
		t.Fatalf("SERVER_CERT -> SERVER_CERT_STATUS: %v", err)
	}
	if err := validateTransition(ServerCertStatus, ServerKey); err != nil {
		t.Fatalf("SERVER_CERT_STATUS -> SERVER_KEY: %v", err)
	}
}

func TestValidateTransitionRejectsIllegalJump(t *testing.T) {
	if err := validateTransition(ClientHello, ServerFinished); err == nil {
		t.Fatal("expected an error: CLIENT_HELLO cannot jump straight to SERVER_FINISHED")
	}
	if err := validateTransition(ServerHello, ClientKey); err == nil {
		t.Fatal("expected an error: SERVER_HELLO cannot skip straight to CLIENT_KEY")
	}
}
