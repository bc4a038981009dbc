package handshake

import (
	"net"
	"testing"
	"time"

	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// negotiateToCompletion drives conn to HANDSHAKE_OVER or a hard error,
// retrying on every blocked status. Safe for a net.Pipe transport, which
// unblocks as soon as its peer is scheduled.
func negotiateToCompletion(t *testing.T, conn *Connection) {
	t.Helper()
	for {
		blocked, err := Negotiate(conn)
		if err != nil {
			t.Fatalf("negotiate: %v", err)
		}
		if blocked == NotBlocked {
			return
		}
	}
}

func TestSendReceiveRoundTrip(t *testing.T) {
	orig := blindingSleep
	blindingSleep = func(time.Duration) {}
	defer func() { blindingSleep = orig }()

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := New(ModeClient, clientConn)
	server := New(ModeServer, serverConn)

	done := make(chan struct{}, 2)
	go func() { negotiateToCompletion(t, client); done <- struct{}{} }()
	go func() { negotiateToCompletion(t, server); done <- struct{}{} }()
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("handshake did not complete in time")
		}
	}

	sendErr := make(chan error, 1)
	go func() { sendErr <- client.Send([]byte("ping")) }()

	recvDone := make(chan []byte, 1)
	recvErr := make(chan error, 1)
	go func() {
		data, err := server.Receive()
		recvDone <- data
		recvErr <- err
	}()

	select {
	case err := <-sendErr:
		if err != nil {
			t.Fatalf("send: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send did not complete in time")
	}

	select {
	case err := <-recvErr:
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not complete in time")
	}

	if got := string(<-recvDone); got != "ping" {
		t.Fatalf("received %q, want %q", got, "ping")
	}
}

func TestSendBeforeNegotiationFails(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := New(ModeClient, clientConn)

	if err := client.Send([]byte("too early")); err != qerrors.ErrNotNegotiated {
		t.Fatalf("err = %v, want ErrNotNegotiated", err)
	}
	if _, err := client.Receive(); err != qerrors.ErrNotNegotiated {
		t.Fatalf("err = %v, want ErrNotNegotiated", err)
	}
}
