// Package errors defines the sentinel and wrapped error types the handshake
// driver raises. Error messages avoid echoing attacker-controlled bytes so
// that logs and wrapped errors don't become a side channel of their own.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handshake-layer structural violations.
var (
	// ErrBadMessage indicates a structural violation: wrong message type
	// for the current state, an over-length body, an illegal compression
	// byte, a malformed extension block, a ChangeCipherSpec record whose
	// content isn't exactly one byte, application data mid-handshake, or
	// an SSLv2-compat frame outside CLIENT_HELLO.
	ErrBadMessage = errors.New("handshake: bad message")

	// ErrUnsupportedVersion indicates a protocol version outside the
	// accepted range, or a peer selecting a version higher than offered.
	ErrUnsupportedVersion = errors.New("handshake: unsupported protocol version")

	// ErrCipherMismatch indicates the peer selected a cipher suite we
	// never offered.
	ErrCipherMismatch = errors.New("handshake: cipher suite mismatch")

	// ErrInvalidTransition indicates a handler set a next_state that is
	// not a legal successor of the current state.
	ErrInvalidTransition = errors.New("handshake: illegal state transition")

	// ErrInvalidRole indicates a send or receive was attempted by the
	// role the current state does not expect.
	ErrInvalidRole = errors.New("handshake: wrong role for state")

	// ErrTransportClosed indicates the record layer observed EOF; the
	// connection is latched closed and unusable.
	ErrTransportClosed = errors.New("handshake: transport closed")

	// ErrHandshakeFailed is returned once a connection has entered a
	// terminal failure state and is re-invoked.
	ErrHandshakeFailed = errors.New("handshake: connection is not reusable after a fatal error")

	// ErrNotNegotiated is returned by Send/Receive when called before
	// Negotiate has reached HANDSHAKE_OVER, or when the peer sends
	// something other than application data once it has.
	ErrNotNegotiated = errors.New("handshake: connection has not completed negotiation")
)

// Sentinel errors surfaced by the default key-exchange collaborator.
var (
	ErrInvalidKeySize       = errors.New("kex: invalid key size")
	ErrInvalidPublicKey     = errors.New("kex: invalid public key")
	ErrInvalidCiphertext    = errors.New("kex: invalid ciphertext")
	ErrDecapsulationFailed  = errors.New("kex: decapsulation failed")
	ErrAuthenticationFailed = errors.New("kex: authentication failed")
	ErrNonceSpaceExhausted  = errors.New("kex: nonce space exhausted, rekey required")
)

// HandlerError wraps an error returned by a per-state message handler. The
// read driver imposes a randomized blinding delay before propagating any
// HandlerError, since handler failures (bad padding, MAC mismatch) can leak
// timing side channels.
type HandlerError struct {
	State string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handshake: handler for state %s failed: %v", e.State, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// NewHandlerError wraps err as a HandlerError for the named state.
func NewHandlerError(state string, err error) *HandlerError {
	return &HandlerError{State: state, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
