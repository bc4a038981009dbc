// Package tlshandshake drives a TLS 1.0-1.2 handshake for a single connection,
// from ClientHello through the Finished messages on both sides.
//
// The driver is an asynchronous, non-blocking engine: the caller owns the
// transport and re-invokes handshake.Negotiate whenever it has more bytes
// to offer or is ready to accept more output. All progress state lives on
// the *handshake.Connection, so suspension at a socket boundary never loses
// work already done on a partially read or written handshake message.
//
// # Quick Start
//
//	import (
//		"github.com/sara-star-quant/tls-handshake/pkg/handshake"
//		"github.com/sara-star-quant/tls-handshake/pkg/kex"
//	)
//
//	conn := handshake.New(handshake.ModeServer, transport)
//	blocked, err := handshake.Negotiate(conn)
//	if err != nil {
//		// fatal: conn is now closed and must not be reused
//	}
//	// blocked == handshake.BlockedOnRead / BlockedOnWrite means: call again
//	// once the transport has more to offer or can accept more output
//
// # Package Structure
//
//   - pkg/handshake: the state machine, transition validator, record-fragmenting
//     write driver, reassembling read driver, transcript hash fan-out, and the
//     top-level negotiation loop
//   - pkg/protocol: wire-level enums and header framing shared by every message
//   - pkg/record: the TLS record layer (fragmentation, SSLv2-compat detection,
//     would-block signaling) that the handshake driver is built on top of
//   - pkg/stuffer: the bounded, cursor-based byte buffer used for reassembly
//   - pkg/digest: the six-digest (MD5/SHA-1/SHA-256 x client-view/server-view)
//     transcript hash fan-out
//   - pkg/kex: the default key-exchange, AEAD, and KDF collaborators plugged
//     into the handshake's out-of-scope cryptographic extension points
//   - pkg/metrics: structured logging and tracing for handshake observability
//   - pkg/version: the driver's semantic version
//   - internal/constants: wire constants and security parameters
//   - internal/errors: sentinel and wrapped error types
//   - cmd/tlsdrive: a demo/benchmark CLI exercising the driver over real TCP
//
// # Non-goals
//
// Renegotiation is not supported: a post-handshake ClientHello is rejected
// as a protocol error, matching the stance of the handshake engine this
// package was distilled from. Application data is never interleaved with
// handshake messages while negotiation is in progress — Connection.Send
// and Connection.Receive both refuse to run before state reaches
// HANDSHAKE_OVER — but once negotiation completes, sending and receiving
// application data over the now-established session is the ordinary way
// this package gets used, not an exception to the above.
package tlshandshake
