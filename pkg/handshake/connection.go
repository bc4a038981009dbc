package handshake

import (
	"io"
	"time"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	"github.com/sara-star-quant/tls-handshake/pkg/digest"
	"github.com/sara-star-quant/tls-handshake/pkg/kex"
	"github.com/sara-star-quant/tls-handshake/pkg/metrics"
	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
	"github.com/sara-star-quant/tls-handshake/pkg/record"
	"github.com/sara-star-quant/tls-handshake/pkg/stuffer"
)

// BlockedStatus reports why negotiate suspended, so the caller knows which
// direction of the transport to wait on before retrying.
type BlockedStatus int

const (
	NotBlocked BlockedStatus = iota
	BlockedOnRead
	BlockedOnWrite
)

func (b BlockedStatus) String() string {
	switch b {
	case BlockedOnRead:
		return "blocked_on_read"
	case BlockedOnWrite:
		return "blocked_on_write"
	default:
		return "not_blocked"
	}
}

// PendingParams holds the secrets and parameters still being negotiated;
// it becomes the active session's parameters once HANDSHAKE_OVER is
// reached.
type PendingParams struct {
	ClientRandom [constants.RandomLen]byte
	ServerRandom [constants.RandomLen]byte
	SessionID    []byte

	ClientOfferedSuites []constants.CipherSuite
	CipherSuite         constants.CipherSuite
	SignatureDigestAlg  constants.SignatureDigestAlgorithm

	// ServerCertificate is an opaque placeholder blob: certificate chain
	// encoding and validation are delegated to a collaborator this driver
	// doesn't implement, so the bytes are moved but never inspected.
	ServerCertificate []byte

	// ServerKeyShare / ClientKeyShare carry the CH-KEM public key and
	// ciphertext that stand in for a classical ServerKeyExchange /
	// ClientKeyExchange body.
	ServerKeyShare []byte
	ClientKeyShare []byte

	MasterSecret  []byte
	HandshakeKeys kex.HandshakeKeys
}

// Connection owns all per-handshake state: the FSM cursor, the pending
// negotiation parameters, the reassembly/emission scratch buffer, the
// rolling transcript digests, and the record layer it drives. One
// Connection serves exactly one handshake; it is not reusable after a
// fatal error.
type Connection struct {
	mode      Mode
	state     State
	nextState State

	clientProtocolVersion            int
	serverProtocolVersion            int
	actualProtocolVersion            int
	actualProtocolVersionEstablished bool

	pending PendingParams

	handshakeIO *stuffer.Stuffer
	transcript  *digest.Transcript
	records     *record.Layer

	// pendingNextMessage holds bytes belonging to the message after the one
	// currently being assembled, when a peer packs more than one handshake
	// message into a single record.
	pendingNextMessage []byte

	serverKeyPair *kex.KeyPair // only set in server mode, generated at SERVER_KEY

	closed    bool
	completed bool

	// awaitingFlush is set once a state's message has been fully framed and
	// handed to the record layer's output buffer, so a would-block return
	// from Flush resumes by retrying the flush alone rather than re-running
	// the handler and re-framing the message.
	awaitingFlush bool

	alerts *alertQueue

	logger    *metrics.Logger
	stats     *metrics.Collector
	startedAt time.Time
}

// New creates a Connection for mode over transport, ready to negotiate
// starting from CLIENT_HELLO. The client's offered protocol version is
// fixed at TLS 1.2, the highest this driver supports; actual_protocol_version
// starts there too and only ever ratchets downward once ServerHello is
// processed, mirroring the source's initial-optimistic-version convention.
func New(mode Mode, transport io.ReadWriter) *Connection {
	conn := &Connection{
		mode:                  mode,
		state:                 ClientHello,
		clientProtocolVersion: protocol.TLS12.Numeric(),
		serverProtocolVersion: protocol.TLS12.Numeric(),
		actualProtocolVersion: protocol.TLS12.Numeric(),
		handshakeIO:           stuffer.New(4096),
		transcript:            digest.New(),
		records:               record.New(transport),
		alerts:                newAlertQueue(),
		stats:                 metrics.Global(),
		startedAt:             time.Now(),
		pending: PendingParams{
			ClientOfferedSuites: []constants.CipherSuite{
				constants.CipherSuiteCHKEMAES256GCM,
				constants.CipherSuiteCHKEMChaCha20Poly1305,
			},
		},
	}
	conn.logger = metrics.GetLogger().Named("handshake").With(metrics.Fields{"role": mode.String()})
	conn.stats.HandshakeStarted()
	return conn
}

// Mode reports whether this connection is driving the client or server role.
func (c *Connection) Mode() Mode { return c.mode }

// State reports the current handshake step.
func (c *Connection) State() State { return c.state }

// Closed reports whether the connection has latched a terminal failure or
// peer close.
func (c *Connection) Closed() bool { return c.closed }

// ActualProtocolVersion returns the negotiated protocol version's numeric
// encoding (major*10+minor), valid once latched by ServerHello.
func (c *Connection) ActualProtocolVersion() int { return c.actualProtocolVersion }

// CipherSuite returns the negotiated cipher suite, valid once ServerHello
// has been processed.
func (c *Connection) CipherSuite() constants.CipherSuite { return c.pending.CipherSuite }

// Pending exposes the in-negotiation parameter block. Callers should treat
// it as read-only; handlers are the only code meant to mutate it.
func (c *Connection) Pending() *PendingParams { return &c.pending }
