// Package constants defines wire constants and security parameters for the
// TLS handshake driver.
package constants

// Record content types (RFC 5246 section 6.2.1).
const (
	ContentTypeChangeCipherSpec uint8 = 20
	ContentTypeAlert            uint8 = 21
	ContentTypeHandshake        uint8 = 22
	ContentTypeApplicationData  uint8 = 23
)

// Handshake message types (RFC 5246 section 7.4). ClientCert shares a wire
// value with ServerCert and ServerFinished shares one with ClientFinished;
// the two are disambiguated by direction, not by tag.
const (
	MessageTypeHelloRequest       uint8 = 0
	MessageTypeClientHello        uint8 = 1
	MessageTypeServerHello        uint8 = 2
	MessageTypeCertificate        uint8 = 11
	MessageTypeServerKeyExchange  uint8 = 12
	MessageTypeCertificateRequest uint8 = 13
	MessageTypeServerHelloDone    uint8 = 14
	MessageTypeCertificateVerify  uint8 = 15
	MessageTypeClientKeyExchange  uint8 = 16
	MessageTypeFinished           uint8 = 20
	MessageTypeCertificateStatus  uint8 = 22
)

// Protocol version bounds, encoded as major*10+minor (RFC 5246 appendix E).
const (
	ProtocolSSLv3  = 30
	ProtocolTLS10  = 31
	ProtocolTLS11  = 32
	ProtocolTLS12  = 33
	MinProtocolVer = ProtocolSSLv3
	MaxProtocolVer = ProtocolTLS12
)

// TLS compression methods (RFC 5246 section 7.4.1.4). Compression beyond
// null was deprecated after CRIME; this driver only ever accepts null.
const CompressionMethodNull uint8 = 0

// Wire framing sizes.
const (
	// HandshakeHeaderLen is the 1-byte message type plus 3-byte big-endian
	// length that prefixes every handshake message.
	HandshakeHeaderLen = 4

	// RecordHeaderLen is the 1-byte content type, 2-byte version, and
	// 2-byte length that prefixes every TLS record.
	RecordHeaderLen = 5

	// RandomLen is the size of the client_random / server_random nonces.
	RandomLen = 32

	// MaxSessionIDLen is the maximum legacy session_id length.
	MaxSessionIDLen = 32

	// MaxHandshakeMessageLen bounds the 24-bit handshake length field; s2n's
	// S2N_MAXIMUM_HANDSHAKE_MESSAGE_LENGTH enforces an implementation cap
	// well under the field's theoretical 2^24-1 maximum.
	MaxHandshakeMessageLen = 1 << 16

	// MaxRecordPayload is the largest plaintext payload a single TLS record
	// may carry (RFC 5246 section 6.2.1).
	MaxRecordPayload = 1 << 14
)

// SignatureDigestAlgorithm identifies the PRF/Finished digest pairing
// latched by ServerHello once the protocol version is known.
type SignatureDigestAlgorithm uint8

const (
	SignatureDigestMD5SHA1 SignatureDigestAlgorithm = iota
	SignatureDigestSHA1
)

// CipherSuite identifies a negotiated cipher suite. Values reuse the CH-KEM
// hybrid suite identifiers the default key-exchange collaborator offers;
// a deployment wiring classical RSA/ECDHE suites would extend this set.
type CipherSuite uint16

const (
	CipherSuiteCHKEMAES256GCM        CipherSuite = 0x0001
	CipherSuiteCHKEMChaCha20Poly1305 CipherSuite = 0x0002
)

// String returns a human-readable cipher suite name.
func (cs CipherSuite) String() string {
	switch cs {
	case CipherSuiteCHKEMAES256GCM:
		return "CH-KEM-AES-256-GCM"
	case CipherSuiteCHKEMChaCha20Poly1305:
		return "CH-KEM-ChaCha20-Poly1305"
	default:
		return "Unknown"
	}
}

// IsSupported reports whether cs is one of the suites this driver's default
// collaborators can negotiate.
func (cs CipherSuite) IsSupported() bool {
	return cs == CipherSuiteCHKEMAES256GCM || cs == CipherSuiteCHKEMChaCha20Poly1305
}

// CH-KEM hybrid key-exchange sizes (X25519 + ML-KEM-1024), used for the
// ServerKeyExchange / ClientKeyExchange key-share blobs.
const (
	X25519PublicKeySize = 32
	MLKEMPublicKeySize  = 1568
	MLKEMCiphertextSize = 1568

	CHKEMPublicKeySize  = X25519PublicKeySize + MLKEMPublicKeySize
	CHKEMCiphertextSize = X25519PublicKeySize + MLKEMCiphertextSize

	// X25519SharedSecretSize and MLKEMSharedSecretSize are the raw shared
	// secret lengths the two cascaded mechanisms produce before combination.
	X25519SharedSecretSize = 32
	MLKEMSharedSecretSize  = 32

	// CHKEMSharedSecretSize is the size of the combined secret DeriveCHKEMSecret
	// produces from the two cascaded mechanisms plus the transcript hash.
	CHKEMSharedSecretSize = 32

	// TranscriptHashSize is the digest size TranscriptHash produces (SHA3-256).
	TranscriptHashSize = 32
)

// AEAD parameters for the record-protection cipher activated by ChangeCipherSpec.
const (
	AESKeySize   = 32
	AESNonceSize = 12
	AESTagSize   = 16
)

// Domain separators for key derivation, scoping the handshake's Finished
// verify_data and the post-CCS traffic keys.
const (
	DomainSeparatorHandshakeKeys = "tls-handshake-driver/handshake-keys"
	DomainSeparatorClientFinish  = "tls-handshake-driver/client-finished"
	DomainSeparatorServerFinish  = "tls-handshake-driver/server-finished"
)

// FinishedVerifyDataLen is the size of the verify_data field in a Finished
// message.
const FinishedVerifyDataLen = 32
