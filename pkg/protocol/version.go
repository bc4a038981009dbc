// Package protocol defines the wire-level types shared by the record layer
// and the handshake driver: protocol versions, content types, handshake
// message types, and the header framing that prefixes both record and
// handshake-message bytes.
package protocol

import "github.com/sara-star-quant/tls-handshake/internal/constants"

// Version is a TLS protocol version, encoded on the wire as {major, minor}.
type Version struct {
	Major uint8
	Minor uint8
}

// SSLv3, TLS10, TLS11, and TLS12 are the only versions this driver accepts
// (RFC 5246 appendix E). TLS 1.2's numeric encoding is major=3, minor=3.
var (
	SSLv3 = Version{Major: 3, Minor: 0}
	TLS10 = Version{Major: 3, Minor: 1}
	TLS11 = Version{Major: 3, Minor: 2}
	TLS12 = Version{Major: 3, Minor: 3}
)

// Numeric returns the major*10+minor encoding s2n-style handshake code
// compares versions with: easy to range-check, unambiguous for every
// version this driver accepts.
func (v Version) Numeric() int {
	return int(v.Major)*10 + int(v.Minor)
}

// InAcceptedRange reports whether v's numeric encoding falls within
// [SSLv3, TLS1.2].
func (v Version) InAcceptedRange() bool {
	n := v.Numeric()
	return n >= constants.MinProtocolVer && n <= constants.MaxProtocolVer
}

// Bytes returns the version's two-byte wire encoding.
func (v Version) Bytes() [2]byte {
	return [2]byte{v.Major, v.Minor}
}

// ParseVersion decodes a version from its two-byte wire encoding.
func ParseVersion(b []byte) Version {
	return Version{Major: b[0], Minor: b[1]}
}

// FromNumeric reconstructs a Version from its major*10+minor encoding, the
// inverse of Numeric.
func FromNumeric(n int) Version {
	return Version{Major: uint8(n / 10), Minor: uint8(n % 10)}
}

// String renders the version as e.g. "3.3".
func (v Version) String() string {
	digit := func(b uint8) byte { return '0' + b }
	return string([]byte{digit(v.Major), '.', digit(v.Minor)})
}
