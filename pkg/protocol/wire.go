package protocol

import (
	"encoding/binary"

	"github.com/sara-star-quant/tls-handshake/internal/constants"
	qerrors "github.com/sara-star-quant/tls-handshake/internal/errors"
)

// ContentType identifies a TLS record's payload kind.
type ContentType uint8

const (
	ContentTypeChangeCipherSpec ContentType = ContentType(constants.ContentTypeChangeCipherSpec)
	ContentTypeAlert            ContentType = ContentType(constants.ContentTypeAlert)
	ContentTypeHandshake        ContentType = ContentType(constants.ContentTypeHandshake)
	ContentTypeApplicationData  ContentType = ContentType(constants.ContentTypeApplicationData)
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeChangeCipherSpec:
		return "change_cipher_spec"
	case ContentTypeAlert:
		return "alert"
	case ContentTypeHandshake:
		return "handshake"
	case ContentTypeApplicationData:
		return "application_data"
	default:
		return "unknown"
	}
}

// HandshakeMessageType identifies the one-byte tag of a handshake message.
type HandshakeMessageType uint8

const (
	MessageTypeClientHello        HandshakeMessageType = HandshakeMessageType(constants.MessageTypeClientHello)
	MessageTypeServerHello        HandshakeMessageType = HandshakeMessageType(constants.MessageTypeServerHello)
	MessageTypeCertificate        HandshakeMessageType = HandshakeMessageType(constants.MessageTypeCertificate)
	MessageTypeServerKeyExchange  HandshakeMessageType = HandshakeMessageType(constants.MessageTypeServerKeyExchange)
	MessageTypeCertificateRequest HandshakeMessageType = HandshakeMessageType(constants.MessageTypeCertificateRequest)
	MessageTypeServerHelloDone    HandshakeMessageType = HandshakeMessageType(constants.MessageTypeServerHelloDone)
	MessageTypeCertificateVerify  HandshakeMessageType = HandshakeMessageType(constants.MessageTypeCertificateVerify)
	MessageTypeClientKeyExchange  HandshakeMessageType = HandshakeMessageType(constants.MessageTypeClientKeyExchange)
	MessageTypeFinished           HandshakeMessageType = HandshakeMessageType(constants.MessageTypeFinished)
	MessageTypeCertificateStatus  HandshakeMessageType = HandshakeMessageType(constants.MessageTypeCertificateStatus)
)

// HandshakeHeader is the 1-byte message type plus 3-byte big-endian length
// that prefixes every handshake message's body.
type HandshakeHeader struct {
	MessageType HandshakeMessageType
	Length      uint32 // 24-bit on the wire
}

// EncodeHandshakeHeader writes the 4-byte handshake header into buf, which
// must be at least constants.HandshakeHeaderLen bytes.
func EncodeHandshakeHeader(buf []byte, h HandshakeHeader) {
	buf[0] = byte(h.MessageType)
	buf[1] = byte(h.Length >> 16)
	buf[2] = byte(h.Length >> 8)
	buf[3] = byte(h.Length)
}

// DecodeHandshakeHeader parses a 4-byte handshake header. The caller must
// supply exactly constants.HandshakeHeaderLen bytes.
func DecodeHandshakeHeader(buf []byte) (HandshakeHeader, error) {
	if len(buf) < constants.HandshakeHeaderLen {
		return HandshakeHeader{}, qerrors.ErrBadMessage
	}
	length := uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	if length > constants.MaxHandshakeMessageLen {
		return HandshakeHeader{}, qerrors.ErrBadMessage
	}
	return HandshakeHeader{MessageType: HandshakeMessageType(buf[0]), Length: length}, nil
}

// RecordHeader is the 1-byte content type, 2-byte version, and 2-byte
// length that prefixes every TLS record's payload.
type RecordHeader struct {
	Type    ContentType
	Version Version
	Length  uint16
}

// EncodeRecordHeader writes the 5-byte record header into buf, which must
// be at least constants.RecordHeaderLen bytes.
func EncodeRecordHeader(buf []byte, h RecordHeader) {
	buf[0] = byte(h.Type)
	buf[1] = h.Version.Major
	buf[2] = h.Version.Minor
	binary.BigEndian.PutUint16(buf[3:5], h.Length)
}

// DecodeRecordHeader parses a 5-byte record header.
func DecodeRecordHeader(buf []byte) (RecordHeader, error) {
	if len(buf) < constants.RecordHeaderLen {
		return RecordHeader{}, qerrors.ErrBadMessage
	}
	return RecordHeader{
		Type:    ContentType(buf[0]),
		Version: Version{Major: buf[1], Minor: buf[2]},
		Length:  binary.BigEndian.Uint16(buf[3:5]),
	}, nil
}
