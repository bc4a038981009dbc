package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/sara-star-quant/tls-handshake/pkg/protocol"
)

// chunkedConn feeds Read in caller-controlled pieces and can simulate a
// would-block by returning ErrWouldBlock when its queue runs dry.
type chunkedConn struct {
	chunks [][]byte
	out    bytes.Buffer
}

func (c *chunkedConn) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, ErrWouldBlock
	}
	n := copy(p, c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	if len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *chunkedConn) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func oneByteChunks(b []byte) [][]byte {
	out := make([][]byte, len(b))
	for i, c := range b {
		out[i] = []byte{c}
	}
	return out
}

func TestReadRecordOneByteAtATime(t *testing.T) {
	payload := []byte("hello handshake")
	frame := make([]byte, 0, 5+len(payload))
	header := make([]byte, 5)
	protocol.EncodeRecordHeader(header, protocol.RecordHeader{
		Type:    protocol.ContentTypeHandshake,
		Version: protocol.TLS12,
		Length:  uint16(len(payload)),
	})
	frame = append(frame, header...)
	frame = append(frame, payload...)

	conn := &chunkedConn{chunks: oneByteChunks(frame)}
	layer := New(conn)

	var ct protocol.ContentType
	var got []byte
	for {
		c, p, sslv2, err := layer.ReadRecord()
		if err == ErrWouldBlock {
			continue
		}
		if err != nil {
			t.Fatalf("ReadRecord: %v", err)
		}
		if sslv2 != nil {
			t.Fatal("unexpected sslv2 frame")
		}
		ct, got = c, p
		break
	}

	if ct != protocol.ContentTypeHandshake {
		t.Fatalf("content type = %v, want handshake", ct)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestReadRecordWholeFrameInOneRead(t *testing.T) {
	payload := []byte("single shot")
	header := make([]byte, 5)
	protocol.EncodeRecordHeader(header, protocol.RecordHeader{
		Type:    protocol.ContentTypeAlert,
		Version: protocol.TLS12,
		Length:  uint16(len(payload)),
	})
	frame := append(header, payload...)

	conn := &chunkedConn{chunks: [][]byte{frame}}
	layer := New(conn)

	ct, got, sslv2, err := layer.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if sslv2 != nil {
		t.Fatal("unexpected sslv2 frame")
	}
	if ct != protocol.ContentTypeAlert || !bytes.Equal(got, payload) {
		t.Fatalf("got (%v, %q), want (alert, %q)", ct, got, payload)
	}
}

func TestReadRecordDetectsSSLv2ClientHello(t *testing.T) {
	body := []byte{1, 3, 1, 'c', 'l', 'i', 'e', 'n', 't', 'h', 'e', 'l', 'l', 'o'}
	length := len(body)
	frame := []byte{byte(0x80 | (length >> 8)), byte(length)}
	frame = append(frame, body...)

	conn := &chunkedConn{chunks: [][]byte{frame}}
	layer := New(conn)

	_, _, sslv2, err := layer.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if sslv2 == nil {
		t.Fatal("expected an sslv2 frame")
	}
	if sslv2.Prefix != [3]byte{1, 3, 1} {
		t.Fatalf("prefix = %v, want [1 3 1]", sslv2.Prefix)
	}
	if !bytes.Equal(sslv2.Body, []byte("clienthello")) {
		t.Fatalf("body = %q, want %q", sslv2.Body, "clienthello")
	}
}

func TestReadRecordRejectsOverlengthBody(t *testing.T) {
	header := make([]byte, 5)
	protocol.EncodeRecordHeader(header, protocol.RecordHeader{
		Type:    protocol.ContentTypeHandshake,
		Version: protocol.TLS12,
		Length:  0xFFFF,
	})
	conn := &chunkedConn{chunks: [][]byte{header}}
	layer := New(conn)

	for i := 0; i < 10; i++ {
		_, _, _, err := layer.ReadRecord()
		if err == ErrWouldBlock {
			continue
		}
		if err == nil {
			t.Fatal("expected an error for an implausibly large record")
		}
		return
	}
}

func TestWriteRecordThenFlushRoundTrips(t *testing.T) {
	conn := &chunkedConn{}
	layer := New(conn)

	payload := []byte("finished verify data")
	if err := layer.WriteRecord(protocol.ContentTypeHandshake, payload); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	wouldBlock, err := layer.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if wouldBlock {
		t.Fatal("Flush reported would-block against an unbounded buffer")
	}

	reader := New(&chunkedConn{chunks: [][]byte{conn.out.Bytes()}})
	ct, got, _, err := reader.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if ct != protocol.ContentTypeHandshake || !bytes.Equal(got, payload) {
		t.Fatalf("round trip got (%v, %q), want (handshake, %q)", ct, got, payload)
	}
}

func TestReadRecordSurfacesTransportClosed(t *testing.T) {
	conn := &eofConn{}
	layer := New(conn)
	_, _, _, err := layer.ReadRecord()
	if err == nil {
		t.Fatal("expected an error on immediate EOF")
	}
}

type eofConn struct{}

func (eofConn) Read(p []byte) (int, error)  { return 0, io.EOF }
func (eofConn) Write(p []byte) (int, error) { return len(p), nil }
