package stuffer

import (
	"bytes"
	"testing"
)

func TestWriteThenReadRoundTrips(t *testing.T) {
	s := New(16)
	if err := s.WriteBytes([]byte("hello")); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if got := s.Available(); got != 5 {
		t.Fatalf("Available() = %d, want 5", got)
	}
	got, err := s.ReadBytes(5)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("ReadBytes = %q, want %q", got, "hello")
	}
	if s.Available() != 0 {
		t.Fatalf("Available() after full read = %d, want 0", s.Available())
	}
}

func TestWriteGrowsBeyondInitialCapacity(t *testing.T) {
	s := New(4)
	payload := bytes.Repeat([]byte{0xAB}, 10000)
	if err := s.WriteBytes(payload); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	got, err := s.ReadBytes(len(payload))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("round-tripped payload mismatch after growth")
	}
}

func TestReadMoreThanAvailableFails(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("ab"))
	if _, err := s.ReadBytes(3); err == nil {
		t.Fatal("expected short-read error")
	}
}

func TestRereadReplaysConsumedBytes(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("header"))
	first, _ := s.ReadBytes(6)
	s.Reread()
	second, _ := s.ReadBytes(6)
	if !bytes.Equal(first, second) {
		t.Fatalf("Reread did not replay identical bytes: %q vs %q", first, second)
	}
}

func TestWipeResetsToEmpty(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("secret"))
	s.Wipe()
	if s.Available() != 0 {
		t.Fatalf("Available() after Wipe = %d, want 0", s.Available())
	}
	s.WriteBytes([]byte("fresh"))
	got, _ := s.ReadBytes(5)
	if !bytes.Equal(got, []byte("fresh")) {
		t.Fatalf("stuffer not reusable after Wipe: got %q", got)
	}
}

func TestResizeZeroFillsNewBytes(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("ab"))
	s.Resize(5)
	if s.Available() != 5 {
		t.Fatalf("Available() after grow-resize = %d, want 5", s.Available())
	}
	got, _ := s.ReadBytes(5)
	if !bytes.Equal(got, []byte{'a', 'b', 0, 0, 0}) {
		t.Fatalf("Resize did not zero-fill new bytes: %v", got)
	}
}

func TestResizeShrinkClampsReadCursor(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("hello world"))
	s.ReadBytes(8)
	s.Resize(3)
	if s.Available() != 0 {
		t.Fatalf("Available() after shrink below read cursor = %d, want 0", s.Available())
	}
}

func TestCopyIntoTransfersBytesBetweenStuffers(t *testing.T) {
	src := New(16)
	dst := New(16)
	src.WriteBytes([]byte("0123456789"))

	n, err := CopyInto(dst, src, 4)
	if err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if n != 4 {
		t.Fatalf("CopyInto copied %d bytes, want 4", n)
	}
	if src.Available() != 6 {
		t.Fatalf("src.Available() after partial copy = %d, want 6", src.Available())
	}

	got, _ := dst.ReadBytes(4)
	if !bytes.Equal(got, []byte("0123")) {
		t.Fatalf("dst received %q, want %q", got, "0123")
	}
}

func TestCopyIntoClampsToSourceAvailability(t *testing.T) {
	src := New(16)
	dst := New(16)
	src.WriteBytes([]byte("ab"))

	n, err := CopyInto(dst, src, 100)
	if err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if n != 2 {
		t.Fatalf("CopyInto copied %d bytes, want 2 (clamped to source)", n)
	}
}

func TestRawWriteExposesDirectBuffer(t *testing.T) {
	s := New(16)
	buf := s.RawWrite(3)
	copy(buf, []byte{1, 2, 3})
	got, _ := s.ReadBytes(3)
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("RawWrite did not expose writable backing bytes: %v", got)
	}
}

func TestOneByteAtATimeReassembly(t *testing.T) {
	// Mirrors the single-byte-fragmentation boundary scenario: bytes
	// trickle in one at a time and must still reassemble correctly.
	s := New(16)
	want := []byte("reassembled")
	for _, b := range want {
		s.WriteBytes([]byte{b})
	}
	got, err := s.ReadBytes(len(want))
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPeekAtDoesNotMoveReadCursor(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("header+body"))

	peeked, err := s.PeekAt(0, 6)
	if err != nil {
		t.Fatalf("PeekAt: %v", err)
	}
	if string(peeked) != "header" {
		t.Fatalf("peeked = %q, want %q", peeked, "header")
	}
	if s.Available() != 11 {
		t.Fatalf("Available() = %d after peek, want unchanged 11", s.Available())
	}
}

func TestAllBytesIgnoresReadCursor(t *testing.T) {
	s := New(16)
	s.WriteBytes([]byte("0123456789"))
	s.ReadBytes(4)
	if string(s.AllBytes()) != "0123456789" {
		t.Fatalf("AllBytes() = %q, want full written region", s.AllBytes())
	}
}
