package stuffer

import "fmt"

// Stuffer is a bounded byte buffer with independent read and write cursors,
// the scratch-buffer primitive the handshake driver reassembles and emits
// messages through. Writes append at the write cursor; reads consume from
// the read cursor, which never passes the write cursor.
type Stuffer struct {
	data       []byte
	readCursor int
	pool       *pool
}

// New allocates a Stuffer with at least initialCap bytes of backing
// capacity, drawn from the package's size-classed pool.
func New(initialCap int) *Stuffer {
	if initialCap <= 0 {
		initialCap = smallBufferSize
	}
	return &Stuffer{
		data: globalPool.get(initialCap)[:0],
		pool: globalPool,
	}
}

// Available returns the number of unread bytes between the read cursor and
// the write cursor.
func (s *Stuffer) Available() int {
	return len(s.data) - s.readCursor
}

// Capacity returns the stuffer's current backing capacity.
func (s *Stuffer) Capacity() int {
	return cap(s.data)
}

// Len returns the total number of bytes written to the stuffer so far,
// regardless of how many have been read.
func (s *Stuffer) Len() int {
	return len(s.data)
}

// PeekAt returns a zero-copy view of n bytes starting at offset from the
// beginning of the written region, without moving the read cursor. It
// fails if the requested range isn't fully written yet.
func (s *Stuffer) PeekAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(s.data) {
		return nil, fmt.Errorf("stuffer: peek out of range: offset=%d n=%d len=%d", offset, n, len(s.data))
	}
	return s.data[offset : offset+n], nil
}

// AllBytes returns a zero-copy view over every byte written to the
// stuffer so far, ignoring the read cursor. The transcript hash fan-out
// uses this to absorb a complete reassembled message regardless of how
// much of it the message handler has since consumed.
func (s *Stuffer) AllBytes() []byte {
	return s.data
}

// grow ensures the backing array can hold at least n more bytes past the
// current write cursor, copying existing data into fresh pooled storage if
// necessary.
func (s *Stuffer) grow(n int) {
	need := len(s.data) + n
	if need <= cap(s.data) {
		return
	}
	newCap := cap(s.data) * 2
	if newCap < need {
		newCap = need
	}
	fresh := s.pool.get(newCap)[:len(s.data)]
	copy(fresh, s.data)
	old := s.data
	s.data = fresh
	s.pool.put(old)
}

// WriteBytes appends b at the write cursor, growing the backing buffer if
// required.
func (s *Stuffer) WriteBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	s.grow(len(b))
	s.data = s.data[:len(s.data)+len(b)]
	copy(s.data[len(s.data)-len(b):], b)
	return nil
}

// RawWrite reserves n bytes at the write cursor and returns a slice over
// them for the caller to fill in directly, avoiding an intermediate copy.
func (s *Stuffer) RawWrite(n int) []byte {
	if n <= 0 {
		return nil
	}
	s.grow(n)
	start := len(s.data)
	s.data = s.data[:start+n]
	return s.data[start : start+n]
}

// ReadBytes copies the next n unread bytes out, advancing the read cursor.
// It fails if fewer than n bytes are available.
func (s *Stuffer) ReadBytes(n int) ([]byte, error) {
	raw, err := s.rawRead(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

// RawRead returns a zero-copy view over the next n unread bytes, advancing
// the read cursor. The returned slice aliases the stuffer's backing array
// and is only valid until the next Wipe or grow.
func (s *Stuffer) RawRead(n int) []byte {
	raw, err := s.rawRead(n)
	if err != nil {
		return nil
	}
	return raw
}

func (s *Stuffer) rawRead(n int) ([]byte, error) {
	if n < 0 || n > s.Available() {
		return nil, fmt.Errorf("stuffer: short read: want %d, have %d", n, s.Available())
	}
	raw := s.data[s.readCursor : s.readCursor+n]
	s.readCursor += n
	return raw, nil
}

// Reread rewinds the read cursor to the start of the buffer without
// discarding any written data, so a subsequent read sees the same bytes
// again.
func (s *Stuffer) Reread() {
	s.readCursor = 0
}

// Wipe zeroes and resets the stuffer to empty, releasing its backing array
// to the pool. The stuffer is immediately reusable; the next write
// allocates fresh backing storage.
func (s *Stuffer) Wipe() {
	for i := range s.data {
		s.data[i] = 0
	}
	s.pool.put(s.data[:cap(s.data)])
	s.data = nil
	s.readCursor = 0
}

// Resize truncates or extends the logical (written) length of the buffer to
// n bytes, zero-filling any newly exposed bytes. It does not move the read
// cursor; a Resize below the read cursor clamps it back to the new length.
func (s *Stuffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.data) {
		s.data = s.data[:n]
	} else {
		s.grow(n - len(s.data))
		old := len(s.data)
		s.data = s.data[:n]
		for i := old; i < n; i++ {
			s.data[i] = 0
		}
	}
	if s.readCursor > len(s.data) {
		s.readCursor = len(s.data)
	}
}

// CopyInto copies up to n unread bytes from src into dst, advancing both
// cursors, and returns the number of bytes actually copied (which may be
// less than n if src doesn't have that many available).
func CopyInto(dst, src *Stuffer, n int) (int, error) {
	avail := src.Available()
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0, nil
	}
	raw := src.RawRead(n)
	if raw == nil {
		return 0, fmt.Errorf("stuffer: copy: short read from source")
	}
	if err := dst.WriteBytes(raw); err != nil {
		return 0, err
	}
	return n, nil
}
