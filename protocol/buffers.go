package protocol

// Sink accepts one byte at a time. Push reports false, and stores nothing,
// when the byte cannot be accepted.
type Sink interface {
	Push(b byte) bool
}

// RingBuffer is a fixed-size circular byte store with separate read and
// write cursors. One slot is always left empty so that full and empty can
// be told apart: usable capacity is size-1.
//
// There is no locking. The producer and the consumer must run in the same
// cooperative context, or the caller must serialize them.
type RingBuffer struct {
	buf   []byte
	read  int
	write int
}

// NewRingBuffer creates a RingBuffer backed by size bytes.
// The backing array is allocated once and never resized.
func NewRingBuffer(size int) *RingBuffer {
	if size < 2 {
		size = 2
	}
	return &RingBuffer{buf: make([]byte, size)}
}

// Push appends one byte. It returns false without mutating anything when
// the buffer is full.
func (r *RingBuffer) Push(b byte) bool {
	next := r.write + 1
	if next >= len(r.buf) {
		next = 0
	}
	if next == r.read {
		// Buffer full
		return false
	}
	r.buf[r.write] = b
	r.write = next
	return true
}

// WritableSpan returns the next contiguous free region starting at the
// write cursor. When free space wraps past the end of the array only the
// first part is returned; call again after CommitWrite to get the rest.
func (r *RingBuffer) WritableSpan() []byte {
	end := len(r.buf)
	if r.read > r.write {
		end = r.read - 1
	} else if r.read == 0 {
		// The last slot is the sacrificed one
		end = len(r.buf) - 1
	}
	return r.buf[r.write:end]
}

// CommitWrite marks n bytes of the last WritableSpan as filled.
// n is clamped to the current span length.
func (r *RingBuffer) CommitWrite(n int) {
	if span := len(r.WritableSpan()); n > span {
		n = span
	}
	if n <= 0 {
		return
	}
	r.write += n
	if r.write == len(r.buf) {
		r.write = 0
	}
}

// ReadableSpan returns the next contiguous region of pending bytes.
// Like WritableSpan it stops at the end of the array when the data wraps.
func (r *RingBuffer) ReadableSpan() []byte {
	if r.write >= r.read {
		return r.buf[r.read:r.write]
	}
	// Wrapped: hand out the tail first
	return r.buf[r.read:]
}

// CommitRead releases n bytes of the last ReadableSpan.
// n is clamped to the current span length.
func (r *RingBuffer) CommitRead(n int) {
	if span := len(r.ReadableSpan()); n > span {
		n = span
	}
	if n <= 0 {
		return
	}
	r.read += n
	if r.read == len(r.buf) {
		r.read = 0
	}
}

// Write pushes bytes from p until the buffer fills.
// It returns the number of bytes accepted.
func (r *RingBuffer) Write(p []byte) int {
	written := 0
	for _, b := range p {
		if !r.Push(b) {
			break
		}
		written++
	}
	return written
}

// Read copies up to len(p) pending bytes into p and releases them.
func (r *RingBuffer) Read(p []byte) int {
	read := 0
	for read < len(p) {
		span := r.ReadableSpan()
		if len(span) == 0 {
			break
		}
		n := copy(p[read:], span)
		r.CommitRead(n)
		read += n
	}
	return read
}

// Len returns the number of bytes waiting to be read
func (r *RingBuffer) Len() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.buf) - r.read + r.write
}

// Free returns the number of bytes that can still be pushed
func (r *RingBuffer) Free() int {
	return r.Cap() - r.Len()
}

// Cap returns the usable capacity, one less than the backing size
func (r *RingBuffer) Cap() int {
	return len(r.buf) - 1
}

// IsEmpty returns true if the buffer is empty
func (r *RingBuffer) IsEmpty() bool {
	return r.read == r.write
}

// Reset clears the buffer
func (r *RingBuffer) Reset() {
	r.read = 0
	r.write = 0
}

// StagingBuffer is the fixed array the transport fills with newly arrived
// bytes before they are fed, in order, to the parser.
type StagingBuffer struct {
	buf [InputBufferSize]byte
}

// Stage returns the whole staging array for the transport to fill
func (s *StagingBuffer) Stage() []byte {
	return s.buf[:]
}

// Commit feeds the first n staged bytes to feed, one at a time.
// n is clamped to the staging capacity.
func (s *StagingBuffer) Commit(n int, feed func(b byte)) {
	if n > len(s.buf) {
		n = len(s.buf)
	}
	for i := 0; i < n; i++ {
		feed(s.buf[i])
	}
}
