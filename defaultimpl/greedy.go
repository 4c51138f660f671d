package impl

import (
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"io"
)

// interface check: interf.GreedyReader
var _ interf.GreedyReader = (*_GreedyReader)(nil)

// maxEmptyReads limits (0, nil) results from the source in a row.
// The same guard is used by bufio (maxConsecutiveEmptyReads).
const maxEmptyReads = 100

// @see interf.GreedyReader
//
// GreedyReader provides random read access to a forward-only byte stream.
// All bytes ever pulled from the source are retained in an internal buffer
// that only grows. Sequential reads and random access are served from this
// one buffer.
type _GreedyReader struct {
	inner     io.Reader // the source (exclusively owned)
	buf       []byte    // resident bytes; cap(buf) can exceed len(buf)
	consumed  int       // position of the next sequential byte
	exhausted bool      // true after the source returned io.EOF (final)
	stat      *_BufStat // collects statistical data about internal processes
}

// NewGreedyReader wraps a forward-only source and returns a reader with
// random read access to the stream (@see interf.GreedyReader).
// A nil source behaves like an empty source.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewGreedyReader(src io.Reader, debugLvl uint8) interf.GreedyReader {
	return NewGreedyReaderSize(src, 0, debugLvl)
}

// NewGreedyReaderSize behaves like NewGreedyReader but pre-allocates an
// internal buffer of the given capacity. The reader can hold approximately
// capacity bytes without reallocating. Use this for streams with a known or
// estimated size.
func NewGreedyReaderSize(src io.Reader, capacity int, debugLvl uint8) interf.GreedyReader {
	// check input
	if src == nil {
		src = NewZeroSource() // no source -> empty stream
	}
	if capacity < 0 {
		capacity = 0
	}

	// statistic
	stat := &_BufStat{
		debugLvl:    debugLvl, // enable debug logging [0, 1, 2] (level: high=2)
		packageName: "impl",   // text for debug logging
	}

	// return
	stat.GrNew(capacity) // DEBUG
	return &_GreedyReader{
		inner:     src,
		buf:       make([]byte, 0, capacity),
		consumed:  0,
		exhausted: false,
		stat:      stat,
	}
}

//-----------  IMPLEMENTATION:  @see interf.GreedyReader  ------------------------------------------------------------//

// @see interf.GreedyReader
//
// Fill pulls bytes from the source until at least n bytes are resident, the
// source is exhausted or the source reports an error. It returns the resident
// length after the attempt. Partial progress is kept on error.
func (g *_GreedyReader) Fill(n int) (int, error) {
	// fast path: resident or no more data (no I/O)
	if n <= len(g.buf) || g.exhausted {
		g.stat.GrFillFast(n, len(g.buf), g.exhausted) // DEBUG
		return len(g.buf), nil
	}

	// pull from the source into the spare capacity. The buffer is grown one
	// doubling step at a time, so a request far beyond the real stream length
	// cannot force a giant allocation before the source runs dry.
	empty := 0
	for len(g.buf) < n {
		if len(g.buf) == cap(g.buf) {
			g.reserve(nextCap(cap(g.buf), n))
		}
		read, err := g.inner.Read(g.buf[len(g.buf):cap(g.buf)])
		if read > 0 {
			g.buf = g.buf[:len(g.buf)+read]
			empty = 0
		} else {
			empty++
		}
		g.stat.GrFillRead(n, len(g.buf), read, err) // DEBUG

		if err == io.EOF {
			g.exhausted = true // final: the source has no further bytes
			break
		}
		if err != nil {
			// source error: surface verbatim, keep what was pulled
			return len(g.buf), err
		}
		if empty >= maxEmptyReads {
			return len(g.buf), io.ErrNoProgress
		}
	}
	return len(g.buf), nil
}

// @see interf.GreedyReader
//
// ByteAt returns the byte at the given position, pulling from the source if
// the position is not resident yet. Calling ByteAt twice with the same
// position returns the same byte and the second call triggers no source I/O.
// ByteAt never moves the sequential read position.
func (g *_GreedyReader) ByteAt(index int) (byte, error) {
	// check index
	if index < 0 {
		return 0, interf.ErrInvalidRange
	}

	// fill and check
	n, err := g.Fill(index + 1)
	g.stat.GrByteAt(index, n, err) // DEBUG
	if err != nil {
		return 0, err
	}
	if index >= n {
		// the source is exhausted and has no such byte
		return 0, interf.ErrOutOfRange
	}
	return g.buf[index], nil
}

// @see interf.GreedyReader
//
// Slice returns the bytes [start, end) as a view into the internal buffer.
// A truncated slice is never returned: reaching the end of the source before
// end is ErrOutOfRange. The view stays valid when the buffer grows later,
// because growth replaces the backing array instead of rewriting it.
// The returned slice must not be modified.
func (g *_GreedyReader) Slice(start, end int) ([]byte, error) {
	// check range (no I/O)
	if start < 0 || start > end {
		g.stat.GrSlice(start, end, interf.ErrInvalidRange) // DEBUG
		return nil, interf.ErrInvalidRange
	}

	// fill and check
	n, err := g.Fill(end)
	g.stat.GrSlice(start, end, err) // DEBUG
	if err != nil {
		return nil, err
	}
	if end > n {
		return nil, interf.ErrOutOfRange
	}
	return g.buf[start:end], nil
}

// Read is the sequential view of the stream (io.Reader).
// It advances the internal cursor and pulls from the source as needed.
// Read returns a short count only when the source is exhausted and (0, io.EOF)
// only at the true end of the stream. Random access (ByteAt, Slice) does not
// affect the cursor. Because short counts only happen at exhaustion,
// io.ReadFull over this reader fails with io.ErrUnexpectedEOF exactly when an
// exact-length read cannot be satisfied.
func (g *_GreedyReader) Read(p []byte) (int, error) {
	// check fast return
	if len(p) == 0 {
		return 0, nil // read nothing -> return nothing
	}

	// fill up to the end of the destination (stops early at exhaustion)
	filled, err := g.Fill(g.consumed + len(p))

	// serve resident bytes (also on error: partial progress is kept)
	n := copy(p, g.buf[g.consumed:filled])
	g.consumed += n
	g.stat.GrRead(len(p), n, err) // DEBUG

	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF // exhausted and consumed == resident length
	}
	return n, nil
}

// @see interf.GreedyReader
func (g *_GreedyReader) Len() int {
	return len(g.buf)
}

// @see interf.GreedyReader
func (g *_GreedyReader) Exhausted() bool {
	return g.exhausted
}

// @see interf.GreedyReader
//
// Clear drops all consumed bytes and rebases the indices: the next sequential
// byte becomes position 0. Already prefetched but unread bytes are kept.
// The old backing array is left untouched, so slices handed out earlier keep
// their bytes.
func (g *_GreedyReader) Clear() {
	g.stat.GrClear(g.consumed, len(g.buf)) // DEBUG

	if g.consumed < len(g.buf) {
		keep := make([]byte, len(g.buf)-g.consumed)
		copy(keep, g.buf[g.consumed:])
		g.buf = keep
	} else {
		g.buf = nil
	}
	g.consumed = 0
}

// Close releases the source (if the source is an io.Closer).
// The retained bytes stay readable after Close.
func (g *_GreedyReader) Close() error {
	g.stat.GrClose() // DEBUG

	if c, ok := g.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// @see interf.GreedyReader
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (g *_GreedyReader) Stat() map[string]uint64 {
	return g.stat.Stat()
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// reserve grows the buffer capacity until at least n bytes fit.
// The capacity is doubled starting at interf.MinBufferCap, so repeated small
// requests stay amortized O(1) per byte. Growth replaces the backing array
// with a copy; resident bytes are never rewritten in place.
func (g *_GreedyReader) reserve(n int) {
	if cap(g.buf) >= n {
		return // enough space
	}

	// double until the request and the old capacity fit
	newCap := interf.MinBufferCap
	for newCap < n || newCap < cap(g.buf) {
		newCap *= 2
		if newCap <= 0 {
			newCap = n // doubling overflowed on a huge request
			break
		}
	}

	// reallocate
	buf := make([]byte, len(g.buf), newCap)
	copy(buf, g.buf)
	g.buf = buf
	g.stat.GrGrow(newCap) // DEBUG
}

// nextCap returns the next doubling step from capacity c toward the request n.
// A step that overflows or overshoots clamps to n.
func nextCap(c, n int) int {
	next := 2 * c
	if next < interf.MinBufferCap {
		next = interf.MinBufferCap
	}
	if next > n || next <= 0 {
		next = n
	}
	return next
}
