package interf

import "io"

// GreedyReader provides random read access to a forward-only byte stream.
// All bytes ever pulled from the source are retained in an internal buffer
// that only grows, and both the sequential view (Read) and the random access
// view (ByteAt, Slice) are served from this one buffer. Positions are always
// relative to the position of the source when it was wrapped.
//
// Read is the standard sequential view. It advances an internal cursor and
// pulls more bytes from the source as needed. Reaching the end of the stream
// sequentially is a normal terminal condition: Read returns a short count and
// finally (0, io.EOF), never ErrOutOfRange. Because Read only returns a short
// count once the source is exhausted, io.ReadFull over a GreedyReader fails
// with io.ErrUnexpectedEOF exactly when an exact-length read cannot be
// satisfied.
//
// ByteAt and Slice never move the sequential cursor. They pull from the
// source only as far as needed and are repeatable: resident bytes are served
// without any source I/O.
//
// A GreedyReader exclusively owns its source. It must not be used from
// multiple goroutines without external synchronization. The default
// implementation offers a mutex-guarded interf.ReaderAt wrapper for
// concurrent random access.
type GreedyReader interface {
	io.Reader // Read(p []byte) (n int, err error)
	io.Closer // Close() error

	// Fill pulls bytes from the source until at least n bytes are resident,
	// the source is exhausted, or the source reports an error. It returns the
	// resident length after the attempt. Partial progress is kept on error;
	// the reader is not poisoned and the call may be repeated.
	Fill(n int) (int, error)

	// ByteAt returns the byte at the given position, pulling from the source
	// if the position is not resident yet. If the source is exhausted before
	// the position is reached, ErrOutOfRange is returned.
	ByteAt(index int) (byte, error)

	// Slice returns the bytes [start, end) as a view into the internal
	// buffer, pulling from the source as needed. A truncated slice is never
	// returned: if the source is exhausted before end is reached, the error
	// is ErrOutOfRange. start > end or a negative bound is ErrInvalidRange
	// (no source I/O). The returned slice must not be modified; it stays
	// valid when the buffer grows later.
	Slice(start, end int) ([]byte, error)

	// Len returns the number of resident bytes (pulled from the source so
	// far). This method is offline and triggers no source I/O.
	Len() int

	// Exhausted reports whether the source has signaled end-of-data.
	// Once true it never becomes false again.
	Exhausted() bool

	// Clear drops all consumed bytes and rebases the indices: the next
	// sequential byte becomes position 0. Already prefetched but unread
	// bytes are kept, so no data is lost.
	Clear()

	// Stat returns the number of times internal processes have been run since initialization.
	// This method is relevant for testing and debugging purposes.
	// The KEY is the internal process, the VALUE is the count.
	Stat() map[string]uint64
}
