package impl

import (
	"errors"
	"io"
)

var _ io.ReadCloser = (*_RamSource)(nil)

// _RamSource is a forward-only, one-shot source over data in RAM.
// There is no way back: bytes handed out once are gone.
type _RamSource struct {
	data   []byte
	pos    int
	chunk  int // max bytes per Read call (0 = unlimited)
	failAt int // Read fails at this offset (-1 = never)
	closed bool
}

// NewRamSource returns a source that provides data from the ram ([]byte).
// The source is forward-only and can be read exactly once, like a network
// stream. chunk limits the bytes per Read call and forces short reads
// (chunk < 1 means unlimited). This implementation is mainly for testing.
func NewRamSource(data []byte, chunk int) io.ReadCloser {
	return NewFlakySource(data, chunk, -1)
}

// NewFlakySource behaves like NewRamSource but reports a source error as soon
// as the read position reaches failAt (failAt < 0 disables the error).
// Bytes before failAt are delivered normally.
// This implementation is mainly for testing.
func NewFlakySource(data []byte, chunk int, failAt int) io.ReadCloser {
	// check nil
	if data == nil {
		data = make([]byte, 0)
	}
	// return
	return &_RamSource{
		data:   data,
		pos:    0,
		chunk:  chunk,
		failAt: failAt,
	}
}

//--------------------------------------------------------------------------------------------------------------------//

func (r *_RamSource) Read(b []byte) (n int, err error) {
	// check fast return
	if len(b) == 0 {
		return 0, nil // no request, no data
	}
	// check closed
	if r.closed {
		return 0, io.ErrClosedPipe
	}
	// injected error
	if r.failAt >= 0 && r.pos >= r.failAt {
		return 0, errors.New("ram source: broken stream")
	}
	// no data
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	// limit this call
	end := len(r.data)
	if r.failAt >= 0 && r.failAt < end {
		end = r.failAt // don't hand out bytes past the break point
	}
	max := len(b)
	if r.chunk > 0 && r.chunk < max {
		max = r.chunk
	}
	if r.pos+max > end {
		max = end - r.pos
	}
	if max <= 0 {
		return 0, errors.New("ram source: broken stream")
	}

	// copy & return
	n = copy(b[:max], r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Close the source. All further reads fail with io.ErrClosedPipe.
func (r *_RamSource) Close() error {
	r.closed = true
	return nil
}
