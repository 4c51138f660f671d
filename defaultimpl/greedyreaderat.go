package impl

import (
	"errors"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"io"
	"math"
	"sync"
)

// interface check: interf.ReaderAt
var _ interf.ReaderAt = (*_GreedyReaderAt)(nil)

// @see interf.ReaderAt
//
// GreedyReaderAt is a wrapper for interf.GreedyReader (@see impl.NewGreedyReader).
// This implementation enables parallel ReadAt calls on a single greedy reader:
// a GreedyReader is single-owner, so all access is serialized with a mutex.
type _GreedyReaderAt struct {
	mux   *sync.Mutex
	inner interf.GreedyReader
}

// NewGreedyReaderAt creates a new interf.ReaderAt object for random read access to the stream.
// All calls are serialized internally, so this object is thread-safe.
// Closing the returned reader closes the inner greedy reader.
func NewGreedyReaderAt(inner interf.GreedyReader) (interf.ReaderAt, error) {
	// check input
	if inner == nil {
		return nil, errors.New("can't create new GreedyReaderAt with inner=nil")
	}

	// return
	return &_GreedyReaderAt{
		mux:   new(sync.Mutex),
		inner: inner,
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.ReaderAt  ----------------------------------------------------------------//

// @see interf.ReaderAt
func (r *_GreedyReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	// check fast return
	if len(p) == 0 {
		return 0, nil // read nothing -> return nothing
	}
	// check off
	if off < 0 {
		return 0, interf.ErrInvalidRange
	}
	// the buffer is indexed with int: an end past that can never be resident
	// (relevant on 32 bit platforms, where int is smaller than off)
	end64 := off + int64(len(p))
	if end64 < 0 || end64 > int64(math.MaxInt) {
		return 0, interf.ErrOutOfRange
	}

	r.mux.Lock() // LOCK
	defer r.mux.Unlock()

	// fill up to the end of the request
	end := int(end64)
	filled, err := r.inner.Fill(end)

	// serve resident bytes
	if filled > int(off) {
		stop := end
		if stop > filled {
			stop = filled
		}
		b, errS := r.inner.Slice(int(off), stop)
		if errS != nil {
			return 0, errS
		}
		n = copy(p, b)
	}

	// fix EOF: short read without a source error means exhaustion
	if err == nil && n < len(p) {
		err = io.EOF
	}

	// return
	return n, err
}

// @see interf.ReaderAt
func (r *_GreedyReaderAt) Close() error {
	r.mux.Lock() // LOCK
	defer r.mux.Unlock()

	return r.inner.Close()
}

// @see interf.ReaderAt
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (r *_GreedyReaderAt) Stat() map[string]uint64 {
	r.mux.Lock() // LOCK
	defer r.mux.Unlock()

	return r.inner.Stat()
}
