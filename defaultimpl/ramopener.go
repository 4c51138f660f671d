package impl

import (
	"errors"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"io"
	"strings"
	"sync/atomic"
)

// interface check: interf.Opener
var _ interf.Opener = (*_RamOpener)(nil)

// @see interf.Opener
//
// _RamOpener provides any number of forward-only passes over data in RAM.
// This implementation is mainly for testing.
type _RamOpener struct {
	id    string
	data  []byte
	chunk int    // max bytes per Read call of a pass (0 = unlimited)
	opens uint64 // counts Open() calls
}

// NewRamOpener returns the RAM implementation of interf.Opener.
// Every Open() starts a fresh pass at byte 0 (@see NewRamSource).
// chunk limits the bytes per Read call of a pass (chunk < 1 means unlimited).
func NewRamOpener(id string, data []byte, chunk int) (interf.Opener, error) {
	// check input
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("can't create new RamOpener with empty id")
	}
	if data == nil {
		data = make([]byte, 0)
	}
	// return
	return &_RamOpener{
		id:    id,
		data:  data,
		chunk: chunk,
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.Opener  ------------------------------------------------------------------//

func (o *_RamOpener) Id() string {
	return o.id
}

func (o *_RamOpener) Open() (io.ReadCloser, error) {
	atomic.AddUint64(&o.opens, 1)
	return NewRamSource(o.data, o.chunk), nil
}

//--------------------------------------------------------------------------------------------------------------------//

// Opens returns the number of passes started so far.
// This method is relevant for testing and debugging purposes.
func (o *_RamOpener) Opens() uint64 {
	return atomic.LoadUint64(&o.opens)
}
