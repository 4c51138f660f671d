package impl

import (
	"errors"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"github.com/oxtoacart/bpool"
	"io"
	"math"
	"sort"
	"sync"
	"time"
)

// interface check: interf.ReaderAt
var _ interf.ReaderAt = (*_ReplayReaderAt)(nil)

// @see interf.ReaderAt
//
// ReplayReaderAt allows random read access to a reopenable forward-only
// source (@see interf.Opener) with bounded memory. Instead of retaining the
// whole stream (@see impl.NewGreedyReader), it reads fixed sectors through a
// small set of open passes and stores them in a cache. A pass can only move
// forward; a request behind every open pass is served by opening a new pass
// at byte 0 and reading up to the requested sector.
type _ReplayReaderAt struct {
	mux   *sync.Mutex  // protect 'inner'
	inner []*_Pass     // open passes over the source (backbone)
	stat  *_ReplayStat // collects statistical data about internal processes

	src   interf.Opener   // for new passes
	cache interf.Cache    // for caching sectors, can be nil !
	pool  *bpool.BytePool // the byte pool avoids allocating memory
}

// NewReplayReaderAt creates a new interf.ReaderAt object for random read access to the source.
// No pass is opened before the first call of ReadAt().
// Is cache = nil, the cache is disabled.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewReplayReaderAt(src interf.Opener, cache interf.Cache, debugLvl uint8) (interf.ReaderAt, error) {
	// check input
	// the cache can be nil!
	if src == nil {
		return nil, errors.New("can't create new ReplayReaderAt with src=nil")
	}

	// statistic
	stat := &_ReplayStat{
		debugLvl:    debugLvl, // enable debug logging [0, 1, 2] (level: high=2)
		packageName: "impl",   // text for debug logging
	}

	// use byte pool from cache
	// or create a small pool (cache == nil)
	var pool *bpool.BytePool
	if cache != nil {
		pool = cache.Pool()
	} else {
		pool = bpool.NewBytePool(25, interf.SectorSize)
	}

	// return new ReplayReaderAt
	stat.RAtNew(src.Id(), cache != nil) // DEBUG
	return &_ReplayReaderAt{
		mux:   new(sync.Mutex),
		inner: make([]*_Pass, interf.MaxReadersPerSource),
		stat:  stat,

		src:   src,
		cache: cache,
		pool:  pool,
	}, nil
}

//-----------  IMPLEMENTATION:  @see interf.ReaderAt  ----------------------------------------------------------------//

// @see interf.ReaderAt
func (r *_ReplayReaderAt) Close() error {
	r.mux.Lock() // LOCK
	defer r.mux.Unlock()

	r.stat.RAtClosing(r.src.Id()) // DEBUG
	if r.inner != nil {
		for i, v := range r.inner {
			if v != nil {
				r.stat.RAtClose(r.src.Id(), i, v.c != nil) // DEBUG
				_ = v.Close()
				r.inner[i] = nil
			}
		}
	}

	r.stat.PrintStatAfterClose(r.src.Id()) // DEBUG
	return nil
}

// @see interf.ReaderAt
func (r *_ReplayReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil // read nothing -> return nothing
	}

	// buffer from pool
	buf := r.pool.Get()
	defer r.pool.Put(buf)

	// read sectors
	sector, innerOff := r.calcSector(off)
	read := 0

	r.stat.RAtReq(r.src.Id(), off, len(p), sector, innerOff) // DEBUG
	for {
		// read sector
		b, err := r.getSector(buf, sector) // thread-safe

		// cut inner offset
		if len(b) < innerOff {
			b = b[len(b):] // nothing left (data are not in this slice! inner offset is to high)
		} else {
			b = b[innerOff:]
		}

		// copy to return buffer
		n := copy(p[read:], b) // copy sector bytes to return buffer

		// update vars
		sector++     // next sector
		innerOff = 0 // innerOff is 0 after first read
		read += n    // update read n

		// exit
		if n == 0 || err != nil || read == len(p) {
			// exit loop, but ...
			// ... fix wrong EOF
			if err == io.EOF && len(p) == read {
				err = nil // a full buffer is never io.EOF
			}
			// fix EOF for no data
			if read <= 0 && err == nil {
				err = io.EOF
			}
			// write debug and return
			r.stat.RAtRet(r.src.Id(), off, len(p), read, err) // DEBUG
			return read, err
		}
	}
}

// @see interf.ReaderAt
//
// Stat returns the number of times internal processes have been run since initialization.
// This method is relevant for testing and debugging purposes.
// The KEY is the internal process, the VALUE is the count.
func (r *_ReplayReaderAt) Stat() map[string]uint64 {
	return r.stat.Stat()
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// getSector returns the requested sector.
// This method doesn't allocate memory when the capacity of buf is greater or equal to value (see SectorSize).
func (r *_ReplayReaderAt) getSector(buf []byte, sector uint64) ([]byte, error) {
	r.mux.Lock() // LOCK
	defer r.mux.Unlock()

	// ask cache
	if r.cache != nil {
		b, err := r.cache.Get(r.src.Id(), sector, buf)
		r.stat.CacheGet(r.src.Id(), sector, len(buf), len(b), err) // DEBUG
		if err == nil {
			return b, nil
		}
	}

	// get best open pass
	c := r.bestPass(sector)
	if c == nil {
		// no pass found, open a new one (always at byte 0)
		var err error
		c, err = r.addPass()
		if err != nil {
			// only if src.Open() fail
			return buf[:0], err
		}
	}

	// read forward to the requested sector (a pass can't read back)
	for c.sector < sector {
		logSector := c.sector
		n, err := c.Read(buf)
		r.stat.RAtSectorSkip(r.src.Id(), logSector, n, err) // DEBUG

		if r.cache != nil && n > 0 && (err == nil || err == io.EOF) {
			errSet := r.cache.Set(r.src.Id(), c.sector-1, buf[:n])        // don't waste VALID data
			r.stat.CacheSet(r.src.Id(), c.sector-1, len(buf[:n]), errSet) // DEBUG
		}

		if err != nil {
			// ERROR but
			// we are not where we wanted to be!
			_ = c.Close()       // error -> close pass
			return buf[:0], err // return zero data! we are not at the requested sector!
		}
	}

	// read
	n, err := c.Read(buf)
	if err != nil {
		_ = c.Close() // error -> close pass
	}
	r.stat.RAtSectorRet(r.src.Id(), sector, n, err) // DEBUG

	// cache
	if r.cache != nil && n > 0 && (err == nil || err == io.EOF) {
		errSet := r.cache.Set(r.src.Id(), c.sector-1, buf[:n])
		r.stat.CacheSet(r.src.Id(), c.sector-1, len(buf[:n]), errSet) // DEBUG
	}

	return buf[:n], err
}

// bestPass looks for an open pass that can be reused. Returns nil if no valid pass was found.
// Attention: The returned pass does not have to exactly match the desired sector.
func (r *_ReplayReaderAt) bestPass(sector uint64) *_Pass {
	var bestDist uint64 = math.MaxUint64
	var index = -1 // default: -1 (no pass found)

	// search index of the best pass
	for k, v := range r.inner {
		// skip: no valid pass
		if v == nil || v.c == nil {
			continue
		}
		// skip: sector is before the position (can't read back) or too far away
		if sector < v.sector || sector > v.sector+interf.MaxSectorJump {
			continue
		}
		// calc distance
		dist := sector - v.sector
		if dist < bestDist {
			// better pass found
			bestDist = dist
			index = k
		}
		// FAST FIN: there is nothing better than 0!
		if bestDist == 0 {
			break
		}
	}

	// return best pass
	if index >= 0 {
		c := r.inner[index]
		r.stat.RAtBest(r.src.Id(), index, c.sector) // DEBUG
		return c
	} else {
		r.stat.RAtBest(r.src.Id(), index, math.MaxUint64) // DEBUG
		return nil                                        // no pass found
	}
}

// sortByAge sort passes by age.
func (r *_ReplayReaderAt) sortByAge() {

	sort.Slice(r.inner, func(p, q int) bool {
		var rP = r.inner[p]            // pass p
		var rQ = r.inner[q]            // pass q
		var ageP int64 = math.MinInt64 // age for invalid pass p
		var ageQ int64 = math.MinInt64 // age for invalid pass q

		// set age (only valid passes)
		if rP != nil && rP.c != nil {
			ageP = rP.age
		}
		if rQ != nil && rQ.c != nil {
			ageQ = rQ.age
		}

		return ageP > ageQ
	})
}

// addPass opens a new pass at byte 0 and places it first in the internal list.
// The oldest pass is closed.
func (r *_ReplayReaderAt) addPass() (*_Pass, error) {

	// sort
	r.sortByAge()

	// close last position
	last := len(r.inner) - 1
	if r.inner[last] != nil {
		_ = r.inner[last].Close()
	}

	// clear position one
	for i := len(r.inner) - 1; i > 0; i-- {
		r.inner[i] = r.inner[i-1]
	}
	r.inner[0] = nil

	// open new pass
	inner, err := r.src.Open()
	r.stat.RAtOpen(r.src.Id(), err) // DEBUG

	if err != nil {
		// src.Open() error
		return nil, err

	} else {
		// OK! Set pass and return
		r.inner[0] = newPass(inner)
		return r.inner[0], err
	}
}

// calcSector calculates in which sector the first byte begins with a inner offset.
// A stream is divided into sectors that are addressed with the sector number.
// The first sector starts at 0.
func (r *_ReplayReaderAt) calcSector(offset int64) (sector uint64, innerOff int) {
	if offset >= 0 {
		// valid offset -> calc stuff
		innerOff = int(offset % interf.SectorSize)
		sector = uint64(offset-int64(innerOff)) / interf.SectorSize
		return

	} else {
		// invalid offset -> return 0
		return 0, 0
	}
}

// ------------------------------------------------------------------------------------------------------------------ //

// interface check: io.ReadCloser
var _ io.ReadCloser = (*_Pass)(nil)

// _Pass is a ReadCloser that stores the current position and time of the last access.
type _Pass struct {
	c      io.ReadCloser // open pass over the source (can be nil)
	sector uint64        // position (sector number) for next read
	age    int64         // time of last use (unix nano)
}

// newPass initialized a new _Pass at sector 0 (a fresh pass always starts at byte 0).
func newPass(c io.ReadCloser) *_Pass {
	return &_Pass{
		c:      c,
		sector: 0,
		age:    time.Now().UnixNano(),
	}
}

// Close the pass. Has no effect after the first call.
// It also invalidates the inner pass with nil.
func (r *_Pass) Close() error {
	if r.c != nil {
		_ = r.c.Close()
		r.c = nil
	}
	return nil
}

// Read reads exactly len(buf) bytes from r into buf. If the given buffer is not exactly the
// sector size, an error is returned. When Read encounters an error or end-of-file condition
// after successfully reading n > 0 bytes, it returns the number of bytes read AND the
// (non-nil) error from the same call. Callers should always process the n > 0 bytes returned
// before considering the error err.
func (r *_Pass) Read(buf []byte) (n int, err error) {
	// check pass
	if r.c == nil {
		return 0, io.ErrClosedPipe
	}
	// check buffer size
	if len(buf) != interf.SectorSize {
		return 0, errors.New("wrong buffer size for reading a sector")
	}

	// read all: leave the loop with full buffer or an error
	for n < interf.SectorSize && err == nil {
		var nn int
		nn, err = r.c.Read(buf[n:])
		n += nn
	}

	// update attributes
	if n > 0 {
		r.age = time.Now().UnixNano()
		r.sector += 1
	}

	// buffer is full, everything is fine
	if n >= interf.SectorSize {
		return n, nil // ignore any errors that may have occurred
	}

	// The buffer is not full AND there must be an error. Otherwise the read loop would not
	// have been left. return error and what we read, this pass is done.
	return
}
