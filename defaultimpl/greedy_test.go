package impl_test

import (
	"bytes"
	impl "github.com/SchnorcherSepp/streambuf/defaultimpl"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"io"
	"io/ioutil"
	"math"
	"math/rand"
	"testing"
)

func TestNewGreedyReader(t *testing.T) {
	// nil source behaves like an empty source
	r := impl.NewGreedyReader(nil, impl.DebugOff)
	if b, err := ioutil.ReadAll(r); err != nil || len(b) != 0 {
		t.Fatalf("fail: n=%d, e='%v'", len(b), err)
	}
	if !r.Exhausted() || r.Len() != 0 {
		t.Fatalf("fail: exhausted=%v, len=%d", r.Exhausted(), r.Len())
	}

	// negative capacity is fixed
	r = impl.NewGreedyReaderSize(impl.NewRamSource([]byte("abc"), 0), -55, impl.DebugOff)
	if b, err := ioutil.ReadAll(r); err != nil || string(b) != "abc" {
		t.Fatalf("fail: b='%s', e='%v'", string(b), err)
	}

	// close is delegated to the source
	src := impl.NewRamSource([]byte("abc"), 0)
	r = impl.NewGreedyReader(src, impl.DebugOff)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Read(make([]byte, 1)); err != io.ErrClosedPipe {
		t.Fatalf("source not closed: %v", err)
	}
}

func Test_GreedyReader_ByteAt(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 0), impl.DebugOff)

	// random access to a byte ahead of the read position
	if b, err := r.ByteAt(2); b != 30 || err != nil {
		t.Fatalf("fail: b=%d, e='%v'", b, err)
	}

	// repeated call: same byte, no source pull (resident fast path)
	pulls := r.Stat()["GrFillRead"]
	if b, err := r.ByteAt(2); b != 30 || err != nil {
		t.Fatalf("fail: b=%d, e='%v'", b, err)
	}
	if r.Stat()["GrFillRead"] != pulls {
		t.Fatalf("resident ByteAt triggered source I/O: %v", r.Stat())
	}

	// index behind the end of the stream
	if _, err := r.ByteAt(5); err != interf.ErrOutOfRange {
		t.Fatalf("fail: e='%v'", err)
	}
	if !r.Exhausted() || r.Len() != 5 {
		t.Fatalf("fail: exhausted=%v, len=%d", r.Exhausted(), r.Len())
	}

	// permanent for that index (forward-only source, already exhausted)
	pulls = r.Stat()["GrFillRead"]
	if _, err := r.ByteAt(5); err != interf.ErrOutOfRange {
		t.Fatalf("fail: e='%v'", err)
	}
	if r.Stat()["GrFillRead"] != pulls {
		t.Fatalf("exhausted ByteAt triggered source I/O: %v", r.Stat())
	}

	// negative index (usage error)
	if _, err := r.ByteAt(-1); err != interf.ErrInvalidRange {
		t.Fatalf("fail: e='%v'", err)
	}

	// random access never moves the cursor
	buf := make([]byte, 5)
	if n, err := r.Read(buf); n != 5 || err != nil || !bytes.Equal(buf, data) {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf)
	}
}

func Test_GreedyReader_Slice(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 0), impl.DebugOff)

	// invalid range is reported without invoking the source at all
	pulls := r.Stat()["GrFillRead"]
	if _, err := r.Slice(5, 3); err != interf.ErrInvalidRange {
		t.Fatalf("fail: e='%v'", err)
	}
	if _, err := r.Slice(-1, 3); err != interf.ErrInvalidRange {
		t.Fatalf("fail: e='%v'", err)
	}
	if r.Stat()["GrFillRead"] != pulls {
		t.Fatalf("invalid range touched the source: %v", r.Stat())
	}

	// empty slice
	if s, err := r.Slice(0, 0); err != nil || len(s) != 0 {
		t.Fatalf("fail: s=%v, e='%v'", s, err)
	}

	// slice ahead of the read position
	if s, err := r.Slice(1, 4); err != nil || !bytes.Equal(s, []byte{20, 30, 40}) {
		t.Fatalf("fail: s=%v, e='%v'", s, err)
	}

	// a truncated slice is never returned
	if _, err := r.Slice(3, 6); err != interf.ErrOutOfRange {
		t.Fatalf("fail: e='%v'", err)
	}

	// retry with an end within the exhausted bound
	if s, err := r.Slice(3, 5); err != nil || !bytes.Equal(s, []byte{40, 50}) {
		t.Fatalf("fail: s=%v, e='%v'", s, err)
	}

	// last byte of slice(i, j+1) is consistent with ByteAt(j)
	s, _ := r.Slice(1, 4)
	b, _ := r.ByteAt(3)
	if s[len(s)-1] != b {
		t.Fatalf("fail: s=%v, b=%d", s, b)
	}
}

func Test_GreedyReader_SliceHugeRange(t *testing.T) {
	data := []byte{10, 20, 30}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 0), impl.DebugOff)

	// an end far beyond the real stream length must terminate in OutOfRange
	// once the source is dry (and must not allocate for the full request)
	if _, err := r.Slice(0, math.MaxInt); err != interf.ErrOutOfRange {
		t.Fatalf("fail: e='%v'", err)
	}
	if r.Len() != 3 || !r.Exhausted() {
		t.Fatalf("fail: len=%d, exhausted=%v", r.Len(), r.Exhausted())
	}

	// resident bytes are still served
	if b, err := r.ByteAt(1); b != 20 || err != nil {
		t.Fatalf("fail: b=%d, e='%v'", b, err)
	}
	if s, err := r.Slice(0, 3); err != nil || !bytes.Equal(s, data) {
		t.Fatalf("fail: s=%v, e='%v'", s, err)
	}
}

func Test_GreedyReader_SliceStaysValid(t *testing.T) {
	// 10000 bytes force several buffer reallocations
	data := make([]byte, 10000)
	rnd := rand.New(rand.NewSource(1337))
	rnd.Read(data)

	r := impl.NewGreedyReader(impl.NewRamSource(data, 7), impl.DebugOff)

	// take a view, then grow the buffer far past it
	s, err := r.Slice(10, 20)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte(nil), s...)

	if _, err := r.ByteAt(9999); err != nil {
		t.Fatal(err)
	}
	if r.Stat()["GrGrow"] < 2 {
		t.Fatalf("no growth happened, test is void: %v", r.Stat())
	}

	// the old view keeps its bytes
	if !bytes.Equal(s, want) || !bytes.Equal(s, data[10:20]) {
		t.Fatalf("view invalidated by growth: s=%v, want=%v", s, want)
	}
}

func Test_GreedyReader_Read(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 0), impl.DebugOff)

	// first read: 3 bytes
	buf := make([]byte, 3)
	if n, err := r.Read(buf); n != 3 || err != nil || !bytes.Equal(buf, []byte{10, 20, 30}) {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf)
	}

	// second read: the remaining 2 bytes (short read, no error)
	buf = make([]byte, 10)
	if n, err := r.Read(buf); n != 2 || err != nil || !bytes.Equal(buf[:n], []byte{40, 50}) {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf[:n])
	}

	// true end of the sequential view
	if n, err := r.Read(buf); n != 0 || err != io.EOF {
		t.Fatalf("fail: n=%d, e='%v'", n, err)
	}

	// empty destination
	if n, err := r.Read(nil); n != 0 || err != nil {
		t.Fatalf("fail: n=%d, e='%v'", n, err)
	}
}

func Test_GreedyReader_ReadFull(t *testing.T) {
	data := []byte{10, 20, 30, 40, 50}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 2), impl.DebugOff)

	// exact fill works while enough bytes exist
	buf := make([]byte, 4)
	if n, err := io.ReadFull(r, buf); n != 4 || err != nil || !bytes.Equal(buf, []byte{10, 20, 30, 40}) {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf)
	}

	// exact fill fails with UnexpectedEOF before exhaustion
	if n, err := io.ReadFull(r, buf); n != 1 || err != io.ErrUnexpectedEOF || buf[0] != 50 {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf)
	}
}

func Test_GreedyReader_SequentialRandomConsistency(t *testing.T) {
	data := make([]byte, 1000)
	rnd := rand.New(rand.NewSource(42))
	rnd.Read(data)

	r := impl.NewGreedyReader(impl.NewRamSource(data, 13), impl.DebugOff)

	// interleave random access with sequential consumption
	if b, err := r.ByteAt(500); err != nil || b != data[500] {
		t.Fatalf("fail: b=%d, e='%v'", b, err)
	}

	// reading [0, n) sequentially yields the same bytes as Slice(0, n)
	var seq []byte
	buf := make([]byte, 17)
	for len(seq) < 900 {
		n, err := r.Read(buf)
		if err != nil {
			t.Fatalf("fail: n=%d, e='%v'", n, err)
		}
		seq = append(seq, buf[:n]...)
	}
	s, err := r.Slice(0, len(seq))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seq, s) || !bytes.Equal(seq, data[:len(seq)]) {
		t.Fatalf("sequential and random views disagree (n=%d)", len(seq))
	}

	// rest of the stream
	rest, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(append(seq, rest...), data) {
		t.Fatalf("stream corrupted (n=%d)", len(seq)+len(rest))
	}
}

func Test_GreedyReader_SourceError(t *testing.T) {
	// the source fails after yielding 3 bytes
	data := []byte{10, 20, 30, 40, 50}
	r := impl.NewGreedyReader(impl.NewFlakySource(data, 0, 3), impl.DebugOff)

	// random access past the break point surfaces the source error
	if _, err := r.ByteAt(10); err == nil || err == interf.ErrOutOfRange || err == io.EOF {
		t.Fatalf("fail: e='%v'", err)
	}

	// partial progress is preserved, resident bytes still work
	if r.Len() != 3 || r.Exhausted() {
		t.Fatalf("fail: len=%d, exhausted=%v", r.Len(), r.Exhausted())
	}
	if b, err := r.ByteAt(1); b != 20 || err != nil {
		t.Fatalf("fail: b=%d, e='%v'", b, err)
	}

	// not poisoned: the same call pulls again and fails again
	if _, err := r.ByteAt(10); err == nil {
		t.Fatalf("fail: e='%v'", err)
	}

	// sequential read: resident bytes first, then the error
	buf := make([]byte, 10)
	n, err := r.Read(buf)
	if n != 3 || err == nil || !bytes.Equal(buf[:n], []byte{10, 20, 30}) {
		t.Fatalf("fail: n=%d, e='%v', b=%v", n, err, buf[:n])
	}
}

func Test_GreedyReader_Clear(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 50}
	r := impl.NewGreedyReader(impl.NewRamSource(data, 0), impl.DebugOff)

	if b, _ := r.ByteAt(0); b != 1 {
		t.Fatalf("fail: b=%d", b)
	}
	if b, _ := r.ByteAt(8); b != 9 {
		t.Fatalf("fail: b=%d", b)
	}
	if b, _ := r.ByteAt(16); b != 50 {
		t.Fatalf("fail: b=%d", b)
	}

	// consume 8 bytes
	chunk := make([]byte, 8)
	if _, err := io.ReadFull(r, chunk); err != nil || !bytes.Equal(chunk, data[:8]) {
		t.Fatalf("fail: e='%v', b=%v", err, chunk)
	}

	// indices are unchanged by consumption
	if b, _ := r.ByteAt(0); b != 1 {
		t.Fatalf("fail: b=%d", b)
	}

	// clear rebases the indices: the next sequential byte becomes #0
	r.Clear()
	if b, _ := r.ByteAt(0); b != 9 {
		t.Fatalf("fail: b=%d", b)
	}
	if b, _ := r.ByteAt(8); b != 50 {
		t.Fatalf("fail: b=%d", b)
	}
	if _, err := r.ByteAt(16); err != interf.ErrOutOfRange {
		t.Fatalf("fail: e='%v'", err)
	}

	// sequential view continues without data loss
	if _, err := io.ReadFull(r, chunk); err != nil || !bytes.Equal(chunk, data[8:16]) {
		t.Fatalf("fail: e='%v', b=%v", err, chunk)
	}
}

func Test_GreedyReader_Monotonicity(t *testing.T) {
	data := make([]byte, 100)
	r := impl.NewGreedyReader(impl.NewRamSource(data, 9), impl.DebugOff)

	last := 0
	for _, idx := range []int{5, 50, 20, 99, 3, 150, 70} {
		_, _ = r.ByteAt(idx)

		// resident length never decreases
		if r.Len() < last {
			t.Fatalf("resident length shrunk: %d -> %d", last, r.Len())
		}
		last = r.Len()
	}

	// once exhausted, always exhausted
	if !r.Exhausted() {
		t.Fatalf("fail: exhausted=%v", r.Exhausted())
	}
	_, _ = r.ByteAt(0)
	if !r.Exhausted() || r.Len() != 100 {
		t.Fatalf("fail: exhausted=%v, len=%d", r.Exhausted(), r.Len())
	}
}

func Test_GreedyReader_InfiniteSource(t *testing.T) {
	// endless source (like std::io::repeat)
	const B = 0x33
	r := impl.NewGreedyReader(endlessSource(B), impl.DebugOff)

	for _, idx := range []int{4, 13, 24389, 156, 9006, 2019, 100000} {
		if b, err := r.ByteAt(idx); b != B || err != nil {
			t.Fatalf("fail: idx=%d, b=%d, e='%v'", idx, b, err)
		}
	}
	if r.Exhausted() {
		t.Fatalf("fail: exhausted=%v", r.Exhausted())
	}
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

type _Endless byte

func endlessSource(b byte) io.Reader {
	return _Endless(b)
}

func (e _Endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(e)
	}
	return len(p), nil
}
