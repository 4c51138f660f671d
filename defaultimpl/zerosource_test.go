package impl_test

import (
	impl "github.com/SchnorcherSepp/streambuf/defaultimpl"
	"io"
	"testing"
)

func Test_ZeroSource(t *testing.T) {
	r := impl.NewZeroSource()

	// no data, immediately exhausted
	buf := make([]byte, 3)
	if n, err := r.Read(buf); n != 0 || err != io.EOF {
		t.Fatalf("fail: n=%d, e='%v'", n, err)
	}
	if n, err := r.Read(nil); n != 0 || err != io.EOF {
		t.Fatalf("fail: n=%d, e='%v'", n, err)
	}

	// close test
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}
