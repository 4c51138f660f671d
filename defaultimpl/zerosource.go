package impl

import (
	"io"
)

var _ io.ReadCloser = (*_ZeroSource)(nil)

type _ZeroSource struct {
	// nope
}

// NewZeroSource is a dummy source with no data.
func NewZeroSource() io.ReadCloser {
	return new(_ZeroSource)
}

//--------------------------------------------------------------------------------------------------------------------//

func (r *_ZeroSource) Read(_ []byte) (n int, err error) {
	return 0, io.EOF
}

func (r *_ZeroSource) Close() error {
	return nil
}
