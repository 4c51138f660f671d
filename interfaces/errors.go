package interf

import "errors"

// ErrOutOfRange is returned by random access methods (ByteAt, Slice) when the
// requested index lies beyond the last byte the source can ever provide.
// This is only confirmed after the source is exhausted and is permanent for
// that index: a forward-only source never produces the missing bytes later.
var ErrOutOfRange = errors.New("streambuf: index out of range")

// ErrInvalidRange is returned for a malformed range request (start > end or a
// negative bound). This is a usage error and is reported without touching the
// source.
var ErrInvalidRange = errors.New("streambuf: invalid range")
