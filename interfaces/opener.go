package interf

import "io"

// Opener is a source that can be read from the beginning any number of times.
// Every pass is still forward-only (no seeking), but a fresh pass starts at
// byte 0 again. Examples: a file on disk, an http download, a cloud object.
//
// Openers enable random read access without retaining the whole stream in
// memory (see the replay reader): sectors that are no longer cached can be
// reached again by opening a new pass and reading forward.
type Opener interface {

	// Id uniquely identifies the source. It is used as cache key, so two
	// openers with the same id must deliver the same bytes.
	// This method is offline and does not touch the source.
	Id() string

	// Open starts a new pass over the source, positioned at byte 0.
	// The pass must be closed manually with Close() after use.
	// This method is thread-safe.
	Open() (io.ReadCloser, error)
}
