package gdrive

import (
	"errors"
	impl "github.com/SchnorcherSepp/streambuf/defaultimpl"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	google "google.golang.org/api/drive/v3"
	"io"
	"strings"
)

// packageName is the text for debug logging
const packageName = "gdrive"

// interface check: interf.Opener
var _ interf.Opener = (*_DriveOpener)(nil)

// @see interf.Opener
//
// _DriveOpener provides download passes over a single Google Drive file.
// A download stream from Google Drive is forward-only, which makes Drive
// files the classic case for buffered random access (@see impl.NewGreedyReader
// and impl.NewReplayReaderAt).
type _DriveOpener struct {
	google *google.Service
	fileId string
}

// NewOpener returns a Google Drive implementation of interf.Opener.
// The oauth service is created with gdrive.OAuth(). fileId identifies the
// file in Google Drive (File > Details).
func NewOpener(oauth *google.Service, fileId string) (interf.Opener, error) {
	// check input
	fileId = strings.TrimSpace(fileId)
	if oauth == nil || fileId == "" {
		return nil, errors.New("can't create new Opener with oauth=nil or empty fileId")
	}

	// return
	return &_DriveOpener{
		google: oauth,
		fileId: fileId,
	}, nil
}

// NewGreedyReader wraps a fresh download pass of the Google Drive file in a
// greedy reader with random read access (@see interf.GreedyReader).
// The whole downloaded prefix is retained in memory; use NewReplayReaderAt
// with a cache for large files.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewGreedyReader(oauth *google.Service, fileId string, debugLvl uint8) (interf.GreedyReader, error) {
	o, err := NewOpener(oauth, fileId)
	if err != nil {
		return nil, err
	}
	r, err := o.Open()
	if err != nil {
		return nil, err
	}
	return impl.NewGreedyReader(r, debugLvl), nil
}

// NewReplayReaderAt enables random read access to the Google Drive file with
// bounded memory (@see impl.NewReplayReaderAt).
// Is cache = nil, the cache is disabled.
// debugLvl (@see impl.DebugHigh and impl.DebugOff)
func NewReplayReaderAt(oauth *google.Service, fileId string, cache interf.Cache, debugLvl uint8) (interf.ReaderAt, error) {
	o, err := NewOpener(oauth, fileId)
	if err != nil {
		return nil, err
	}
	return impl.NewReplayReaderAt(o, cache, debugLvl)
}

//-----------  IMPLEMENTATION:  @see interf.Opener  ------------------------------------------------------------------//

// Id is the implementation of Opener.Id()
// It returns the Google Drive file id.
func (o *_DriveOpener) Id() string {
	return o.fileId
}

// Open is the implementation of Opener.Open()
//
// Open starts a new download pass, positioned at byte 0.
// The pass must be closed manually with Close() after use.
// This method is thread-safe.
func (o *_DriveOpener) Open() (io.ReadCloser, error) {
	resp, err := o.google.Files.Get(o.fileId).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
