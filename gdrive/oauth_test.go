package gdrive_test

import (
	"github.com/SchnorcherSepp/streambuf/gdrive"
	"os"
	"path"
	"testing"
)

func TestOAuth(t *testing.T) {
	// readClientConf: read file error (not exist?)
	s, e := gdrive.OAuth("/not/exist/client_credentials.json", "", false)
	if s != nil || e == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}

	// readClientConf: parsing error (empty file?)
	s, e = gdrive.OAuth(emptyFile(), "", false)
	if s != nil || e == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}

	// can't test this (user interaction)
	// * readToken: open error (not exist?)
	// * readToken: parsing error (empty file?)
	// * requestToken: request (new)
	var _ = "nop"
}

func TestOAuth_secret(t *testing.T) {
	if _, err := os.Stat(testClientCredFile); err != nil {
		t.Skipf("skip online test: %v", err)
	}

	// valid clientCred and valid token (READ)
	s, e := gdrive.OAuth(testClientCredFile, testTokenFile, true)
	if e != nil || s == nil {
		t.Errorf("s=%v, e=%v", s, e)
	}
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

func emptyFile() string {
	p := path.Join(os.TempDir(), "empty.file")

	fh, err := os.Create(p)
	if err != nil {
		panic(err)
	}
	_ = fh.Close()

	return p
}
