package gdrive

import (
	"context"
	"encoding/json"
	"fmt"
	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"io/ioutil"
	"log"
	"os"
)

// OAuth builds the Google Drive service used by the openers in this package
// (@see gdrive.NewOpener). clientCredFile is the OAuth client credentials json
// from the Google Developers Console ("Credentials" > download as JSON).
// tokenFile caches the user token between runs; if it is missing or invalid,
// a new token is requested interactively and written back to tokenFile.
// Download passes only read, so readonly=true is usually the right scope.
func OAuth(clientCredFile, tokenFile string, readonly bool) (*drive.Service, error) {
	// scope (default: read & write access)
	scope := drive.DriveScope
	if readonly {
		scope = drive.DriveReadonlyScope
	}

	// client credentials
	conf, err := readClientConf(clientCredFile, scope)
	if err != nil {
		log.Printf("ERROR: %s/OAuth: %v", packageName, err)
		log.Printf("ERROR: %s/OAuth: This link could help: https://www.google.com/search?q=drive+client+credential", packageName)
		return nil, err
	}

	// cached user token, or a fresh one with user interaction
	tok, err := readToken(tokenFile)
	if err != nil {
		log.Printf("WARNING: %s/OAuth: %v", packageName, err)

		tok, err = requestToken(tokenFile, conf)
		if err != nil {
			return nil, err
		}
	}

	// drive service with the OAuth2 token source
	ctx := context.Background()
	service, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("%s/OAuth: %v", packageName, err)
	}

	return service, nil
}

//--------  HELPER  --------------------------------------------------------------------------------------------------//

// readClientConf parses the client credentials json into an OAuth config
func readClientConf(file, scope string) (*oauth2.Config, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s/readClientConf: %v", packageName, err)
	}

	conf, err := googleauth.ConfigFromJSON(b, scope)
	if err != nil {
		return nil, fmt.Errorf("%s/readClientConf: %v", packageName, err)
	}

	return conf, nil
}

// readToken loads a cached user token from a file
func readToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%s/readToken: %v", packageName, err)
	}
	defer f.Close()

	tok := new(oauth2.Token)
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("%s/readToken: %v", packageName, err)
	}

	return tok, nil
}

// requestToken asks the user to authorize this client in the browser and
// exchanges the pasted authorization code for a token. The token is written
// to file for the next run.
func requestToken(file string, conf *oauth2.Config) (*oauth2.Token, error) {
	// authorization code from web (user interaction)
	var authCode string
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("\nFollow the link and create a new token file: %v\n\nEnter the authorization code here: ", authURL)
	_, _ = fmt.Scan(&authCode) // read user input

	// exchange the code for a token
	tok, err := conf.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, fmt.Errorf("%s/requestToken: %v", packageName, err)
	}

	// cache the token
	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // override file
	if err != nil {
		return nil, fmt.Errorf("%s/requestToken: %v", packageName, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return nil, fmt.Errorf("%s/requestToken: %v", packageName, err)
	}

	return tok, nil
}
