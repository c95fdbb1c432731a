package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client for the credentials file, which is either a service
// account key or an OAuth2 client secret. OAuth2 clients use the tokens cached in the
// tokens directory by the 'authorise' command.
func authorize(ctx context.Context, credentials string, tokens string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	var key struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &key); err != nil {
		return nil, fmt.Errorf("invalid credentials file %v (%w)", credentials, err)
	}

	if key.Type == "service_account" {
		jwt, err := google.JWTConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, err
		}

		return jwt.Client(ctx), nil
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, err
	}

	file := tokensFile(credentials, tokens)
	token, err := tokenFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("no OAuth2 token in %v - run '%v authorise' (%w)", file, APP, err)
	}

	return config.Client(ctx, token), nil
}

func tokensFile(credentials, dir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)

	return tok, err
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth2 token (%w)", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
