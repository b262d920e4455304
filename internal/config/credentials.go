package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Credentials is the cached result of a successful OAuth exchange.
type Credentials struct {
	AccessToken string `json:"access_token"`
	ConsumerKey string `json:"consumer_key"`
	Username    string `json:"username,omitempty"`
}

// LoadCredentials reads the credential cache at path. A missing, unreadable
// or incomplete file is reported as a cache miss, never as an error; the
// caller is expected to run the authorization flow instead.
func LoadCredentials(path string) (*Credentials, bool) {
	if path == "" {
		return nil, false
	}
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, false
	}
	if c.AccessToken == "" || c.ConsumerKey == "" {
		return nil, false
	}
	return &c, true
}

func (c *Credentials) Save(path string) error {
	if path == "" {
		return errors.New("credentials path is empty")
	}
	if c == nil || c.AccessToken == "" || c.ConsumerKey == "" {
		return errors.New("credentials are incomplete")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	// Windows can't replace existing files via rename.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmp, path); err2 != nil {
			_ = os.Remove(tmp)
			return err2
		}
	}
	return nil
}
