package config

import (
	"os"
	"path/filepath"
)

const (
	credentialsName    = "__pocket_key.json" // file name under os.TempDir
	defaultBase        = "https://getpocket.com"
	defaultConsumerKey = "42042-fbf4887c38c189741b71f268"
	defaultPort        = 8899
)

func DefaultBaseURL() string { return defaultBase }

func DefaultConsumerKey() string { return defaultConsumerKey }

func DefaultCallbackPort() int { return defaultPort }

// DefaultCredentialsPath returns the cache file location used when nothing
// else is configured. It lives in the system temp dir so a reboot usually
// forces a fresh authorization.
func DefaultCredentialsPath() string {
	return filepath.Join(os.TempDir(), credentialsName)
}
