package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables consulted by LoadSettings.
const (
	EnvConsumerKey  = "POCKET_CONSUMER_KEY"
	EnvAPIBase      = "POCKET_API_BASE"
	EnvCredentials  = "POCKET_CREDENTIALS"
	EnvCallbackPort = "POCKET_CALLBACK_PORT"
	EnvTimeout      = "POCKET_TIMEOUT"
)

type Settings struct {
	ConsumerKey     string
	APIBase         string
	CredentialsPath string
	CallbackPort    int
	Timeout         time.Duration
}

func DefaultSettings() *Settings {
	return &Settings{
		ConsumerKey:     DefaultConsumerKey(),
		APIBase:         DefaultBaseURL(),
		CredentialsPath: DefaultCredentialsPath(),
		CallbackPort:    DefaultCallbackPort(),
		Timeout:         15 * time.Second,
	}
}

// LoadSettings returns defaults overridden by the environment. Each path in
// envFiles is loaded with godotenv first; variables already present in the
// process environment win over the file. Missing env files are skipped.
func LoadSettings(envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config %s: %w", f, err)
		}
	}

	s := DefaultSettings()
	if v := strings.TrimSpace(os.Getenv(EnvConsumerKey)); v != "" {
		s.ConsumerKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		s.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCredentials)); v != "" {
		s.CredentialsPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCallbackPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return nil, fmt.Errorf("config %s: invalid port %q", EnvCallbackPort, v)
		}
		s.CallbackPort = port
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", EnvTimeout, err)
		}
		s.Timeout = d
	}
	return s, nil
}
