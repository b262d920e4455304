package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// clearEnv unsets the given variables for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var allEnv = []string{EnvConsumerKey, EnvAPIBase, EnvCredentials, EnvCallbackPort, EnvTimeout}

func TestLoadSettingsDefaults(t *testing.T) {
	clearEnv(t, allEnv...)
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(s.ConsumerKey, DefaultConsumerKey()))
	assert.Check(t, is.Equal(s.APIBase, "https://getpocket.com"))
	assert.Check(t, is.Equal(s.CredentialsPath, filepath.Join(os.TempDir(), "__pocket_key.json")))
	assert.Check(t, is.Equal(s.CallbackPort, 8899))
	assert.Check(t, is.Equal(s.Timeout, 15*time.Second))
}

func TestLoadSettingsEnvironment(t *testing.T) {
	clearEnv(t, allEnv...)
	t.Setenv(EnvConsumerKey, "ck-env")
	t.Setenv(EnvAPIBase, "http://127.0.0.1:9999")
	t.Setenv(EnvCallbackPort, "9000")
	t.Setenv(EnvTimeout, "3s")

	s, err := LoadSettings()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(s.ConsumerKey, "ck-env"))
	assert.Check(t, is.Equal(s.APIBase, "http://127.0.0.1:9999"))
	assert.Check(t, is.Equal(s.CallbackPort, 9000))
	assert.Check(t, is.Equal(s.Timeout, 3*time.Second))
}

func TestLoadSettingsDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t, allEnv...)
	t.Setenv(EnvConsumerKey, "ck-env")
	envFile := filepath.Join(t.TempDir(), ".env")
	body := "POCKET_CONSUMER_KEY=ck-file\nPOCKET_CREDENTIALS=/tmp/pocket-test.json\n"
	assert.NilError(t, os.WriteFile(envFile, []byte(body), 0o600))

	s, err := LoadSettings(envFile)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(s.ConsumerKey, "ck-env"))
	assert.Check(t, is.Equal(s.CredentialsPath, "/tmp/pocket-test.json"))
}

func TestLoadSettingsInvalidValues(t *testing.T) {
	clearEnv(t, allEnv...)
	t.Setenv(EnvCallbackPort, "http")
	_, err := LoadSettings()
	assert.ErrorContains(t, err, EnvCallbackPort)

	clearEnv(t, allEnv...)
	t.Setenv(EnvTimeout, "soon")
	_, err = LoadSettings()
	assert.ErrorContains(t, err, EnvTimeout)
}
