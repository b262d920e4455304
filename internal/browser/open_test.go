package browser

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestCommand(t *testing.T) {
	const u = "https://getpocket.com/auth/authorize?request_token=abc"
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{u}},
		{"windows", "cmd", []string{"/c", "start", "", u}},
		{"linux", "xdg-open", []string{u}},
		{"freebsd", "xdg-open", []string{u}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := command(tt.goos, u)
			assert.Check(t, is.Equal(name, tt.name))
			assert.Check(t, is.DeepEqual(args, tt.args))
		})
	}
}

func TestOpenEmpty(t *testing.T) {
	assert.ErrorContains(t, Open(""), "empty url")
}
