package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abc123", "2026-10-18"
	if got, want := String(), "v1.2.3 commit=abc123 date=2026-10-18"; got != want {
		t.Fatalf("String()=%q want %q", got, want)
	}
	if got, want := UserAgent(), "pocket-importer/1.2.3"; got != want {
		t.Fatalf("UserAgent()=%q want %q", got, want)
	}
}

func TestUserAgentHasNoSpaces(t *testing.T) {
	if ua := UserAgent(); strings.ContainsAny(ua, " \t") {
		t.Fatalf("UserAgent()=%q", ua)
	}
}
