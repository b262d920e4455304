package version

import (
	"runtime/debug"
	"strings"
)

// These can be set via -ldflags at build time.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func String() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	parts := []string{v}
	if Commit != "" {
		parts = append(parts, "commit="+Commit)
	}
	if Date != "" {
		parts = append(parts, "date="+Date)
	}
	return strings.Join(parts, " ")
}

// UserAgent is sent with every API request.
func UserAgent() string {
	v := strings.Fields(String())[0]
	return "pocket-importer/" + strings.TrimPrefix(v, "v")
}
