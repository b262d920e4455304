package browser

import (
	"errors"
	"os/exec"
	"runtime"
)

// Open asks the OS to show the given URL in the default browser. It returns
// once the launcher has started; it does not wait for the browser.
func Open(url string) error {
	if url == "" {
		return errors.New("open: empty url")
	}
	name, args := command(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}

func command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		// start requires a window title argument; empty string is fine.
		return "cmd", []string{"/c", "start", "", url}
	default:
		return "xdg-open", []string{url}
	}
}
