package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open opens the specified URL in the user's default browser.
func Open(target string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "linux":
		return exec.Command("xdg-open", target).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// OpenMaps opens a Google Maps search for a restaurant's street address.
func OpenMaps(location string) error {
	return Open("https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(location))
}
