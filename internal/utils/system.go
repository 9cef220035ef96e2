package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// browserCommand builds the platform command that opens target. Tests swap it.
var browserCommand = func(target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// OpenURL opens an http(s) link in the default browser.
func OpenURL(target string) error {
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("open url: only http and https links are supported")
	}

	cmd := browserCommand(target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return cmd.Wait()
}
