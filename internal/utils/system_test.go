package utils

import (
	"os/exec"
	"testing"
)

func TestOpenURLRejectsNonHTTP(t *testing.T) {
	restore := swapBrowserCommand(func(target string) *exec.Cmd {
		t.Fatalf("browser should not be launched for %s", target)
		return nil
	})
	defer restore()

	for _, target := range []string{"", "file:///etc/passwd", "javascript:alert(1)"} {
		if err := OpenURL(target); err == nil {
			t.Fatalf("expected error for %q", target)
		}
	}
}

func TestOpenURLLaunchesBrowser(t *testing.T) {
	var opened string
	restore := swapBrowserCommand(func(target string) *exec.Cmd {
		opened = target
		return exec.Command("true")
	})
	defer restore()

	if err := OpenURL("https://jira.example.com/browse/X-1"); err != nil {
		t.Fatalf("OpenURL failed: %v", err)
	}
	if opened != "https://jira.example.com/browse/X-1" {
		t.Fatalf("unexpected target: %s", opened)
	}
}

func swapBrowserCommand(fn func(string) *exec.Cmd) func() {
	orig := browserCommand
	browserCommand = fn
	return func() { browserCommand = orig }
}
