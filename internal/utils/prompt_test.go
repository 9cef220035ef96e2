package utils

import (
	"strings"
	"testing"
)

func TestPromptWithDefault(t *testing.T) {
	orig := Input
	defer func() { Input = orig }()
	Input = strings.NewReader("\n  custom  \nlast")

	got, err := PromptWithDefault("Output dir", "./docs")
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if got != "./docs" {
		t.Fatalf("expected default, got %q", got)
	}

	got, err = Prompt("Jira URL")
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if got != "custom" {
		t.Fatalf("expected trimmed answer, got %q", got)
	}

	got, err = Prompt("Email")
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if got != "last" {
		t.Fatalf("unterminated last line should be read, got %q", got)
	}
}
