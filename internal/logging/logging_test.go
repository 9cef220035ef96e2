package logging

import "testing"

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestProviderReturnsLoggers(t *testing.T) {
	provider, err := New(Config{Level: "error", Format: "console"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if provider.GetLogger("convert") == nil {
		t.Fatal("expected named logger")
	}
	if provider.GetLogger("") == nil {
		t.Fatal("expected root logger")
	}
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var provider *Provider
	logger := provider.GetLogger("convert")
	logger.Info("ignored", "key", "value")
	if _, ok := logger.(noop); !ok {
		t.Fatalf("expected no-op logger, got %T", logger)
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"DEBUG":   "debug",
		"warning": "warn",
		"bogus":   "",
	}
	for input, want := range tests {
		got := normalizeLevel(input)
		if want == "" && got != "" {
			t.Fatalf("normalizeLevel(%q) = %q, want empty", input, got)
		}
		if want != "" && got == "" {
			t.Fatalf("normalizeLevel(%q) returned empty", input)
		}
	}
}
