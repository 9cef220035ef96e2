package jira

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"duplicate rel removed",
			`<a href="u" rel="nofollow" data-account-id="1" accountid="1" rel="noreferrer">x</a>`,
			`<a href="u" rel="nofollow" data-account-id="1" accountid="1">x</a>`,
		},
		{
			"only the trailing copy removed",
			`<a rel="noreferrer" data-account-id="9" accountid="9" rel="noreferrer">y</a>`,
			`<a rel="noreferrer" data-account-id="9" accountid="9">y</a>`,
		},
		{
			"other duplicate left alone",
			`<a rel="noreferrer" data-account-id="9" accountid="9" rel="nofollow">y</a>`,
			`<a rel="noreferrer" data-account-id="9" accountid="9" rel="nofollow">y</a>`,
		},
		{
			"unrelated markup untouched",
			`<a href="u" rel="noreferrer">z</a>`,
			`<a href="u" rel="noreferrer">z</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Fatalf("Sanitize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSanitizeFixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "duplicate_rel.xml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	raw := string(data)
	if strings.Count(raw, "rel=") != 2 {
		t.Fatalf("fixture should carry the duplicated attribute")
	}

	cleaned := Sanitize(raw)
	if strings.Count(cleaned, "rel=") != 1 {
		t.Fatalf("expected a single rel attribute after sanitizing:\n%s", cleaned)
	}
	if !strings.Contains(cleaned, `rel="nofollow" data-account-id="1" accountid="1">`) {
		t.Fatalf("first rel attribute should survive:\n%s", cleaned)
	}
}
