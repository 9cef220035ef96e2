package utils

import (
	"strings"
	"testing"
)

func TestStylesKeepText(t *testing.T) {
	styles := map[string]func(string) string{
		"Cyan":        Cyan,
		"Green":       Green,
		"Yellow":      Yellow,
		"Red":         Red,
		"BrightWhite": BrightWhite,
		"Bold":        Bold,
		"Dim":         Dim,
	}
	for name, style := range styles {
		if got := style("DAO-42"); !strings.Contains(got, "DAO-42") {
			t.Fatalf("%s dropped the text: %q", name, got)
		}
	}
}
