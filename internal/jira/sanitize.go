package jira

import (
	"regexp"
	"strings"
)

// duplicateRelPattern matches the anchor attribute run some Jira exporters
// emit with the rel attribute written twice, which strict XML parsers reject.
var duplicateRelPattern = regexp.MustCompile(`rel="[^"]*"\s+data-account-id="[^"]*"\s+accountid="[^"]*"\s+rel="[^"]*"`)

const duplicateRel = ` rel="noreferrer"`

// Sanitize repairs known exporter defects in raw XML before it is parsed.
// Only the duplicated rel attribute is handled; all other input passes
// through unchanged.
func Sanitize(raw string) string {
	return duplicateRelPattern.ReplaceAllStringFunc(raw, func(match string) string {
		return strings.Replace(match, duplicateRel, "", 1)
	})
}
