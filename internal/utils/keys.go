package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidIssueKey = errors.New("invalid issue key")

var issueKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-[0-9]+$`)

// NormalizeIssueKey upper-cases and validates a key typed on the command line,
// e.g. "dao-42" becomes "DAO-42".
func NormalizeIssueKey(key string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(key))
	if !issueKeyPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidIssueKey, key)
	}
	return trimmed, nil
}

// IssueFileName returns the document file name for an issue key. Keys come
// from the export itself, so anything that could escape the output directory
// is rejected rather than rewritten.
func IssueFileName(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || trimmed == "." || trimmed == ".." || strings.ContainsAny(trimmed, `/\`) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidIssueKey, key)
	}
	return trimmed + ".md", nil
}
