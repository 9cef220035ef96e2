// Package markup turns the HTML fragments found in Jira exports into plain
// Markdown-flavoured text.
package markup

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// maxListPasses bounds the innermost-first list rewrite. Anything still nested
// deeper than this is left to the final tag strip.
const maxListPasses = 20

// Converted lists are fenced with control characters so an enclosing item can
// keep them on their own lines. Neither byte is legal in XML 1.0 text.
const (
	blockStart = "\x02"
	blockEnd   = "\x03"
)

var (
	listTagPattern = regexp.MustCompile(`<(/?)(ol|ul)(?:\s[^>]*)?>`)
	itemPattern    = regexp.MustCompile(`(?s)<li(?:\s[^>]*)?>(.*?)</li>`)

	inlineRules = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`(?s)<b>(.*?)</b>`), "**${1}**"},
		{regexp.MustCompile(`(?s)<strong>(.*?)</strong>`), "**${1}**"},
		{regexp.MustCompile(`(?s)<i>(.*?)</i>`), "*${1}*"},
		{regexp.MustCompile(`(?s)<em>(.*?)</em>`), "*${1}*"},
		{regexp.MustCompile(`(?s)<code>(.*?)</code>`), "`${1}`"},
		{regexp.MustCompile(`(?s)<tt>(.*?)</tt>`), "`${1}`"},
	}

	paragraphPattern     = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	lineBreakPattern     = regexp.MustCompile(`<br\s*/?>`)
	anyTagPattern        = regexp.MustCompile(`<[^>]+>`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)

	sentinelStripper = strings.NewReplacer(blockStart, "", blockEnd, "")
	sentinelExpander = strings.NewReplacer(blockStart, "\n\n", blockEnd, "\n\n")
)

// Normalize converts an HTML fragment into lightweight markup. An empty
// fragment yields an empty string.
func Normalize(fragment string) string {
	if fragment == "" {
		return ""
	}

	text := html.UnescapeString(fragment)
	text = sentinelStripper.Replace(text)
	text = collapseLists(text)

	for _, rule := range inlineRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}

	text = paragraphPattern.ReplaceAllString(text, "${1}\n\n")
	text = lineBreakPattern.ReplaceAllString(text, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")

	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = trailingSpacePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func collapseLists(text string) string {
	for pass := 0; pass < maxListPasses; pass++ {
		next, changed := collapseInnermost(text)
		text = next
		if !changed {
			break
		}
	}
	return sentinelExpander.Replace(text)
}

type openList struct {
	name         string
	start        int
	contentStart int
	nested       bool
}

type replacement struct {
	start, end int
	text       string
}

// collapseInnermost rewrites every list element that has no list element
// inside it. The depth of each rewritten list is the number of list elements
// still open around it.
func collapseInnermost(text string) (string, bool) {
	var (
		stack []openList
		edits []replacement
	)

	for _, loc := range listTagPattern.FindAllStringSubmatchIndex(text, -1) {
		closing := text[loc[2]:loc[3]] == "/"
		name := text[loc[4]:loc[5]]

		if !closing {
			if len(stack) > 0 {
				stack[len(stack)-1].nested = true
			}
			stack = append(stack, openList{name: name, start: loc[0], contentStart: loc[1]})
			continue
		}

		// A stray or mismatched closing tag is left for the final tag strip.
		if len(stack) == 0 || stack[len(stack)-1].name != name {
			continue
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.nested {
			continue
		}

		body := text[top.contentStart:loc[0]]
		edits = append(edits, replacement{
			start: top.start,
			end:   loc[1],
			text:  renderList(name == "ol", body, len(stack)),
		})
	}

	if len(edits) == 0 {
		return text, false
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, edit := range edits {
		b.WriteString(text[cursor:edit.start])
		b.WriteString(edit.text)
		cursor = edit.end
	}
	b.WriteString(text[cursor:])
	return b.String(), true
}

func renderList(ordered bool, body string, depth int) string {
	indent := strings.Repeat("  ", depth)
	items := itemPattern.FindAllStringSubmatch(body, -1)

	lines := make([]string, 0, len(items))
	for i, item := range items {
		marker := "-"
		if ordered {
			marker = strconv.Itoa(i+1) + "."
		}
		lines = append(lines, renderItem(indent, marker, item[1]))
	}
	return blockStart + strings.Join(lines, "\n") + blockEnd
}

// renderItem puts the item's own text on one line and keeps any already
// converted child list on the lines below it.
func renderItem(indent, marker, body string) string {
	var b strings.Builder
	first := true

	writeProse := func(prose string) {
		collapsed := collapseWhitespace(prose)
		if first {
			b.WriteString(indent)
			b.WriteString(marker)
			if collapsed != "" {
				b.WriteString(" ")
				b.WriteString(collapsed)
			}
			first = false
			return
		}
		if collapsed != "" {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(collapsed)
		}
	}

	rest := body
	for {
		open := strings.Index(rest, blockStart)
		if open < 0 {
			writeProse(rest)
			break
		}
		end := strings.Index(rest[open:], blockEnd)
		if end < 0 {
			writeProse(rest)
			break
		}
		end += open

		writeProse(rest[:open])
		if nested := rest[open+len(blockStart) : end]; nested != "" {
			b.WriteString("\n")
			b.WriteString(nested)
		}
		rest = rest[end+len(blockEnd):]
	}

	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
