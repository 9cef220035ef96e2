package jira

import (
	"html"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/Ilia01/jira2md/internal/markup"
	"github.com/Ilia01/jira2md/internal/models"
)

// ParseFile reads an XML export from disk and extracts its record.
func ParseFile(path string) (*models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapReadError(err)
	}
	return Parse(data)
}

// Parse sanitizes the export, parses it and extracts the first item.
func Parse(raw []byte) (*models.Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(Sanitize(string(raw))); err != nil {
		return nil, wrapParseError(err)
	}

	item := doc.FindElement(".//item")
	if item == nil {
		return nil, wrapNoRecord()
	}
	return extractRecord(item), nil
}

func extractRecord(item *etree.Element) *models.Record {
	rec := &models.Record{
		Key:          childText(item, "key", ""),
		Title:        childText(item, "summary", ""),
		Description:  markup.Normalize(innerMarkup(item.SelectElement("description"))),
		Status:       childText(item, "status", ""),
		Priority:     childText(item, "priority", ""),
		Assignee:     childText(item, "assignee", models.DefaultAssignee),
		Reporter:     childText(item, "reporter", ""),
		Created:      childText(item, "created", ""),
		Updated:      childText(item, "updated", ""),
		Type:         childText(item, "type", ""),
		Link:         childText(item, "link", ""),
		TimeEstimate: childText(item, "timeestimate", ""),
		TimeSpent:    childText(item, "timespent", ""),
		CustomFields: map[string]string{},
	}

	for _, label := range item.FindElements(".//label") {
		if text := label.Text(); text != "" {
			rec.Labels = append(rec.Labels, text)
		}
	}

	for _, comment := range item.FindElements(".//comment") {
		rec.Comments = append(rec.Comments, models.Comment{
			Author:  comment.SelectAttrValue("author", ""),
			Created: comment.SelectAttrValue("created", ""),
			Text:    markup.Normalize(innerMarkup(comment)),
		})
	}

	for _, field := range item.FindElements(".//customfield") {
		name := childText(field, "customfieldname", "")
		if value, ok := customFieldValue(field); ok {
			rec.CustomFields[name] = value
		}
	}

	for _, link := range item.FindElements(".//issuelink") {
		classifyLink(&rec.Links, link)
	}

	return rec
}

func customFieldValue(field *etree.Element) (string, bool) {
	var values []string
	for _, value := range field.FindElements(".//customfieldvalue") {
		raw := innerMarkup(value)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if normalized := markup.Normalize(raw); normalized != "" {
			values = append(values, normalized)
		}
	}
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, "\n\n"), true
}

// classifyLink files an issue link by the description of the link group it
// sits in. Links whose group is neither a milestone nor a task are dropped.
func classifyLink(links *models.LinkedIssues, link *etree.Element) {
	key := childText(link, "issuekey", "")
	if key == "" {
		return
	}
	parent := link.Parent()
	if parent == nil {
		return
	}

	desc := strings.ToLower(parent.SelectAttrValue("description", ""))
	switch {
	case strings.Contains(desc, "milestone"):
		links.Milestone = append(links.Milestone, key)
	case strings.Contains(desc, "task"):
		links.Tasks = append(links.Tasks, key)
	}
}

// childText returns the text of a direct child. The fallback applies only when
// the child is missing, not when it is empty.
func childText(el *etree.Element, tag, fallback string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return fallback
	}
	return child.Text()
}

// innerMarkup serializes the content of el without its own tags. Character
// data is re-escaped so the normalizer sees the same text the exporter wrote.
func innerMarkup(el *etree.Element) string {
	if el == nil {
		return ""
	}

	var b strings.Builder
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			b.WriteString(html.EscapeString(t.Data))
		case *etree.Element:
			b.WriteString(serializeElement(t))
		}
	}
	return b.String()
}

func serializeElement(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}
