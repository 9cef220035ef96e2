// Package render turns an extracted record into a Markdown document with
// YAML front-matter.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ilia01/jira2md/internal/models"
)

// Section places one custom field under a document heading.
type Section struct {
	Heading string
	Field   string
}

type Options struct {
	// Sections replaces DefaultSections when non-empty.
	Sections []Section
}

func DefaultSections() []Section {
	return []Section{
		{Heading: "Acceptance Criteria", Field: "Acceptance Criteria (RT)"},
		{Heading: "Implementation Steps", Field: "Implementation Steps"},
		{Heading: "Solution Design", Field: "Solution Design"},
		{Heading: "Deployment Checklist", Field: "Deployment Checklist"},
		{Heading: "Notes", Field: "Notes"},
	}
}

// Markdown renders rec. Optional sections are emitted only when they have
// content.
func Markdown(rec *models.Record, opts Options) (string, error) {
	header, err := frontMatter(rec)
	if err != nil {
		return "", err
	}

	sections := opts.Sections
	if len(sections) == 0 {
		sections = DefaultSections()
	}

	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add("---", header, "---", "")
	add("# ["+rec.Key+"] "+rec.Title, "")

	if rec.Description != "" {
		add("## Description", "", rec.Description, "")
	}

	for _, section := range sections {
		if value, ok := rec.CustomField(section.Field); ok {
			add("## "+section.Heading, "", value, "")
		}
	}

	if rec.Links.Any() {
		add("## Linked Issues", "")
		if len(rec.Links.Milestone) > 0 {
			add("**Milestone:**")
			add(bullets(rec.Links.Milestone)...)
			add("")
		}
		if len(rec.Links.Tasks) > 0 {
			add("**Tasks:**")
			add(bullets(rec.Links.Tasks)...)
			add("")
		}
	}

	if rec.TimeEstimate != "" || rec.TimeSpent != "" {
		add("## Time Tracking", "")
		if rec.TimeEstimate != "" {
			add("- **Remaining Estimate:** " + rec.TimeEstimate)
		}
		if rec.TimeSpent != "" {
			add("- **Time Spent:** " + rec.TimeSpent)
		}
		add("")
	}

	if len(rec.Comments) > 0 {
		add("## Comments", "")
		for _, c := range rec.Comments {
			add("**"+c.Author+"** - "+c.Created, "", c.Text, "", "---", "")
		}
	}

	return strings.Join(lines, "\n"), nil
}

func bullets(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return out
}

// frontMatter encodes the metadata block through a yaml.Node so key order is
// fixed and values such as "Fix: login" stay valid YAML.
func frontMatter(rec *models.Record) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	put := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, scalar(key), value)
	}

	put("story_id", scalar(rec.Key))
	put("title", scalar(rec.Title))
	put("status", scalar(rec.Status))
	put("priority", scalar(rec.Priority))
	put("assignee", scalar(rec.Assignee))
	put("type", scalar(rec.Type))
	put("created", scalar(rec.Created))
	put("updated", scalar(rec.Updated))
	if len(rec.Labels) > 0 {
		labels := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, label := range rec.Labels {
			labels.Content = append(labels.Content, scalar(label))
		}
		put("labels", labels)
	}
	put("jira_link", scalar(rec.Link))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode front-matter for %s: %w", rec.Key, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front-matter for %s: %w", rec.Key, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
