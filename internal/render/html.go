package render

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Meta is the front-matter of a generated document.
type Meta struct {
	StoryID  string   `yaml:"story_id"`
	Title    string   `yaml:"title"`
	Status   string   `yaml:"status"`
	Priority string   `yaml:"priority"`
	Assignee string   `yaml:"assignee"`
	Type     string   `yaml:"type"`
	Created  string   `yaml:"created"`
	Updated  string   `yaml:"updated"`
	Labels   []string `yaml:"labels"`
	JiraLink string   `yaml:"jira_link"`
}

// ParseDocument splits a generated document into its metadata and body.
func ParseDocument(document []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(document), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// HTML renders the body of a generated document, without its front-matter.
func HTML(document []byte) ([]byte, error) {
	_, body, err := ParseDocument(document)
	if err != nil {
		return nil, err
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
