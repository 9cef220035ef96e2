package render

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseDocumentRoundTrip(t *testing.T) {
	doc := mustMarkdown(t, fullRecord(), Options{})

	meta, body, err := ParseDocument([]byte(doc))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if meta.StoryID != "DAO-42" || meta.Status != "In Progress" || meta.Assignee != "Jane Doe" {
		t.Fatalf("unexpected meta: %#v", meta)
	}
	if !reflect.DeepEqual(meta.Labels, []string{"wizard", "frontend"}) {
		t.Fatalf("unexpected labels: %v", meta.Labels)
	}
	if meta.JiraLink != "https://jira.example.com/browse/DAO-42" {
		t.Fatalf("unexpected link: %s", meta.JiraLink)
	}
	if !strings.Contains(string(body), "# [DAO-42] Business step") {
		t.Fatalf("body missing heading: %s", body)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML([]byte(mustMarkdown(t, fullRecord(), Options{})))
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "story_id") {
		t.Fatalf("front-matter leaked into HTML:\n%s", html)
	}
	for _, want := range []string{"<h1", "[DAO-42] Business step", "<h2", "Linked Issues", "<strong>Milestone:</strong>", "<li>DAO-1</li>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in:\n%s", want, html)
		}
	}
}
