package models

// DefaultAssignee is used when the export has no assignee element at all.
const DefaultAssignee = "Unassigned"

// Record is the flat representation of one exported issue.
type Record struct {
	Key          string
	Title        string
	Description  string
	Status       string
	Priority     string
	Assignee     string
	Reporter     string
	Created      string
	Updated      string
	Type         string
	Link         string
	TimeEstimate string
	TimeSpent    string
	Labels       []string
	Comments     []Comment
	CustomFields map[string]string
	Links        LinkedIssues
}

type Comment struct {
	Author  string
	Created string
	Text    string
}

// LinkedIssues groups cross-referenced issue keys by relationship.
// Blocks and BlockedBy are never filled by the extractor today.
type LinkedIssues struct {
	Milestone []string
	Tasks     []string
	Blocks    []string
	BlockedBy []string
}

func (l LinkedIssues) Any() bool {
	return len(l.Milestone) > 0 || len(l.Tasks) > 0 || len(l.Blocks) > 0 || len(l.BlockedBy) > 0
}

// CustomField returns the normalized value of a custom field and whether it was present.
func (r *Record) CustomField(name string) (string, bool) {
	if r == nil || r.CustomFields == nil {
		return "", false
	}
	value, ok := r.CustomFields[name]
	return value, ok
}
