package models

// JiraTicket is the subset of a REST search hit needed to drive an export.
type JiraTicket struct {
	Key    string       `json:"key"`
	Fields TicketFields `json:"fields"`
}

type TicketFields struct {
	Summary string       `json:"summary"`
	Status  TicketStatus `json:"status"`
}

type TicketStatus struct {
	Name string `json:"name"`
}
