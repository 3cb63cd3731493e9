package connectwise

import "time"

// Ref is the nested reference shape the platform uses for linked
// records (status, manager, company, project, assignee).
type Ref struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// ProjectRecord is the raw wire shape of a project.
type ProjectRecord struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Status          *Ref       `json:"status"`
	Manager         *Ref       `json:"manager"`
	Company         *Ref       `json:"company"`
	EstimatedHours  *float64   `json:"estimatedHours"`
	ActualHours     float64    `json:"actualHours"`
	ScheduledStart  *time.Time `json:"scheduledStart"`
	ScheduledFinish *time.Time `json:"scheduledFinish"`
}

// TicketRecord is the raw wire shape of a project ticket.
type TicketRecord struct {
	ID             int        `json:"id"`
	Summary        string     `json:"summary"`
	Status         *Ref       `json:"status"`
	Priority       *Ref       `json:"priority"`
	Project        *Ref       `json:"project"`
	AssignedTo     *Ref       `json:"assignedTo"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    float64    `json:"actualHours"`
	DateEntered    *time.Time `json:"dateEntered"`
}

// TimeEntryRecord is the raw wire shape of a time entry.
type TimeEntryRecord struct {
	ID           int        `json:"id"`
	TimeStart    *time.Time `json:"timeStart"`
	TimeEnd      *time.Time `json:"timeEnd"`
	HoursWorked  float64    `json:"hoursWorked"`
	Member       *Ref       `json:"member"`
	ChargeToID   int        `json:"chargeToId"`
	ChargeToType string     `json:"chargeToType"`
}

// NoteRecord is the raw wire shape of a project or ticket note.
type NoteRecord struct {
	ID          int        `json:"id"`
	Text        string     `json:"text"`
	ParentID    int        `json:"parentId"`
	ParentType  string     `json:"parentType"`
	CreatedBy   string     `json:"createdBy"`
	DateCreated *time.Time `json:"dateCreated"`
}

// MemberRecord is the raw wire shape of a member.
type MemberRecord struct {
	ID           int    `json:"id"`
	Identifier   string `json:"identifier"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	InactiveFlag bool   `json:"inactiveFlag"`
}

// Default field projections per resource, mirroring what the report
// pipeline consumes.
var (
	ProjectFields = []string{
		"id", "name", "status/name", "manager/identifier",
		"company/name", "estimatedHours", "actualHours",
		"scheduledStart", "scheduledFinish",
	}
	TicketFields = []string{
		"id", "summary", "status/name", "priority/name", "project/id",
		"assignedTo/identifier", "dateEntered", "estimatedHours", "actualHours",
	}
	TimeEntryFields = []string{
		"id", "timeStart", "timeEnd", "hoursWorked",
		"member/identifier", "chargeToId", "chargeToType",
	}
	NoteFields = []string{
		"id", "text", "parentId", "parentType", "createdBy", "dateCreated",
	}
	MemberFields = []string{
		"id", "identifier", "firstName", "lastName", "inactiveFlag",
	}
)
