// Package entities contains core business entities.
package entities

import "time"

// Project is a validated project record.
type Project struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Status          Status     `json:"status"`
	Manager         string     `json:"manager,omitempty"`
	Company         string     `json:"company,omitempty"`
	EstimatedHours  *float64   `json:"estimated_hours,omitempty"`
	ActualHours     float64    `json:"actual_hours"`
	ScheduledStart  *time.Time `json:"scheduled_start,omitempty"`
	ScheduledFinish *time.Time `json:"scheduled_finish,omitempty"`
}

// Ticket is a validated ticket record belonging to exactly one project.
type Ticket struct {
	ID             int       `json:"id"`
	ProjectID      int       `json:"project_id"`
	Summary        string    `json:"summary"`
	Status         Status    `json:"status"`
	Priority       string    `json:"priority,omitempty"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	ActualHours    float64   `json:"actual_hours"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	DateEntered    time.Time `json:"date_entered"`
}

// TimeEntry is a validated time record charged against a ticket or project.
type TimeEntry struct {
	ID           int        `json:"id"`
	ChargeToID   int        `json:"charge_to_id"`
	ChargeToType ChargeType `json:"charge_to_type"`
	MemberID     string     `json:"member_id,omitempty"`
	HoursWorked  float64    `json:"hours_worked"`
	TimeStart    time.Time  `json:"time_start"`
	TimeEnd      *time.Time `json:"time_end,omitempty"`
}

// Note is a validated note attached to a project or ticket.
type Note struct {
	ID         int        `json:"id"`
	ParentID   int        `json:"parent_id"`
	ParentType ParentType `json:"parent_type"`
	Text       string     `json:"text"`
	CreatedBy  string     `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Member is a platform member referenced by tickets and time entries.
type Member struct {
	ID          int    `json:"id,omitempty"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name,omitempty"`
}
