// Package entities contains core business entities.
package entities

import "strings"

// Status enumerates the lifecycle states shared by projects and tickets.
type Status string

const (
	// StatusNew marks a record that has not been started.
	StatusNew Status = "New"
	// StatusInProgress marks active work.
	StatusInProgress Status = "InProgress"
	// StatusCompleted marks finished work.
	StatusCompleted Status = "Completed"
	// StatusOther is the fallback for unrecognized platform statuses.
	StatusOther Status = "Other"
)

// ParseStatus maps a platform status name onto the known enum,
// falling back to StatusOther for anything unrecognized.
func ParseStatus(name string) Status {
	switch strings.TrimSpace(name) {
	case "New":
		return StatusNew
	case "In Progress", "InProgress":
		return StatusInProgress
	case "Completed":
		return StatusCompleted
	default:
		return StatusOther
	}
}

// ChargeType enumerates what a time entry was charged against.
type ChargeType string

const (
	// ChargeProjectTicket charges time against a project ticket.
	ChargeProjectTicket ChargeType = "ProjectTicket"
	// ChargeServiceTicket charges time against a service ticket.
	ChargeServiceTicket ChargeType = "ServiceTicket"
	// ChargeActivity charges time against a project-level activity.
	ChargeActivity ChargeType = "Activity"
	// ChargeOther is the fallback for unrecognized charge types.
	ChargeOther ChargeType = "Other"
)

// ParseChargeType maps a platform charge type onto the known enum.
func ParseChargeType(name string) ChargeType {
	switch strings.TrimSpace(name) {
	case "ProjectTicket":
		return ChargeProjectTicket
	case "ServiceTicket":
		return ChargeServiceTicket
	case "Activity":
		return ChargeActivity
	default:
		return ChargeOther
	}
}

// ParentType identifies the record a note is attached to.
type ParentType string

const (
	// ParentProject marks a project-level note.
	ParentProject ParentType = "Project"
	// ParentTicket marks a ticket-level note.
	ParentTicket ParentType = "Ticket"
)
