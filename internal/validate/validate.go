// Package validate converts raw platform records into validated
// entities. Records failing a hard constraint are dropped and recorded
// as warnings; the pipeline never aborts on a bad record.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davejoelwilson/connectwise-project-reports/internal/connectwise"
	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

func warn(resource string, id int, reason string) entities.Warning {
	return entities.Warning{Resource: resource, RecordID: id, Reason: reason}
}

func decodeWarn(resource string, err error) entities.Warning {
	return entities.Warning{Resource: resource, Reason: fmt.Sprintf("undecodable record: %v", err)}
}

// Projects validates raw project records.
func Projects(raws []json.RawMessage) ([]entities.Project, []entities.Warning) {
	projects := make([]entities.Project, 0, len(raws))
	var warnings []entities.Warning

	for _, raw := range raws {
		var rec connectwise.ProjectRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, decodeWarn("projects", err))
			continue
		}
		if rec.ID <= 0 {
			warnings = append(warnings, warn("projects", rec.ID, "missing id"))
			continue
		}
		if rec.ActualHours < 0 {
			warnings = append(warnings, warn("projects", rec.ID, "negative actual hours"))
			continue
		}
		if rec.EstimatedHours != nil && *rec.EstimatedHours < 0 {
			warnings = append(warnings, warn("projects", rec.ID, "negative estimated hours"))
			continue
		}
		if rec.ScheduledStart != nil && rec.ScheduledFinish != nil && rec.ScheduledStart.After(*rec.ScheduledFinish) {
			warnings = append(warnings, warn("projects", rec.ID, "scheduled start after scheduled finish"))
			continue
		}

		p := entities.Project{
			ID:              rec.ID,
			Name:            rec.Name,
			Status:          entities.StatusOther,
			EstimatedHours:  rec.EstimatedHours,
			ActualHours:     rec.ActualHours,
			ScheduledStart:  rec.ScheduledStart,
			ScheduledFinish: rec.ScheduledFinish,
		}
		if rec.Status != nil {
			p.Status = entities.ParseStatus(rec.Status.Name)
		}
		if rec.Manager != nil {
			p.Manager = rec.Manager.Identifier
		}
		if rec.Company != nil {
			p.Company = rec.Company.Name
		}
		projects = append(projects, p)
	}
	return projects, warnings
}

// Tickets validates raw ticket records. A ticket must reference exactly
// one project.
func Tickets(raws []json.RawMessage) ([]entities.Ticket, []entities.Warning) {
	tickets := make([]entities.Ticket, 0, len(raws))
	var warnings []entities.Warning

	for _, raw := range raws {
		var rec connectwise.TicketRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, decodeWarn("tickets", err))
			continue
		}
		if rec.ID <= 0 {
			warnings = append(warnings, warn("tickets", rec.ID, "missing id"))
			continue
		}
		if rec.Project == nil || rec.Project.ID <= 0 {
			warnings = append(warnings, warn("tickets", rec.ID, "missing project reference"))
			continue
		}
		if rec.ActualHours < 0 {
			warnings = append(warnings, warn("tickets", rec.ID, "negative actual hours"))
			continue
		}
		if rec.EstimatedHours != nil && *rec.EstimatedHours < 0 {
			warnings = append(warnings, warn("tickets", rec.ID, "negative estimated hours"))
			continue
		}

		t := entities.Ticket{
			ID:             rec.ID,
			ProjectID:      rec.Project.ID,
			Summary:        rec.Summary,
			Status:         entities.StatusOther,
			ActualHours:    rec.ActualHours,
			EstimatedHours: rec.EstimatedHours,
		}
		if rec.Status != nil {
			t.Status = entities.ParseStatus(rec.Status.Name)
		}
		if rec.Priority != nil {
			t.Priority = rec.Priority.Name
		}
		if rec.AssignedTo != nil {
			t.AssignedTo = rec.AssignedTo.Identifier
		}
		if rec.DateEntered != nil {
			t.DateEntered = *rec.DateEntered
		}
		tickets = append(tickets, t)
	}
	return tickets, warnings
}

// TimeEntries validates raw time entry records.
func TimeEntries(raws []json.RawMessage) ([]entities.TimeEntry, []entities.Warning) {
	entries := make([]entities.TimeEntry, 0, len(raws))
	var warnings []entities.Warning

	for _, raw := range raws {
		var rec connectwise.TimeEntryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, decodeWarn("time-entries", err))
			continue
		}
		if rec.ID <= 0 {
			warnings = append(warnings, warn("time-entries", rec.ID, "missing id"))
			continue
		}
		if rec.HoursWorked < 0 {
			warnings = append(warnings, warn("time-entries", rec.ID, "negative hours worked"))
			continue
		}
		if rec.TimeStart == nil {
			warnings = append(warnings, warn("time-entries", rec.ID, "missing time start"))
			continue
		}
		if rec.TimeEnd != nil && rec.TimeStart.After(*rec.TimeEnd) {
			warnings = append(warnings, warn("time-entries", rec.ID, "time start after time end"))
			continue
		}

		e := entities.TimeEntry{
			ID:           rec.ID,
			ChargeToID:   rec.ChargeToID,
			ChargeToType: entities.ParseChargeType(rec.ChargeToType),
			HoursWorked:  rec.HoursWorked,
			TimeStart:    *rec.TimeStart,
			TimeEnd:      rec.TimeEnd,
		}
		if rec.Member != nil {
			e.MemberID = rec.Member.Identifier
		}
		entries = append(entries, e)
	}
	return entries, warnings
}

// Notes validates raw note records.
func Notes(raws []json.RawMessage) ([]entities.Note, []entities.Warning) {
	notes := make([]entities.Note, 0, len(raws))
	var warnings []entities.Warning

	for _, raw := range raws {
		var rec connectwise.NoteRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, decodeWarn("notes", err))
			continue
		}
		if rec.ID <= 0 {
			warnings = append(warnings, warn("notes", rec.ID, "missing id"))
			continue
		}
		if rec.ParentID <= 0 {
			warnings = append(warnings, warn("notes", rec.ID, "missing parent reference"))
			continue
		}

		var parent entities.ParentType
		switch strings.TrimSpace(rec.ParentType) {
		case "Project":
			parent = entities.ParentProject
		case "Ticket":
			parent = entities.ParentTicket
		default:
			warnings = append(warnings, warn("notes", rec.ID, fmt.Sprintf("unknown parent type %q", rec.ParentType)))
			continue
		}

		n := entities.Note{
			ID:         rec.ID,
			ParentID:   rec.ParentID,
			ParentType: parent,
			Text:       rec.Text,
			CreatedBy:  rec.CreatedBy,
		}
		if rec.DateCreated != nil {
			n.CreatedAt = *rec.DateCreated
		}
		notes = append(notes, n)
	}
	return notes, warnings
}

// Members validates raw member records.
func Members(raws []json.RawMessage) ([]entities.Member, []entities.Warning) {
	members := make([]entities.Member, 0, len(raws))
	var warnings []entities.Warning

	for _, raw := range raws {
		var rec connectwise.MemberRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, decodeWarn("members", err))
			continue
		}
		if rec.ID <= 0 {
			warnings = append(warnings, warn("members", rec.ID, "missing id"))
			continue
		}
		if rec.Identifier == "" {
			warnings = append(warnings, warn("members", rec.ID, "missing identifier"))
			continue
		}

		members = append(members, entities.Member{
			ID:          rec.ID,
			Identifier:  rec.Identifier,
			DisplayName: strings.TrimSpace(rec.FirstName + " " + rec.LastName),
		})
	}
	return members, warnings
}
