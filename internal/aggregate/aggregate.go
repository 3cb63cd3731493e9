// Package aggregate merges validated collections into per-project
// reports.
package aggregate

import (
	"fmt"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Input is the validated record set for one analysis run. Partial is
// set when any contributing fetch was incomplete; Warnings carries the
// fetch and validation warnings accumulated so far.
type Input struct {
	Projects    []entities.Project
	Tickets     []entities.Ticket
	TimeEntries []entities.TimeEntry
	Notes       []entities.Note
	Members     []entities.Member
	Partial     bool
	Warnings    []entities.Warning
}

// Build produces exactly one Report per distinct project id, with
// ticket/time-entry/note lists fully partitioned by project. Records
// referencing an unknown project are excluded and returned as
// run-level warnings, never merged into an arbitrary project.
// Aggregation is pure: the same input always yields the same reports.
func Build(in Input) ([]entities.Report, []entities.Warning) {
	var orphans []entities.Warning

	projectIdx := make(map[int]int, len(in.Projects))
	reports := make([]entities.Report, 0, len(in.Projects))
	for _, p := range in.Projects {
		if _, seen := projectIdx[p.ID]; seen {
			continue
		}
		projectIdx[p.ID] = len(reports)
		reports = append(reports, entities.Report{
			Project:     p,
			Tickets:     []entities.Ticket{},
			TimeEntries: []entities.TimeEntry{},
			Notes:       []entities.Note{},
			Members:     []entities.Member{},
			Partial:     in.Partial,
			Warnings:    append([]entities.Warning(nil), in.Warnings...),
		})
	}

	ticketProject := make(map[int]int, len(in.Tickets))
	for _, t := range in.Tickets {
		at, ok := projectIdx[t.ProjectID]
		if !ok {
			orphans = append(orphans, entities.Warning{
				Resource: "tickets",
				RecordID: t.ID,
				Reason:   fmt.Sprintf("references unknown project %d", t.ProjectID),
			})
			continue
		}
		ticketProject[t.ID] = t.ProjectID
		reports[at].Tickets = append(reports[at].Tickets, t)
	}

	for _, e := range in.TimeEntries {
		projectID, ok := resolveCharge(e, ticketProject, projectIdx)
		if !ok {
			orphans = append(orphans, entities.Warning{
				Resource: "time-entries",
				RecordID: e.ID,
				Reason:   fmt.Sprintf("charge target %s/%d matches no known ticket or project", e.ChargeToType, e.ChargeToID),
			})
			continue
		}
		at := projectIdx[projectID]
		reports[at].TimeEntries = append(reports[at].TimeEntries, e)
	}

	for _, n := range in.Notes {
		var projectID int
		var ok bool
		switch n.ParentType {
		case entities.ParentProject:
			_, ok = projectIdx[n.ParentID]
			projectID = n.ParentID
		case entities.ParentTicket:
			projectID, ok = ticketProject[n.ParentID]
		}
		if !ok {
			orphans = append(orphans, entities.Warning{
				Resource: "notes",
				RecordID: n.ID,
				Reason:   fmt.Sprintf("parent %s/%d matches no known record", n.ParentType, n.ParentID),
			})
			continue
		}
		at := projectIdx[projectID]
		reports[at].Notes = append(reports[at].Notes, n)
	}

	roster := make(map[string]entities.Member, len(in.Members))
	for _, m := range in.Members {
		roster[m.Identifier] = m
	}
	for i := range reports {
		reports[i].Members = buildRoster(reports[i], roster)
	}

	return reports, orphans
}

// resolveCharge maps a time entry to its owning project. Ticket-type
// charges resolve through the ticket; activity charges attach directly
// to the project with the matching id.
func resolveCharge(e entities.TimeEntry, ticketProject map[int]int, projectIdx map[int]int) (int, bool) {
	switch e.ChargeToType {
	case entities.ChargeProjectTicket, entities.ChargeServiceTicket:
		projectID, ok := ticketProject[e.ChargeToID]
		return projectID, ok
	case entities.ChargeActivity:
		_, ok := projectIdx[e.ChargeToID]
		return e.ChargeToID, ok
	default:
		return 0, false
	}
}

// buildRoster lists every member referenced by the report's tickets and
// time entries, resolving display names from the fetched roster and
// synthesizing identifier-only entries for members the roster omits.
func buildRoster(r entities.Report, roster map[string]entities.Member) []entities.Member {
	seen := make(map[string]bool)
	members := []entities.Member{}

	add := func(identifier string) {
		if identifier == "" || seen[identifier] {
			return
		}
		seen[identifier] = true
		if m, ok := roster[identifier]; ok {
			members = append(members, m)
			return
		}
		members = append(members, entities.Member{Identifier: identifier})
	}

	for _, t := range r.Tickets {
		add(t.AssignedTo)
	}
	for _, e := range r.TimeEntries {
		add(e.MemberID)
	}
	add(r.Project.Manager)
	return members
}
