// Package collector retrieves validated record collections for one
// analysis run, composing the paginated fetcher with record validation.
// Each collection fetch is isolated: a failure degrades only its own
// result, never a sibling's.
package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/connectwise"
	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
	"github.com/davejoelwilson/connectwise-project-reports/internal/validate"
)

// Collector fetches and validates one resource collection at a time.
type Collector struct {
	fetcher           *connectwise.Fetcher
	projectConditions string
	log               *zap.SugaredLogger
}

// New constructs a Collector. projectConditions filters which projects
// a run covers (empty means all).
func New(fetcher *connectwise.Fetcher, projectConditions string, log *zap.SugaredLogger) *Collector {
	return &Collector{
		fetcher:           fetcher,
		projectConditions: projectConditions,
		log:               log,
	}
}

// Projects fetches and validates the project collection.
func (c *Collector) Projects(ctx context.Context) ([]entities.Project, entities.FetchMeta) {
	res := c.fetcher.FetchAll(ctx, connectwise.EndpointProjects, connectwise.Query{
		Conditions: c.projectConditions,
		Fields:     connectwise.ProjectFields,
		OrderBy:    "name asc",
	})
	projects, warnings := validate.Projects(res.Records)
	return projects, meta(res, warnings)
}

// Tickets fetches and validates tickets belonging to the given projects.
func (c *Collector) Tickets(ctx context.Context, projectIDs []int) ([]entities.Ticket, entities.FetchMeta) {
	if len(projectIDs) == 0 {
		return nil, entities.FetchMeta{}
	}
	res := c.fetcher.FetchAll(ctx, connectwise.EndpointTickets, connectwise.Query{
		Conditions: inCondition("project/id", projectIDs),
		Fields:     connectwise.TicketFields,
		OrderBy:    "dateEntered desc",
	})
	tickets, warnings := validate.Tickets(res.Records)
	return tickets, meta(res, warnings)
}

// TimeEntries fetches and validates time entries charged against the
// given tickets or projects.
func (c *Collector) TimeEntries(ctx context.Context, chargeIDs []int) ([]entities.TimeEntry, entities.FetchMeta) {
	if len(chargeIDs) == 0 {
		return nil, entities.FetchMeta{}
	}
	res := c.fetcher.FetchAll(ctx, connectwise.EndpointTimeEntries, connectwise.Query{
		Conditions: inCondition("chargeToId", chargeIDs),
		Fields:     connectwise.TimeEntryFields,
		OrderBy:    "timeStart desc",
	})
	entries, warnings := validate.TimeEntries(res.Records)
	return entries, meta(res, warnings)
}

// Notes fetches and validates notes attached to the given projects and
// tickets.
func (c *Collector) Notes(ctx context.Context, projectIDs, ticketIDs []int) ([]entities.Note, entities.FetchMeta) {
	clauses := make([]string, 0, 2)
	if len(projectIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("(parentType='Project' and %s)", inCondition("parentId", projectIDs)))
	}
	if len(ticketIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("(parentType='Ticket' and %s)", inCondition("parentId", ticketIDs)))
	}
	if len(clauses) == 0 {
		return nil, entities.FetchMeta{}
	}
	res := c.fetcher.FetchAll(ctx, connectwise.EndpointNotes, connectwise.Query{
		Conditions: strings.Join(clauses, " or "),
		Fields:     connectwise.NoteFields,
		OrderBy:    "dateCreated desc",
	})
	notes, warnings := validate.Notes(res.Records)
	return notes, meta(res, warnings)
}

// Members fetches and validates the active member roster.
func (c *Collector) Members(ctx context.Context) ([]entities.Member, entities.FetchMeta) {
	res := c.fetcher.FetchAll(ctx, connectwise.EndpointMembers, connectwise.Query{
		Conditions: "inactiveFlag=false",
		Fields:     connectwise.MemberFields,
		OrderBy:    "identifier asc",
	})
	members, warnings := validate.Members(res.Records)
	return members, meta(res, warnings)
}

func meta(res connectwise.CollectionResult, validationWarnings []entities.Warning) entities.FetchMeta {
	return entities.FetchMeta{
		Partial:  res.Partial,
		Warnings: append(res.Warnings, validationWarnings...),
	}
}

func inCondition(field string, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("%s in (%s)", field, strings.Join(parts, ","))
}
