package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

var evalTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ptrFloat(v float64) *float64 { return &v }

func TestAnalyzeZeroTickets(t *testing.T) {
	res := Analyze(entities.Report{
		Project: entities.Project{ID: 1, EstimatedHours: ptrFloat(100)},
	}, Config{}, evalTime)

	require.Equal(t, 0, res.TotalTickets)
	require.Equal(t, float64(0), res.CompletionRate)
	// Rate 0 is below the completion threshold, so even an empty
	// project carries that factor.
	require.Equal(t, entities.RiskMedium, res.RiskLevel)
	require.Equal(t, []string{"low completion rate (0.0%)"}, res.RiskFactors)
	require.Empty(t, res.StalledTicketIDs)
	require.Empty(t, res.UnassignedTicketIDs)
}

func TestAnalyzeTroubledProject(t *testing.T) {
	var tickets []entities.Ticket
	var entries []entities.TimeEntry
	id := 0
	next := func() int { id++; return id }

	for i := 0; i < 7; i++ {
		tickets = append(tickets, entities.Ticket{ID: next(), Status: entities.StatusCompleted, ActualHours: 4, AssignedTo: "jsmith"})
	}
	for i := 0; i < 12; i++ {
		tickets = append(tickets, entities.Ticket{ID: next(), Status: entities.StatusInProgress, ActualHours: 2, AssignedTo: "mlopez"})
	}
	// 7 stalled: New, no hours, no charged time.
	for i := 0; i < 7; i++ {
		tickets = append(tickets, entities.Ticket{ID: next(), Status: entities.StatusNew})
	}
	// 3 New with no hours but recent charged time: unassigned, not stalled.
	for i := 0; i < 3; i++ {
		tid := next()
		tickets = append(tickets, entities.Ticket{ID: tid, Status: entities.StatusNew})
		entries = append(entries, entities.TimeEntry{
			ID:           1000 + tid,
			ChargeToID:   tid,
			ChargeToType: entities.ChargeProjectTicket,
			TimeStart:    evalTime.Add(-24 * time.Hour),
		})
	}
	// 2 New with hours logged: neither stalled nor unassigned.
	for i := 0; i < 2; i++ {
		tickets = append(tickets, entities.Ticket{ID: next(), Status: entities.StatusNew, ActualHours: 1})
	}

	res := Analyze(entities.Report{
		Project:     entities.Project{ID: 1, Name: "Troubled"},
		Tickets:     tickets,
		TimeEntries: entries,
	}, Config{StalledRecencyWindow: 7 * 24 * time.Hour}, evalTime)

	require.Equal(t, 31, res.TotalTickets)
	require.Equal(t, 7, res.CompletedTickets)
	require.InDelta(t, 22.58, res.CompletionRate, 0.01)
	require.Len(t, res.StalledTicketIDs, 7)
	require.Len(t, res.UnassignedTicketIDs, 10)
	require.Equal(t, entities.RiskHigh, res.RiskLevel)
	require.Equal(t, []string{
		"missing project hour estimates",
		"high number of stalled tickets (7)",
		"high number of unassigned tickets (10)",
	}, res.RiskFactors)
	require.Equal(t, map[entities.Status]int{
		entities.StatusCompleted:  7,
		entities.StatusInProgress: 12,
		entities.StatusNew:        12,
	}, res.StatusDistribution)
}

func TestAnalyzeHealthyProject(t *testing.T) {
	var tickets []entities.Ticket
	for i := 0; i < 8; i++ {
		tickets = append(tickets, entities.Ticket{ID: i + 1, Status: entities.StatusCompleted, ActualHours: 3, AssignedTo: "jsmith"})
	}
	tickets = append(tickets,
		entities.Ticket{ID: 9, Status: entities.StatusInProgress, ActualHours: 1, AssignedTo: "mlopez"},
		entities.Ticket{ID: 10, Status: entities.StatusInProgress, ActualHours: 2, AssignedTo: "mlopez"},
	)

	res := Analyze(entities.Report{
		Project: entities.Project{ID: 2, Name: "Healthy", EstimatedHours: ptrFloat(120)},
		Tickets: tickets,
	}, Config{}, evalTime)

	require.Equal(t, float64(80), res.CompletionRate)
	require.Empty(t, res.StalledTicketIDs)
	require.Empty(t, res.UnassignedTicketIDs)
	require.Equal(t, entities.RiskLow, res.RiskLevel)
	require.Empty(t, res.RiskFactors)
}

func TestAnalyzeMemberAllocationScopedToAssignedTickets(t *testing.T) {
	res := Analyze(entities.Report{
		Project: entities.Project{ID: 3, EstimatedHours: ptrFloat(40)},
		Tickets: []entities.Ticket{
			{ID: 1, Status: entities.StatusCompleted, ActualHours: 5, AssignedTo: "jsmith"},
			{ID: 2, Status: entities.StatusInProgress, ActualHours: 2, AssignedTo: "jsmith"},
			{ID: 3, Status: entities.StatusCompleted, ActualHours: 3, AssignedTo: "mlopez"},
			{ID: 4, Status: entities.StatusInProgress, ActualHours: 4},
		},
		TimeEntries: []entities.TimeEntry{
			// Charged by jsmith against mlopez's ticket; must not leak
			// into jsmith's allocation.
			{ID: 100, ChargeToID: 3, ChargeToType: entities.ChargeProjectTicket, MemberID: "jsmith", HoursWorked: 9, TimeStart: evalTime},
		},
	}, Config{}, evalTime)

	require.Equal(t, entities.MemberAllocation{AssignedTickets: 2, CompletedTickets: 1, HoursLogged: 7}, res.MemberAllocation["jsmith"])
	require.Equal(t, entities.MemberAllocation{AssignedTickets: 1, CompletedTickets: 1, HoursLogged: 3}, res.MemberAllocation["mlopez"])
	require.NotContains(t, res.MemberAllocation, "")
}

func TestAnalyzeRiskNeverDowngrades(t *testing.T) {
	require.Equal(t, entities.RiskHigh, entities.RiskHigh.Escalate(entities.RiskMedium))
	require.Equal(t, entities.RiskHigh, entities.RiskHigh.Escalate(entities.RiskLow))
	require.Equal(t, entities.RiskMedium, entities.RiskLow.Escalate(entities.RiskMedium))
}

func TestAnalyzeRecencyWindow(t *testing.T) {
	report := entities.Report{
		Project: entities.Project{ID: 4, EstimatedHours: ptrFloat(10)},
		Tickets: []entities.Ticket{
			{ID: 1, Status: entities.StatusNew},
		},
		TimeEntries: []entities.TimeEntry{
			{ID: 100, ChargeToID: 1, ChargeToType: entities.ChargeServiceTicket, TimeStart: evalTime.Add(-30 * 24 * time.Hour)},
		},
	}

	// Entry outside a 7-day window: the ticket counts as stalled.
	res := Analyze(report, Config{StalledRecencyWindow: 7 * 24 * time.Hour}, evalTime)
	require.Equal(t, []int{1}, res.StalledTicketIDs)

	// Zero window: any fetched entry counts as activity.
	res = Analyze(report, Config{}, evalTime)
	require.Empty(t, res.StalledTicketIDs)
}
