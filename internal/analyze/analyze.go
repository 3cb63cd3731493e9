// Package analyze computes deterministic health and risk metrics from
// a per-project report.
package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Risk thresholds.
const (
	lowCompletionRate = 20.0
	stalledThreshold  = 5
	unassignedLimit   = 5
)

// Config tunes the analyzer. A zero StalledRecencyWindow treats any
// time entry within the report's fetched horizon as recent activity.
type Config struct {
	StalledRecencyWindow time.Duration
}

// Analyze is a pure function of one Report. The evaluation time is
// injected so results are reproducible. The analyzer holds no state
// between invocations.
func Analyze(report entities.Report, cfg Config, now time.Time) entities.AnalysisResult {
	res := entities.AnalysisResult{
		TotalTickets:         len(report.Tickets),
		RiskLevel:            entities.RiskLow,
		RiskFactors:          []string{},
		StalledTicketIDs:     []int{},
		UnassignedTicketIDs:  []int{},
		MemberAllocation:     map[string]entities.MemberAllocation{},
		StatusDistribution:   map[entities.Status]int{},
		PriorityDistribution: map[string]int{},
		TeamSize:             len(report.Members),
	}

	activity := recentActivity(report.TimeEntries, cfg.StalledRecencyWindow, now)

	for _, t := range report.Tickets {
		res.StatusDistribution[t.Status]++
		if t.Priority != "" {
			res.PriorityDistribution[t.Priority]++
		}
		if t.Status == entities.StatusCompleted {
			res.CompletedTickets++
		}

		if t.Status == entities.StatusNew && t.ActualHours == 0 && !activity[t.ID] {
			res.StalledTicketIDs = append(res.StalledTicketIDs, t.ID)
		}
		if t.ActualHours == 0 {
			res.UnassignedTicketIDs = append(res.UnassignedTicketIDs, t.ID)
		}

		if t.AssignedTo != "" {
			alloc := res.MemberAllocation[t.AssignedTo]
			alloc.AssignedTickets++
			if t.Status == entities.StatusCompleted {
				alloc.CompletedTickets++
			}
			alloc.HoursLogged += t.ActualHours
			res.MemberAllocation[t.AssignedTo] = alloc
		}
	}

	sort.Ints(res.StalledTicketIDs)
	sort.Ints(res.UnassignedTicketIDs)

	// Zero tickets means a zero completion rate, never a division fault.
	if res.TotalTickets > 0 {
		res.CompletionRate = 100 * float64(res.CompletedTickets) / float64(res.TotalTickets)
	}

	// Risk escalates in fixed order and is never downgraded once raised.
	if report.Project.EstimatedHours == nil {
		res.RiskLevel = res.RiskLevel.Escalate(entities.RiskMedium)
		res.RiskFactors = append(res.RiskFactors, "missing project hour estimates")
	}
	if res.CompletionRate < lowCompletionRate {
		res.RiskLevel = res.RiskLevel.Escalate(entities.RiskMedium)
		res.RiskFactors = append(res.RiskFactors, fmt.Sprintf("low completion rate (%.1f%%)", res.CompletionRate))
	}
	if len(res.StalledTicketIDs) > stalledThreshold {
		res.RiskLevel = res.RiskLevel.Escalate(entities.RiskHigh)
		res.RiskFactors = append(res.RiskFactors, fmt.Sprintf("high number of stalled tickets (%d)", len(res.StalledTicketIDs)))
	}
	if len(res.UnassignedTicketIDs) > unassignedLimit {
		res.RiskLevel = res.RiskLevel.Escalate(entities.RiskHigh)
		res.RiskFactors = append(res.RiskFactors, fmt.Sprintf("high number of unassigned tickets (%d)", len(res.UnassignedTicketIDs)))
	}

	return res
}

// recentActivity marks tickets that have a time entry charged against
// them within the recency window.
func recentActivity(entries []entities.TimeEntry, window time.Duration, now time.Time) map[int]bool {
	var cutoff time.Time
	if window > 0 {
		cutoff = now.Add(-window)
	}

	active := make(map[int]bool)
	for _, e := range entries {
		if e.ChargeToType != entities.ChargeProjectTicket && e.ChargeToType != entities.ChargeServiceTicket {
			continue
		}
		if !cutoff.IsZero() && e.TimeStart.Before(cutoff) {
			continue
		}
		active[e.ChargeToID] = true
	}
	return active
}
