// Package entities contains core business entities.
package entities

// RiskLevel is an ordinal LOW < MEDIUM < HIGH risk classification.
type RiskLevel string

const (
	// RiskLow is the starting risk level of every evaluation.
	RiskLow RiskLevel = "LOW"
	// RiskMedium signals missing estimates or a low completion rate.
	RiskMedium RiskLevel = "MEDIUM"
	// RiskHigh signals stalled or unassigned tickets above threshold.
	RiskHigh RiskLevel = "HIGH"
)

var riskRank = map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}

// Escalate raises the level to target if target ranks higher.
// A level is never downgraded within one evaluation.
func (r RiskLevel) Escalate(target RiskLevel) RiskLevel {
	if riskRank[target] > riskRank[r] {
		return target
	}
	return r
}

// MemberAllocation summarizes one member's ticket load. HoursLogged is
// scoped to the member's assigned tickets, not their global time entries.
type MemberAllocation struct {
	AssignedTickets  int     `json:"assigned_tickets"`
	CompletedTickets int     `json:"completed_tickets"`
	HoursLogged      float64 `json:"hours_logged"`
}

// AnalysisResult holds the deterministic metrics derived from a Report.
type AnalysisResult struct {
	TotalTickets         int                         `json:"total_tickets"`
	CompletedTickets     int                         `json:"completed_tickets"`
	CompletionRate       float64                     `json:"completion_rate"`
	RiskLevel            RiskLevel                   `json:"risk_level"`
	RiskFactors          []string                    `json:"risk_factors"`
	StalledTicketIDs     []int                       `json:"stalled_ticket_ids"`
	UnassignedTicketIDs  []int                       `json:"unassigned_ticket_ids"`
	MemberAllocation     map[string]MemberAllocation `json:"member_allocation"`
	StatusDistribution   map[Status]int              `json:"status_distribution"`
	PriorityDistribution map[string]int              `json:"priority_distribution"`
	TeamSize             int                         `json:"team_size"`
}
