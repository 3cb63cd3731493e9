// Package entities contains core business entities.
package entities

import "time"

// Warning records a dropped record or a degraded fetch without
// aborting the run.
type Warning struct {
	Resource string `json:"resource"`
	RecordID int    `json:"record_id,omitempty"`
	Reason   string `json:"reason"`
}

// FetchMeta reports how a collection fetch concluded.
type FetchMeta struct {
	Partial  bool
	Warnings []Warning
}

// Report is the merged per-project bundle for one analysis run.
type Report struct {
	Project     Project     `json:"project"`
	Tickets     []Ticket    `json:"tickets"`
	TimeEntries []TimeEntry `json:"time_entries"`
	Notes       []Note      `json:"notes"`
	Members     []Member    `json:"members"`
	Partial     bool        `json:"partial"`
	Warnings    []Warning   `json:"warnings"`
}

// Narrative is the free-text insight returned by the AI orchestrator.
// Its content is not validated beyond shape.
type Narrative struct {
	Summary          string   `json:"summary"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

// Snapshot is the immutable output artifact written once per project
// per run. It is the sole contract with the dashboard and the
// narrative orchestrator.
type Snapshot struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Report
	Analysis  AnalysisResult `json:"analysis"`
	Narrative *Narrative     `json:"narrative,omitempty"`
}

// ReportSummary is a compact index entry over stored snapshots.
type ReportSummary struct {
	ProjectID      int       `json:"project_id"`
	ProjectName    string    `json:"project_name"`
	RiskLevel      RiskLevel `json:"risk_level"`
	CompletionRate float64   `json:"completion_rate"`
	Partial        bool      `json:"partial"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// RunSummary describes the outcome of one analysis run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Projects   int       `json:"projects"`
	Partial    bool      `json:"partial"`
	Warnings   int       `json:"warnings"`
}
