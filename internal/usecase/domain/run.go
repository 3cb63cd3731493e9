package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davejoelwilson/connectwise-project-reports/internal/aggregate"
	"github.com/davejoelwilson/connectwise-project-reports/internal/analyze"
	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// RunAnalysis executes one full pipeline pass: fetch all collections,
// aggregate them into per-project reports, analyze each report and
// write one snapshot per project. The run deadline cancels outstanding
// fetches; whatever was assembled by then still produces snapshots,
// tagged partial.
func (u *Usecase) RunAnalysis(ctx context.Context) (entities.RunSummary, error) {
	ctx, cancel := withTimeout(ctx, u.runDeadline)
	defer cancel()

	started := time.Now()
	runID := uuid.NewString()
	u.log.Infow("analysis run started", "run_id", runID)

	// Projects and members have no upstream dependency; fetch both first.
	var (
		projects []entities.Project
		pMeta    entities.FetchMeta
		members  []entities.Member
		mMeta    entities.FetchMeta
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, pMeta = u.source.Projects(gctx)
		return nil
	})
	g.Go(func() error {
		members, mMeta = u.source.Members(gctx)
		return nil
	})
	_ = g.Wait()

	projectIDs := make([]int, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	tickets, tMeta := u.source.Tickets(ctx, projectIDs)

	ticketIDs := make([]int, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.ID)
	}

	// Time entries and notes depend only on the ids above; fetch them in
	// parallel. A failure in one never aborts the other.
	var (
		entries []entities.TimeEntry
		eMeta   entities.FetchMeta
		notes   []entities.Note
		nMeta   entities.FetchMeta
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, eMeta = u.source.TimeEntries(gctx, append(append([]int{}, ticketIDs...), projectIDs...))
		return nil
	})
	g.Go(func() error {
		notes, nMeta = u.source.Notes(gctx, projectIDs, ticketIDs)
		return nil
	})
	_ = g.Wait()

	partial := pMeta.Partial || mMeta.Partial || tMeta.Partial || eMeta.Partial || nMeta.Partial
	warnings := concatWarnings(pMeta, mMeta, tMeta, eMeta, nMeta)

	reports, orphans := aggregate.Build(aggregate.Input{
		Projects:    projects,
		Tickets:     tickets,
		TimeEntries: entries,
		Notes:       notes,
		Members:     members,
		Partial:     partial,
		Warnings:    warnings,
	})
	for _, w := range orphans {
		u.log.Warnw("orphan record excluded", "resource", w.Resource, "record_id", w.RecordID, "reason", w.Reason)
	}

	now := time.Now()
	for _, report := range reports {
		snap := entities.Snapshot{
			RunID:       runID,
			GeneratedAt: now,
			Report:      report,
			Analysis:    analyze.Analyze(report, u.analyzer, now),
		}

		narrative, err := u.narrator.Narrative(ctx, snap)
		if err != nil {
			u.log.Warnw("narrative generation failed", "project_id", report.Project.ID, "error", err.Error())
		} else if narrative != nil {
			snap.Narrative = narrative
		}

		if err := u.store.Write(ctx, snap); err != nil {
			return entities.RunSummary{}, err
		}
	}

	summary := entities.RunSummary{
		RunID:      runID,
		StartedAt:  started,
		DurationMS: time.Since(started).Milliseconds(),
		Projects:   len(reports),
		Partial:    partial,
		Warnings:   len(warnings) + len(orphans),
	}
	u.log.Infow("analysis run complete",
		"run_id", runID,
		"projects", summary.Projects,
		"partial", summary.Partial,
		"warnings", summary.Warnings,
		"duration_ms", summary.DurationMS,
	)
	return summary, nil
}

func concatWarnings(metas ...entities.FetchMeta) []entities.Warning {
	var out []entities.Warning
	for _, m := range metas {
		out = append(out, m.Warnings...)
	}
	return out
}
