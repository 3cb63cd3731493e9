// Package snapshot persists immutable per-project report snapshots as
// flat JSON files. A snapshot is written once per run with an atomic
// replace so a consumer never reads partially-written output.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Store writes and reads snapshot documents under one directory.
type Store struct {
	dir string
	log *zap.SugaredLogger
}

// NewStore constructs a Store, creating the directory if needed.
func NewStore(dir string, log *zap.SugaredLogger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: snapshot directory is required", entities.ErrConfiguration)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Write serializes the snapshot and replaces the project's document
// atomically.
func (s *Store) Write(_ context.Context, snap entities.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot for project %d: %w", snap.Project.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	target := s.path(snap.Project.ID)
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", target, err)
	}

	s.log.Debugw("snapshot written", "project_id", snap.Project.ID, "path", target, "partial", snap.Partial)
	return nil
}

// Read loads the snapshot for one project.
func (s *Store) Read(_ context.Context, projectID int) (*entities.Snapshot, error) {
	data, err := os.ReadFile(s.path(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: project %d", entities.ErrReportNotFound, projectID)
		}
		return nil, fmt.Errorf("read snapshot for project %d: %w", projectID, err)
	}

	var snap entities.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot for project %d: %w", projectID, err)
	}
	return &snap, nil
}

// List returns a summary of every stored snapshot, ordered by project id.
func (s *Store) List(_ context.Context) ([]entities.ReportSummary, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "project_*.json"))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	summaries := make([]entities.ReportSummary, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warnw("unreadable snapshot skipped", "path", path, "error", err.Error())
			continue
		}
		var snap entities.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			s.log.Warnw("undecodable snapshot skipped", "path", path, "error", err.Error())
			continue
		}
		summaries = append(summaries, entities.ReportSummary{
			ProjectID:      snap.Project.ID,
			ProjectName:    snap.Project.Name,
			RiskLevel:      snap.Analysis.RiskLevel,
			CompletionRate: snap.Analysis.CompletionRate,
			Partial:        snap.Partial,
			GeneratedAt:    snap.GeneratedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ProjectID < summaries[j].ProjectID })
	return summaries, nil
}

func (s *Store) path(projectID int) string {
	return filepath.Join(s.dir, fmt.Sprintf("project_%d.json", projectID))
}
