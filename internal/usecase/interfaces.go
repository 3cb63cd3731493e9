package usecase

import (
	"context"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// AnalysisUsecaseInterface abstracts analysis-run operations for the
// delivery layer.
type AnalysisUsecaseInterface interface {
	RunAnalysis(ctx context.Context) (entities.RunSummary, error)
}

// ReportUsecaseInterface abstracts snapshot retrieval operations.
type ReportUsecaseInterface interface {
	Reports(ctx context.Context) ([]entities.ReportSummary, error)
	Report(ctx context.Context, projectID int) (*entities.Snapshot, error)
}
