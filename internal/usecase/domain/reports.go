package domain

import (
	"context"
	"fmt"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Reports returns a summary of every stored snapshot.
func (u *Usecase) Reports(ctx context.Context) ([]entities.ReportSummary, error) {
	return u.store.List(ctx)
}

// Report returns the full snapshot for one project.
func (u *Usecase) Report(ctx context.Context, projectID int) (*entities.Snapshot, error) {
	if projectID <= 0 {
		return nil, fmt.Errorf("%w: project id must be positive", entities.ErrInvalidArgument)
	}
	return u.store.Read(ctx, projectID)
}
