// Package domain contains the application service orchestrating the
// fetch, aggregation, analysis and snapshot pipeline.
package domain

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/analyze"
	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Source retrieves validated record collections from the platform.
// Implementations report degraded fetches through FetchMeta instead of
// failing, so one collection's failure never aborts a sibling's.
type Source interface {
	Projects(ctx context.Context) ([]entities.Project, entities.FetchMeta)
	Tickets(ctx context.Context, projectIDs []int) ([]entities.Ticket, entities.FetchMeta)
	TimeEntries(ctx context.Context, chargeIDs []int) ([]entities.TimeEntry, entities.FetchMeta)
	Notes(ctx context.Context, projectIDs, ticketIDs []int) ([]entities.Note, entities.FetchMeta)
	Members(ctx context.Context) ([]entities.Member, entities.FetchMeta)
}

// Store persists and serves immutable snapshots.
type Store interface {
	Write(ctx context.Context, snap entities.Snapshot) error
	Read(ctx context.Context, projectID int) (*entities.Snapshot, error)
	List(ctx context.Context) ([]entities.ReportSummary, error)
}

// Narrator generates the optional AI narrative for a snapshot.
type Narrator interface {
	Narrative(ctx context.Context, snap entities.Snapshot) (*entities.Narrative, error)
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	log         *zap.SugaredLogger
	source      Source
	store       Store
	narrator    Narrator
	analyzer    analyze.Config
	runDeadline time.Duration
}

// New constructs the usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	source Source,
	store Store,
	narrator Narrator,
	analyzer analyze.Config,
	runDeadline time.Duration,
) *Usecase {
	return &Usecase{
		log:         log,
		source:      source,
		store:       store,
		narrator:    narrator,
		analyzer:    analyzer,
		runDeadline: runDeadline,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
