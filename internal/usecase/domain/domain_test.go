package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/analyze"
	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Projects(ctx context.Context) ([]entities.Project, entities.FetchMeta) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Project), args.Get(1).(entities.FetchMeta)
}

func (m *MockSource) Tickets(ctx context.Context, projectIDs []int) ([]entities.Ticket, entities.FetchMeta) {
	args := m.Called(ctx, projectIDs)
	return args.Get(0).([]entities.Ticket), args.Get(1).(entities.FetchMeta)
}

func (m *MockSource) TimeEntries(ctx context.Context, chargeIDs []int) ([]entities.TimeEntry, entities.FetchMeta) {
	args := m.Called(ctx, chargeIDs)
	return args.Get(0).([]entities.TimeEntry), args.Get(1).(entities.FetchMeta)
}

func (m *MockSource) Notes(ctx context.Context, projectIDs, ticketIDs []int) ([]entities.Note, entities.FetchMeta) {
	args := m.Called(ctx, projectIDs, ticketIDs)
	return args.Get(0).([]entities.Note), args.Get(1).(entities.FetchMeta)
}

func (m *MockSource) Members(ctx context.Context) ([]entities.Member, entities.FetchMeta) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Member), args.Get(1).(entities.FetchMeta)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Write(ctx context.Context, snap entities.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockStore) Read(ctx context.Context, projectID int) (*entities.Snapshot, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Snapshot), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]entities.ReportSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ReportSummary), args.Error(1)
}

type MockNarrator struct {
	mock.Mock
}

func (m *MockNarrator) Narrative(ctx context.Context, snap entities.Snapshot) (*entities.Narrative, error) {
	args := m.Called(ctx, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Narrative), args.Error(1)
}

func newTestUsecase(source *MockSource, store *MockStore, narrator *MockNarrator) *Usecase {
	return New(zap.NewNop().Sugar(), source, store, narrator, analyze.Config{}, time.Minute)
}

func cleanMeta() entities.FetchMeta { return entities.FetchMeta{} }

func TestRunAnalysisWritesOneSnapshotPerProject(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	narrator := new(MockNarrator)

	source.On("Projects", mock.Anything).Return([]entities.Project{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}, cleanMeta())
	source.On("Members", mock.Anything).Return([]entities.Member{}, cleanMeta())
	source.On("Tickets", mock.Anything, []int{1, 2}).Return([]entities.Ticket{{ID: 100, ProjectID: 1}}, cleanMeta())
	source.On("TimeEntries", mock.Anything, []int{100, 1, 2}).Return([]entities.TimeEntry{}, cleanMeta())
	source.On("Notes", mock.Anything, []int{1, 2}, []int{100}).Return([]entities.Note{}, cleanMeta())

	narrator.On("Narrative", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("Write", mock.Anything, mock.Anything).Return(nil).Twice()

	uc := newTestUsecase(source, store, narrator)
	summary, err := uc.RunAnalysis(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, summary.RunID)
	require.Equal(t, 2, summary.Projects)
	require.False(t, summary.Partial)
	require.Zero(t, summary.Warnings)
	source.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRunAnalysisPartialTimeEntriesStillProducesSnapshots(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	narrator := new(MockNarrator)

	degraded := entities.FetchMeta{
		Partial:  true,
		Warnings: []entities.Warning{{Resource: "time-entries", Reason: "page 2 fetch failed: attempts exhausted"}},
	}

	source.On("Projects", mock.Anything).Return([]entities.Project{{ID: 1, Name: "Alpha"}}, cleanMeta())
	source.On("Members", mock.Anything).Return([]entities.Member{}, cleanMeta())
	source.On("Tickets", mock.Anything, []int{1}).Return([]entities.Ticket{
		{ID: 100, ProjectID: 1, Status: entities.StatusInProgress, ActualHours: 3},
	}, cleanMeta())
	source.On("TimeEntries", mock.Anything, []int{100, 1}).Return([]entities.TimeEntry{}, degraded)
	source.On("Notes", mock.Anything, []int{1}, []int{100}).Return([]entities.Note{}, cleanMeta())

	narrator.On("Narrative", mock.Anything, mock.Anything).Return(nil, nil)

	var written entities.Snapshot
	store.On("Write", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(entities.Snapshot)
	}).Return(nil).Once()

	uc := newTestUsecase(source, store, narrator)
	summary, err := uc.RunAnalysis(context.Background())
	require.NoError(t, err)

	require.True(t, summary.Partial)
	require.Equal(t, 1, summary.Warnings)

	require.True(t, written.Partial)
	require.Len(t, written.Tickets, 1)
	require.Len(t, written.Warnings, 1)
	require.Contains(t, written.Warnings[0].Reason, "page 2")
}

func TestRunAnalysisNarrativeFailureIsNonFatal(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	narrator := new(MockNarrator)

	source.On("Projects", mock.Anything).Return([]entities.Project{{ID: 1}}, cleanMeta())
	source.On("Members", mock.Anything).Return([]entities.Member{}, cleanMeta())
	source.On("Tickets", mock.Anything, []int{1}).Return([]entities.Ticket{}, cleanMeta())
	source.On("TimeEntries", mock.Anything, []int{1}).Return([]entities.TimeEntry{}, cleanMeta())
	source.On("Notes", mock.Anything, []int{1}, []int{}).Return([]entities.Note{}, cleanMeta())

	narrator.On("Narrative", mock.Anything, mock.Anything).Return(nil, errors.New("orchestrator unavailable"))

	var written entities.Snapshot
	store.On("Write", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(entities.Snapshot)
	}).Return(nil).Once()

	uc := newTestUsecase(source, store, narrator)
	_, err := uc.RunAnalysis(context.Background())
	require.NoError(t, err)
	require.Nil(t, written.Narrative)
}

func TestRunAnalysisAttachesNarrative(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	narrator := new(MockNarrator)

	source.On("Projects", mock.Anything).Return([]entities.Project{{ID: 1}}, cleanMeta())
	source.On("Members", mock.Anything).Return([]entities.Member{}, cleanMeta())
	source.On("Tickets", mock.Anything, []int{1}).Return([]entities.Ticket{}, cleanMeta())
	source.On("TimeEntries", mock.Anything, []int{1}).Return([]entities.TimeEntry{}, cleanMeta())
	source.On("Notes", mock.Anything, []int{1}, []int{}).Return([]entities.Note{}, cleanMeta())

	narrator.On("Narrative", mock.Anything, mock.Anything).Return(&entities.Narrative{Summary: "on track"}, nil)

	var written entities.Snapshot
	store.On("Write", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(entities.Snapshot)
	}).Return(nil).Once()

	uc := newTestUsecase(source, store, narrator)
	_, err := uc.RunAnalysis(context.Background())
	require.NoError(t, err)
	require.NotNil(t, written.Narrative)
	require.Equal(t, "on track", written.Narrative.Summary)
}

func TestRunAnalysisStoreFailureAbortsRun(t *testing.T) {
	source := new(MockSource)
	store := new(MockStore)
	narrator := new(MockNarrator)

	source.On("Projects", mock.Anything).Return([]entities.Project{{ID: 1}}, cleanMeta())
	source.On("Members", mock.Anything).Return([]entities.Member{}, cleanMeta())
	source.On("Tickets", mock.Anything, []int{1}).Return([]entities.Ticket{}, cleanMeta())
	source.On("TimeEntries", mock.Anything, []int{1}).Return([]entities.TimeEntry{}, cleanMeta())
	source.On("Notes", mock.Anything, []int{1}, []int{}).Return([]entities.Note{}, cleanMeta())

	narrator.On("Narrative", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	uc := newTestUsecase(source, store, narrator)
	_, err := uc.RunAnalysis(context.Background())
	require.ErrorContains(t, err, "disk full")
}

func TestReportRejectsNonPositiveID(t *testing.T) {
	uc := newTestUsecase(new(MockSource), new(MockStore), new(MockNarrator))

	_, err := uc.Report(context.Background(), 0)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = uc.Report(context.Background(), -3)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestReportDelegatesToStore(t *testing.T) {
	store := new(MockStore)
	want := &entities.Snapshot{RunID: "run-9"}
	store.On("Read", mock.Anything, 7).Return(want, nil)

	uc := newTestUsecase(new(MockSource), store, new(MockNarrator))
	got, err := uc.Report(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, want, got)
	store.AssertExpectations(t)
}

func TestReportsDelegatesToStore(t *testing.T) {
	store := new(MockStore)
	want := []entities.ReportSummary{{ProjectID: 1}, {ProjectID: 2}}
	store.On("List", mock.Anything).Return(want, nil)

	uc := newTestUsecase(new(MockSource), store, new(MockNarrator))
	got, err := uc.Reports(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}
