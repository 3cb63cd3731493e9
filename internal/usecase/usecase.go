package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/analyze"
	"github.com/davejoelwilson/connectwise-project-reports/internal/usecase/domain"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	AnalysisUsecaseInterface
	ReportUsecaseInterface
}

// New constructs the usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	source domain.Source,
	store domain.Store,
	narrator domain.Narrator,
	analyzer analyze.Config,
	runDeadline time.Duration,
) InterfaceUsecase {
	return domain.New(log, source, store, narrator, analyzer, runDeadline)
}
