// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/davejoelwilson/connectwise-project-reports/internal/usecase"
)

// Handler serves stored snapshots and run triggers over HTTP.
type Handler struct {
	log *zap.SugaredLogger
	uc  usecase.InterfaceUsecase
}

// NewHandler constructs an HTTP handler with service dependencies.
func NewHandler(log *zap.SugaredLogger, uc usecase.InterfaceUsecase) *Handler {
	return &Handler{
		log: log,
		uc:  uc,
	}
}

// Register attaches all routes to the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/reports", h.GetReports)
	app.Get("/reports/:projectID", h.GetReport)
	app.Post("/runs", h.PostRun)
}
