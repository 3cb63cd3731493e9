package handlers_fiber

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// GetReports returns the snapshot index.
func (h *Handler) GetReports(c *fiber.Ctx) error {
	summaries, err := h.uc.Reports(c.Context())
	if err != nil {
		h.log.Errorw("failed to list reports", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(summaries)
}

// GetReport returns the full snapshot for one project.
func (h *Handler) GetReport(c *fiber.Ctx) error {
	projectID, err := strconv.Atoi(c.Params("projectID"))
	if err != nil {
		return writeError(c, fmt.Errorf("%w: project id must be an integer", entities.ErrInvalidArgument))
	}

	snap, err := h.uc.Report(c.Context(), projectID)
	if err != nil {
		h.log.Errorw("failed to get report", "project_id", projectID, "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(snap)
}
