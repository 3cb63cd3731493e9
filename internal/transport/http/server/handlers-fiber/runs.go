package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// PostRun triggers a full analysis run and returns its summary.
func (h *Handler) PostRun(c *fiber.Ctx) error {
	summary, err := h.uc.RunAnalysis(c.Context())
	if err != nil {
		h.log.Errorw("analysis run failed", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(summary)
}
