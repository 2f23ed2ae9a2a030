package reminder

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the admin-only trigger and cron control endpoints.
type Handler struct {
	runner *CronRunner
}

func NewHandler(runner *CronRunner) *Handler {
	return &Handler{runner: runner}
}

// TriggerReminders runs the daily pass immediately and returns its result.
// Triggering twice on the same day resends any still-due reminders.
func (h *Handler) TriggerReminders(c echo.Context) error {
	result := h.runner.TriggerNow(c.Request().Context())
	return c.JSON(http.StatusOK, result)
}

// CronStatus reports per-job state and next fire times.
func (h *Handler) CronStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": h.runner.Status()})
}

// RestartCron stops all jobs and schedules them again.
func (h *Handler) RestartCron(c echo.Context) error {
	if err := h.runner.Restart(); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to restart cron: " + err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Cron restarted", "jobs": h.runner.Status()})
}
