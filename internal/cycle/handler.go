package cycle

import (
	"net/http"
	"time"

	"CareBridge/internal/auth"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for cycle tracking.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func userIDFromContext(c echo.Context) (string, bool) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.UserID, true
}

// GetOverview returns the profile with current predictions.
func (h *Handler) GetOverview(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	overview, err := h.service.GetOverview(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, overview)
}

type logPeriodRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	Notes     string `json:"notes"`
}

// LogPeriod records a new period start date.
func (h *Handler) LogPeriod(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req logPeriodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
	}
	if err := h.service.LogPeriod(c.Request().Context(), userID, start, req.Notes); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Period logged"})
}

type settingsRequest struct {
	CycleLengthDays    int `json:"cycle_length_days"`
	PeriodDurationDays int `json:"period_duration_days"`
}

// UpdateSettings changes cycle length and period duration.
func (h *Handler) UpdateSettings(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.UpdateSettings(c.Request().Context(), userID, req.CycleLengthDays, req.PeriodDurationDays); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Settings updated"})
}

// SetReminders replaces the reminder flag selection.
func (h *Handler) SetReminders(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var flags ReminderFlags
	if err := c.Bind(&flags); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.SetReminderFlags(c.Request().Context(), userID, flags); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update reminders"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reminders updated"})
}

// GetHistory lists past cycles, newest first.
func (h *Handler) GetHistory(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	history, err := h.service.History(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, history)
}
