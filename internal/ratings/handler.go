package ratings

import (
	"net/http"

	"CareBridge/internal/auth"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Rate lets a patient rate a doctor; re-rating replaces the previous score.
func (h *Handler) Rate(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.Rate(c.Request().Context(), user.UserID, req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Rating saved"})
}

// GetSummary returns aggregate ratings for a doctor.
func (h *Handler) GetSummary(c echo.Context) error {
	doctorID := c.Param("doctorId")
	if doctorID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "doctorId is required"})
	}
	summary, err := h.service.Summarize(c.Request().Context(), doctorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to summarize ratings"})
	}
	return c.JSON(http.StatusOK, summary)
}
