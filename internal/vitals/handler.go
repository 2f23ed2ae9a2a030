package vitals

import (
	"errors"
	"net/http"
	"time"

	"CareBridge/internal/auth"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler handles HTTP requests for vitals logs. The logic is thin enough
// that it talks to the repository directly.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func validateEntry(req AddEntryRequest) error {
	if req.Systolic == 0 && req.Diastolic == 0 && req.GlucoseMgDl == 0 && req.WeightKg == 0 && req.TemperatureC == 0 {
		return errors.New("at least one measurement is required")
	}
	if (req.Systolic == 0) != (req.Diastolic == 0) {
		return errors.New("blood pressure needs both systolic and diastolic")
	}
	if req.Systolic < 0 || req.Diastolic < 0 || req.GlucoseMgDl < 0 || req.WeightKg < 0 || req.TemperatureC < 0 {
		return errors.New("measurements cannot be negative")
	}
	return nil
}

func (h *Handler) AddEntry(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req AddEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := validateEntry(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	entry := &Entry{
		ID:           primitive.NewObjectID(),
		PatientID:    user.UserID,
		Systolic:     req.Systolic,
		Diastolic:    req.Diastolic,
		GlucoseMgDl:  req.GlucoseMgDl,
		WeightKg:     req.WeightKg,
		TemperatureC: req.TemperatureC,
		Notes:        req.Notes,
		RecordedAt:   time.Now(),
	}
	if err := h.repo.Insert(c.Request().Context(), entry); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save vitals"})
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListEntries(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	// Staff can read a patient's vitals; patients read their own.
	patientID := user.UserID
	if id := c.QueryParam("patient_id"); id != "" && user.Role != auth.RolePatient {
		patientID = id
	}
	entries, err := h.repo.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list vitals"})
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) LatestEntry(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	patientID := user.UserID
	if id := c.QueryParam("patient_id"); id != "" && user.Role != auth.RolePatient {
		patientID = id
	}
	entry, err := h.repo.Latest(c.Request().Context(), patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load vitals"})
	}
	if entry == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No vitals recorded"})
	}
	return c.JSON(http.StatusOK, entry)
}
