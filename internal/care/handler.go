package care

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

// Assign creates a staff-to-patient assignment (admin only, enforced by
// RBAC middleware).
func (h *Handler) Assign(c echo.Context) error {
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	assignment, err := h.service.Assign(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, assignment)
}

// ListAssignments returns the caller's active assignments: care team for
// patients, patient roster for staff.
func (h *Handler) ListAssignments(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var (
		list []*Assignment
		err  error
	)
	if user.Role == auth.RolePatient {
		list, err = h.service.AssignmentsForPatient(c.Request().Context(), user.UserID)
	} else {
		list, err = h.service.AssignmentsForStaff(c.Request().Context(), user.UserID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list assignments"})
	}
	return c.JSON(http.StatusOK, list)
}

// AddLabReport stores lab report metadata for a patient (staff only).
func (h *Handler) AddLabReport(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req AddLabReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	report, err := h.service.AddLabReport(c.Request().Context(), user.UserID, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, report)
}

// ListLabReports lists a patient's lab reports, newest first.
func (h *Handler) ListLabReports(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	patientID := user.UserID
	if id := c.QueryParam("patient_id"); id != "" && user.Role != auth.RolePatient {
		patientID = id
	}
	reports, err := h.service.LabReports(c.Request().Context(), patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list lab reports"})
	}
	return c.JSON(http.StatusOK, reports)
}
