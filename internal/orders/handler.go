package orders

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

func claims(c echo.Context) (*auth.JWTClaims, bool) {
	claims, ok := c.Get("user").(*auth.JWTClaims)
	return claims, ok && claims != nil
}

// CreateOrder lets a patient place a medicine order with a pharmacy.
func (h *Handler) CreateOrder(c echo.Context) error {
	user, ok := claims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	order, err := h.service.CreateOrder(c.Request().Context(), user.UserID, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders returns the caller's orders: placed orders for patients, queue
// for pharmacies.
func (h *Handler) ListOrders(c echo.Context) error {
	user, ok := claims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var (
		list []*Order
		err  error
	)
	if user.Role == auth.RolePharmacy {
		list, err = h.service.ListForPharmacy(c.Request().Context(), user.UserID)
	} else {
		list, err = h.service.ListForPatient(c.Request().Context(), user.UserID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list orders"})
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateStatus lets the owning pharmacy move an order through the workflow.
func (h *Handler) UpdateStatus(c echo.Context) error {
	user, ok := claims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.UpdateStatus(c.Request().Context(), user.UserID, c.Param("id"), req.Status); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated"})
}
