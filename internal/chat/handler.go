package chat

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

func (h *Handler) SendMessage(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	msg, err := h.service.Send(c.Request().Context(), user.UserID, req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) GetConversation(c echo.Context) error {
	user, ok := c.Get("user").(*auth.JWTClaims)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user claims"})
	}
	peerID := c.Param("peerId")
	if peerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "peerId is required"})
	}
	messages, err := h.service.Conversation(c.Request().Context(), user.UserID, peerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load conversation"})
	}
	return c.JSON(http.StatusOK, messages)
}
